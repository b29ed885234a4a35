package config

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/recsys/cache"
	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
	"github.com/rushteam/recsys/filter"
	"github.com/rushteam/recsys/pkg/conv"
	"github.com/rushteam/recsys/recommend"
)

// StrategyBuilder 根据配置参数构建一个策略。
type StrategyBuilder func(data *dataset.Dataset, params map[string]any) (recommend.Strategy, error)

// FilterBuilder 根据配置参数构建一个过滤器。
type FilterBuilder func(data *dataset.Dataset, params map[string]any) (filter.Filter, error)

var (
	registryMu sync.RWMutex
	strategies = make(map[string]StrategyBuilder)
	filters    = make(map[string]FilterBuilder)
)

// RegisterStrategy 注册一种策略的构建逻辑，供配置驱动使用。
func RegisterStrategy(typeName string, builder StrategyBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	strategies[typeName] = builder
}

// RegisterFilter 注册一种过滤器的构建逻辑，供配置驱动使用。
func RegisterFilter(typeName string, builder FilterBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	filters[typeName] = builder
}

// SupportedStrategies 返回已注册的策略类型列表（排序），用于错误提示。
func SupportedStrategies() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(strategies))
	for t := range strategies {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func init() {
	RegisterStrategy("content", buildContent)
	RegisterStrategy("collaborative", buildCollaborative)
	RegisterStrategy("hybrid", buildHybrid)
	RegisterFilter("rule", buildRuleFilter)
}

func buildContent(data *dataset.Dataset, params map[string]any) (recommend.Strategy, error) {
	cb := &recommend.ContentBased{Data: data}
	if th, ok := conv.ToFloat64(params["threshold"]); ok {
		cb.Threshold = th
	}
	return cb, nil
}

func buildCollaborative(data *dataset.Dataset, params map[string]any) (recommend.Strategy, error) {
	cf := &recommend.Collaborative{Data: data}
	if m := conv.ConfigGet[string](params, "metric", ""); m != "" {
		metric := recommend.Metric(m)
		if !metric.Valid() {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
				"unknown similarity metric "+m)
		}
		cf.Metric = metric
	}
	if n := conv.ConfigGetInt64(params, "min_common_items", 0); n > 0 {
		cf.MinCommonItems = int(n)
	}
	return cf, nil
}

func buildHybrid(data *dataset.Dataset, params map[string]any) (recommend.Strategy, error) {
	content, err := buildContent(data, params)
	if err != nil {
		return nil, err
	}
	collaborative, err := buildCollaborative(data, params)
	if err != nil {
		return nil, err
	}
	h := &recommend.Hybrid{Content: content, Collaborative: collaborative}
	if w, ok := conv.ToFloat64(params["content_weight"]); ok {
		if w < 0 || w > 1 {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeOutOfRange,
				fmt.Sprintf("content_weight %v outside [0, 1]", w))
		}
		h.ContentWeight = w
	}
	return h, nil
}

func buildRuleFilter(_ *dataset.Dataset, params map[string]any) (filter.Filter, error) {
	expr := conv.ConfigGet[string](params, "expr", "")
	if expr == "" {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
			"rule filter requires expr")
	}
	f := filter.NewRuleFilter(expr)
	if err := f.Compile(); err != nil {
		return nil, err
	}
	return f, nil
}

// BuildEngine 按配置组装推荐引擎。
func BuildEngine(cfg *Config, data *dataset.Dataset) (*recommend.Engine, error) {
	registryMu.RLock()
	strategyBuilder, ok := strategies[cfg.Strategy.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeNotSupported,
			fmt.Sprintf("unsupported strategy type %q (supported: %v)", cfg.Strategy.Type, SupportedStrategies()))
	}
	strategy, err := strategyBuilder(data, cfg.Strategy.Params)
	if err != nil {
		return nil, err
	}

	eng := &recommend.Engine{
		Data:     data,
		Strategy: strategy,
		TopN:     cfg.TopN,
	}

	for _, fc := range cfg.Filters {
		registryMu.RLock()
		filterBuilder, ok := filters[fc.Type]
		registryMu.RUnlock()
		if !ok {
			return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeNotSupported,
				fmt.Sprintf("unsupported filter type %q", fc.Type))
		}
		f, err := filterBuilder(data, fc.Params)
		if err != nil {
			return nil, err
		}
		eng.Filters = append(eng.Filters, f)
	}

	if cfg.Cache != nil {
		store, err := buildStore(cfg.Cache)
		if err != nil {
			return nil, err
		}
		if store != nil {
			eng.Cache = &cache.ResultCache{
				Store: store,
				TTL:   time.Duration(cfg.Cache.TTL) * time.Second,
			}
		}
	}
	return eng, nil
}

func buildStore(cfg *CacheConfig) (core.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		return cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
	default:
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeNotSupported,
			"unsupported cache backend "+cfg.Backend)
	}
}
