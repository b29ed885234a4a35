package recommend

import (
	"context"

	"github.com/rushteam/recsys/cache"
	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
	"github.com/rushteam/recsys/filter"
	"github.com/rushteam/recsys/pipeline"
	"github.com/rushteam/recsys/rerank"
)

// Engine 是推荐引擎的门面：策略产出候选，过滤链剔除约束外的候选，
// Top-N 截断，结果可选写入缓存。
//
// 示例：
//
//	eng := &recommend.Engine{
//	    Data:     data,
//	    Strategy: &recommend.Hybrid{Content: cb, Collaborative: cf},
//	    Filters:  []filter.Filter{filter.NewRuleFilter(`item.score < 0.1`)},
//	    TopN:     10,
//	}
//	items, err := eng.RecommendFor(ctx, 0)
type Engine struct {
	Data     *dataset.Dataset
	Strategy Strategy

	// Filters 附加过滤器，"永不推荐已评分物品"由引擎自动兜底，
	// 不需要在这里重复声明。
	Filters []filter.Filter

	// TopN 默认返回的候选数量，<= 0 表示不截断
	TopN int

	// Cache 推荐结果缓存，nil 表示每次请求都重新计算
	Cache *cache.ResultCache
}

// RecommendFor 为当前活跃用户计算推荐。
// topN <= 0 时使用 Engine.TopN；没有活跃用户时返回 NO_ACTIVE_USER。
func (e *Engine) RecommendFor(ctx context.Context, topN int) ([]*core.ScoredItem, error) {
	user, err := e.Data.ActiveUser()
	if err != nil {
		return nil, err
	}
	return e.Recommend(ctx, user.ID, topN)
}

// Recommend 为指定用户计算推荐。
func (e *Engine) Recommend(ctx context.Context, userID int64, topN int) ([]*core.ScoredItem, error) {
	if topN <= 0 {
		topN = e.TopN
	}

	version := e.Data.Version()
	if e.Cache != nil {
		entries, hit, err := e.Cache.Get(ctx, userID, e.Strategy.Name(), topN, version)
		if err != nil {
			return nil, err
		}
		if hit {
			return e.resolve(entries)
		}
	}

	rctx := &core.RecommendContext{UserID: userID}
	candidates, err := e.Strategy.Recommend(ctx, rctx, 0)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.Node{
				Filters: append([]filter.Filter{&filter.RatedFilter{Data: e.Data}}, e.Filters...),
			},
			&rerank.TopNNode{N: topN},
		},
	}
	items, err := p.Run(ctx, rctx, candidates)
	if err != nil {
		return nil, err
	}

	if e.Cache != nil {
		if err := e.Cache.Put(ctx, userID, e.Strategy.Name(), topN, version, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// resolve 把缓存条目还原为带物品详情的候选。
// 同一版本内物品只增不删，查不到的条目只可能来自损坏的缓存内容，
// 跳过该条目。
func (e *Engine) resolve(entries []cache.Entry) ([]*core.ScoredItem, error) {
	items := make([]*core.ScoredItem, 0, len(entries))
	for _, entry := range entries {
		item, err := e.Data.Item(entry.ItemID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		items = append(items, &core.ScoredItem{Item: item, Score: entry.Score})
	}
	return items, nil
}
