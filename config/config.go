// Package config 用 YAML 配置驱动推荐引擎的组装。
//
// 示例配置：
//
//	scale:
//	  min: 1
//	  max: 5
//	topn: 10
//	strategy:
//	  type: hybrid
//	  params:
//	    content_weight: 0.6
//	    metric: pearson
//	filters:
//	  - type: rule
//	    params:
//	      expr: item.score < 0.1
//	cache:
//	  backend: memory
//	  ttl: 300
package config

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/recsys/core"
)

// Config 是引擎配置的顶层结构。
type Config struct {
	// Scale 评分量表，缺省为 [1, 5]
	Scale *ScaleConfig `yaml:"scale"`

	// TopN 默认返回的候选数量，<= 0 表示不截断
	TopN int `yaml:"topn"`

	// Strategy 策略配置
	Strategy NodeConfig `yaml:"strategy"`

	// Filters 附加过滤器配置
	Filters []NodeConfig `yaml:"filters"`

	// Cache 推荐结果缓存配置，nil 表示不启用
	Cache *CacheConfig `yaml:"cache"`
}

// ScaleConfig 评分量表配置。
type ScaleConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// NodeConfig 是策略/过滤器的通用配置形态：类型名 + 自由参数。
type NodeConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// CacheConfig 缓存配置。
type CacheConfig struct {
	// Backend 取 memory / redis
	Backend string `yaml:"backend"`

	// TTL 缓存过期秒数，0 表示不过期
	TTL int `yaml:"ttl"`

	// Redis backend 为 redis 时的连接参数
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig Redis 连接配置。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// Load 从 r 读取并解析 YAML 配置。
func Load(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "config: "+err.Error())
	}
	return &cfg, nil
}

// LoadFile 从文件读取并解析 YAML 配置。
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// ScaleOrDefault 返回配置的评分量表，未配置时为 DefaultScale。
func (c *Config) ScaleOrDefault() core.Scale {
	if c.Scale == nil {
		return core.DefaultScale
	}
	return core.Scale{Min: c.Scale.Min, Max: c.Scale.Max}
}
