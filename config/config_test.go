package config

import (
	"context"
	"strings"
	"testing"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
	"github.com/rushteam/recsys/recommend"
)

const sampleYAML = `
scale:
  min: 1
  max: 10
topn: 5
strategy:
  type: hybrid
  params:
    content_weight: 0.6
    metric: pearson
filters:
  - type: rule
    params:
      expr: item.score < 0.05
cache:
  backend: memory
  ttl: 60
`

func TestLoad(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TopN != 5 {
		t.Fatalf("TopN = %d", cfg.TopN)
	}
	if got := cfg.ScaleOrDefault(); got.Min != 1 || got.Max != 10 {
		t.Fatalf("scale = %+v", got)
	}
	if cfg.Strategy.Type != "hybrid" {
		t.Fatalf("strategy type = %q", cfg.Strategy.Type)
	}
	if len(cfg.Filters) != 1 || cfg.Filters[0].Type != "rule" {
		t.Fatalf("filters = %+v", cfg.Filters)
	}
	if cfg.Cache == nil || cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 60 {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(strings.NewReader("topn: [")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestScaleOrDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.ScaleOrDefault(); got != core.DefaultScale {
		t.Fatalf("default scale = %+v", got)
	}
}

func TestBuildEngine(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	data := dataset.New(cfg.ScaleOrDefault())

	eng, err := BuildEngine(cfg, data)
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}
	if eng.TopN != 5 {
		t.Fatalf("TopN = %d", eng.TopN)
	}
	if eng.Strategy.Name() != "hybrid" {
		t.Fatalf("strategy = %q", eng.Strategy.Name())
	}
	if len(eng.Filters) != 1 {
		t.Fatalf("filters = %d", len(eng.Filters))
	}
	if eng.Cache == nil || eng.Cache.Store == nil {
		t.Fatal("cache not wired")
	}
	defer eng.Cache.Store.Close()

	h, ok := eng.Strategy.(*recommend.Hybrid)
	if !ok {
		t.Fatalf("strategy concrete type %T", eng.Strategy)
	}
	if h.ContentWeight != 0.6 {
		t.Fatalf("content weight = %v", h.ContentWeight)
	}
	cf, ok := h.Collaborative.(*recommend.Collaborative)
	if !ok {
		t.Fatalf("collaborative concrete type %T", h.Collaborative)
	}
	if cf.Metric != recommend.MetricPearson {
		t.Fatalf("metric = %q", cf.Metric)
	}
}

func TestBuildEngineRunsEndToEnd(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
topn: 3
strategy:
  type: content
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	data := dataset.New(cfg.ScaleOrDefault())
	g, err := core.NewEnumValue("genre", []string{"action"}, core.EnumDomain("action"))
	if err != nil {
		t.Fatalf("NewEnumValue: %v", err)
	}
	it, err := core.NewItem(1, core.CategoryMovie, []core.AttributeValue{g})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if err := data.AddItem(it); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := data.AddUser(&core.User{ID: 1, Username: "ana"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	eng, err := BuildEngine(cfg, data)
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}
	got, err := eng.Recommend(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0].Item.ID() != 1 {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestBuildEngineErrors(t *testing.T) {
	data := dataset.New(core.Scale{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown strategy", cfg: Config{Strategy: NodeConfig{Type: "oracle"}}},
		{name: "unknown filter", cfg: Config{
			Strategy: NodeConfig{Type: "content"},
			Filters:  []NodeConfig{{Type: "magic"}},
		}},
		{name: "rule filter without expr", cfg: Config{
			Strategy: NodeConfig{Type: "content"},
			Filters:  []NodeConfig{{Type: "rule"}},
		}},
		{name: "rule filter with malformed expr fails at build time", cfg: Config{
			Strategy: NodeConfig{Type: "content"},
			Filters:  []NodeConfig{{Type: "rule", Params: map[string]any{"expr": "this is (( not an expression"}}},
		}},
		{name: "bad metric", cfg: Config{
			Strategy: NodeConfig{Type: "collaborative", Params: map[string]any{"metric": "jaccard"}},
		}},
		{name: "content weight out of range", cfg: Config{
			Strategy: NodeConfig{Type: "hybrid", Params: map[string]any{"content_weight": 1.5}},
		}},
		{name: "unknown cache backend", cfg: Config{
			Strategy: NodeConfig{Type: "content"},
			Cache:    &CacheConfig{Backend: "tape"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildEngine(&tt.cfg, data); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
