package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/recsys/cache"
	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
	"github.com/rushteam/recsys/filter"
)

func engineData(t *testing.T) *dataset.Dataset {
	t.Helper()
	d := dataset.New(core.Scale{})
	for _, it := range []*core.Item{
		movie(t, 1, "action"),
		movie(t, 2, "action"),
		movie(t, 3, "drama"),
		movie(t, 4, "comedy"),
	} {
		if err := d.AddItem(it); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	addUsers(t, d, 1)
	rate(t, d, 1, 1, 5)
	return d
}

func TestEngineRecommendForRequiresActiveUser(t *testing.T) {
	d := engineData(t)
	eng := &Engine{Data: d, Strategy: &ContentBased{Data: d}}

	_, err := eng.RecommendFor(context.Background(), 0)
	if !core.IsNoActiveUser(err) {
		t.Fatalf("expected NO_ACTIVE_USER, got %v", err)
	}

	if err := d.SetActiveUser(1); err != nil {
		t.Fatalf("SetActiveUser: %v", err)
	}
	got, err := eng.RecommendFor(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecommendFor: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected recommendations for the active user")
	}
}

func TestEngineFiltersRatedItemsFromAnyStrategy(t *testing.T) {
	// even if a strategy misbehaves and emits a rated item, the engine
	// keeps the never-recommend-rated guarantee at its own boundary
	d := engineData(t)
	leaky := &stubStrategy{name: "leaky", items: []*core.ScoredItem{
		scored(t, 1, 0.9), // user 1 already rated item 1
		scored(t, 2, 0.5),
	}}
	eng := &Engine{Data: d, Strategy: leaky}

	got, err := eng.Recommend(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !sameIDs(ids(got), []int64{2}) {
		t.Fatalf("ids = %v, want rated item removed", ids(got))
	}
}

func TestEngineTopN(t *testing.T) {
	d := engineData(t)
	eng := &Engine{Data: d, Strategy: &ContentBased{Data: d}, TopN: 2}

	got, err := eng.Recommend(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("default TopN = 2 but got %d items", len(got))
	}

	got, err = eng.Recommend(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("explicit topN = 1 but got %d items", len(got))
	}
}

func TestEngineExtraFilters(t *testing.T) {
	d := engineData(t)
	eng := &Engine{
		Data:     d,
		Strategy: &ContentBased{Data: d},
		Filters:  []filter.Filter{filter.NewRuleFilter(`"drama" in item.attrs.genre`)},
	}

	got, err := eng.Recommend(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, it := range got {
		if it.Item.ID() == 3 {
			t.Fatalf("filtered drama item leaked: %v", ids(got))
		}
	}
}

func TestEngineSurfacesFilterError(t *testing.T) {
	// a misconfigured rule must fail the request, not silently
	// degrade into unfiltered output
	d := engineData(t)
	eng := &Engine{
		Data:     d,
		Strategy: &ContentBased{Data: d},
		Filters:  []filter.Filter{filter.NewRuleFilter(`this is (( not an expression`)},
	}

	got, err := eng.Recommend(context.Background(), 1, 0)
	if err == nil {
		t.Fatalf("expected error from broken filter, got %d items", len(got))
	}
	if got != nil {
		t.Fatalf("failed request must not return items, got %v", ids(got))
	}
}

func TestEngineCache(t *testing.T) {
	d := engineData(t)
	store := cache.NewMemoryStore()
	defer store.Close()

	counting := &countingStrategy{inner: &ContentBased{Data: d}}
	eng := &Engine{
		Data:     d,
		Strategy: counting,
		Cache:    &cache.ResultCache{Store: store, TTL: time.Minute},
	}

	first, err := eng.Recommend(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("first Recommend: %v", err)
	}
	second, err := eng.Recommend(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("second Recommend: %v", err)
	}
	if counting.calls != 1 {
		t.Fatalf("expected cache hit on second call, strategy ran %d times", counting.calls)
	}
	if !sameIDs(ids(first), ids(second)) {
		t.Fatalf("cached result differs: %v vs %v", ids(first), ids(second))
	}

	// any write invalidates: the version in the key changes
	rate(t, d, 1, 3, 2)
	if _, err := eng.Recommend(context.Background(), 1, 0); err != nil {
		t.Fatalf("third Recommend: %v", err)
	}
	if counting.calls != 2 {
		t.Fatalf("expected recompute after write, strategy ran %d times", counting.calls)
	}
}

type countingStrategy struct {
	inner Strategy
	calls int
}

func (s *countingStrategy) Name() string { return "counting" }

func (s *countingStrategy) Recommend(ctx context.Context, rctx *core.RecommendContext, topN int) ([]*core.ScoredItem, error) {
	s.calls++
	return s.inner.Recommend(ctx, rctx, topN)
}
