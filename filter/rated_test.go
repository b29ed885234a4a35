package filter

import (
	"context"
	"testing"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

func TestRatedFilter(t *testing.T) {
	d := dataset.New(core.Scale{})
	rated := testItem(t, 1, core.CategoryMovie, nil, 0)
	unrated := testItem(t, 2, core.CategoryMovie, nil, 0)
	if err := d.AddItem(rated.Item); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := d.AddItem(unrated.Item); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := d.AddUser(&core.User{ID: 7, Username: "ana"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := d.AddOrReplaceRating(core.NewRating(7, 1, 4)); err != nil {
		t.Fatalf("AddOrReplaceRating: %v", err)
	}

	f := &RatedFilter{Data: d}
	rctx := &core.RecommendContext{UserID: 7}

	if got, err := f.ShouldFilter(context.Background(), rctx, rated); err != nil || !got {
		t.Fatalf("rated item should be filtered, got (%v, %v)", got, err)
	}
	if got, err := f.ShouldFilter(context.Background(), rctx, unrated); err != nil || got {
		t.Fatalf("unrated item should pass, got (%v, %v)", got, err)
	}
	if got, err := f.ShouldFilter(context.Background(), nil, rated); err != nil || got {
		t.Fatalf("missing context should not filter, got (%v, %v)", got, err)
	}
}
