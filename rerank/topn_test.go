package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/recsys/core"
)

func scored(t *testing.T, id int64, score float64) *core.ScoredItem {
	t.Helper()
	it, err := core.NewItem(id, core.CategoryMovie, nil)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	return &core.ScoredItem{Item: it, Score: score}
}

func TestTopNNode(t *testing.T) {
	items := []*core.ScoredItem{
		scored(t, 3, 0.2),
		scored(t, 1, 0.9),
		scored(t, 2, 0.9),
	}

	tests := []struct {
		name string
		n    int
		want []int64
	}{
		{name: "truncate keeps highest with id tie-break", n: 2, want: []int64{1, 2}},
		{name: "zero means no truncation", n: 0, want: []int64{1, 2, 3}},
		{name: "n larger than list", n: 10, want: []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]*core.ScoredItem, len(items))
			copy(in, items)
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), nil, in)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(out) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(out), len(tt.want))
			}
			for i, id := range tt.want {
				if out[i].Item.ID() != id {
					t.Fatalf("position %d = item %d, want %d", i, out[i].Item.ID(), id)
				}
			}
		})
	}
}
