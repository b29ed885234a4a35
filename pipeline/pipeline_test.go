package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/recsys/core"
)

type appendNode struct {
	id  int64
	err error
}

func (n *appendNode) Name() string { return "test.append" }
func (n *appendNode) Kind() Kind   { return KindPostProcess }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.ScoredItem) ([]*core.ScoredItem, error) {
	if n.err != nil {
		return nil, n.err
	}
	it, err := core.NewItem(n.id, core.CategoryMovie, nil)
	if err != nil {
		return nil, err
	}
	return append(items, &core.ScoredItem{Item: it}), nil
}

func TestPipelineRunChainsNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{id: 1}, &appendNode{id: 2}}}
	out, err := p.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 2 || out[0].Item.ID() != 1 || out[1].Item.ID() != 2 {
		t.Fatalf("unexpected chain output: %v", out)
	}
}

func TestPipelineRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{&appendNode{err: boom}, &appendNode{id: 2}}}
	if _, err := p.Run(context.Background(), nil, nil); !errors.Is(err, boom) {
		t.Fatalf("expected node error to abort the chain, got %v", err)
	}
}

func TestEmptyPipelinePassesThrough(t *testing.T) {
	it, err := core.NewItem(1, core.CategoryMovie, nil)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	in := []*core.ScoredItem{{Item: it}}
	out, err := (&Pipeline{}).Run(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("pass-through changed the list: %v", out)
	}
}
