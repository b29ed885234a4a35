package filter

import (
	"context"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/pipeline"
)

// Node 是过滤 Node，可以组合多个过滤器串联执行。
// 任何一个过滤器返回 true，该候选就会被移除。
// 过滤器报错即中止整条链，错误原样交给调用方。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string {
	return "filter.node"
}

func (n *Node) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.ScoredItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		keep := true
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				return nil, err
			}
			if ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, nil
}
