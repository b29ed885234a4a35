package pipeline

import (
	"context"

	"github.com/rushteam/recsys/core"
)

// Pipeline 把一次推荐计算拆成可组合的 Node 链：
// Strategy → Filter → ReRank。任一 Node 出错即中止整条链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
