package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，在过滤后截取前 N 个候选。
// 截断前会按分数降序、物品 id 升序重新稳定排序，
// 保证过滤节点移除候选后顺序仍然确定。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &filter.Node{...},        // 过滤
//	        &rerank.TopNNode{N: 10},  // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则返回所有候选（不截断）
	// 如果 N > len(items)，则返回所有候选
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID() < items[j].Item.ID()
	})

	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
