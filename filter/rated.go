package filter

import (
	"context"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

// RatedFilter 过滤掉请求用户已经评过分的物品。
//
// 各策略自身已经排除了已评分物品；这个过滤器是引擎出口处的
// 最后一道约束，保证无论策略实现如何演化，"永不推荐已评分物品"
// 的不变量都在同一个地方兜底。
type RatedFilter struct {
	Data *dataset.Dataset
}

func (f *RatedFilter) Name() string {
	return "filter.rated"
}

func (f *RatedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.ScoredItem,
) (bool, error) {
	if item == nil || rctx == nil || rctx.UserID == 0 {
		return false, nil
	}
	_, err := f.Data.Rating(rctx.UserID, item.Item.ID())
	if err == nil {
		return true, nil
	}
	if core.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
