package recommend

import (
	"context"
	"sort"

	"github.com/rushteam/recsys/core"
)

// ErrNoActiveUser 表示推荐请求没有可用的活跃用户
var ErrNoActiveUser = core.NewDomainError(core.ModuleRecommend, core.ErrorCodeNoActiveUser, "recommend: no existing active user")

// Strategy 是推荐策略的抽象契约。
//
// 契约要求：
//   - 排除活跃用户已经评过分的所有物品
//   - 对固定的数据状态，输出确定：分数降序，同分按物品 id 升序
//   - rctx 没有用户时返回 NO_ACTIVE_USER
//   - topN <= 0 表示不截断（混合策略需要完整打分列表）
//
// 策略只读数据存储，从不改写它。
type Strategy interface {
	Name() string
	Recommend(ctx context.Context, rctx *core.RecommendContext, topN int) ([]*core.ScoredItem, error)
}

// sortScored 按分数降序、同分按物品 id 升序排序（稳定 tie-break）。
func sortScored(items []*core.ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID() < items[j].Item.ID()
	})
}

// truncate 截取前 topN 项；topN <= 0 表示不截断。
func truncate(items []*core.ScoredItem, topN int) []*core.ScoredItem {
	if topN <= 0 || len(items) <= topN {
		return items
	}
	return items[:topN]
}
