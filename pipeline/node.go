package pipeline

import (
	"context"

	"github.com/rushteam/recsys/core"
)

// Kind 用于标记 Node 类型，方便观测与编排（例如按阶段打点）。
type Kind string

const (
	KindStrategy    Kind = "strategy"    // 策略阶段：产出打分候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindReRank      Kind = "rerank"      // 重排阶段：截断/调序
	KindPostProcess Kind = "postprocess" // 后处理阶段：结果修饰
)

// Node 是推荐流水线的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，策略产出、过滤剔除、
// 截断重排都是同一形状的操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.ScoredItem,
	) ([]*core.ScoredItem, error)
}
