package filter

import (
	"context"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/recsys/core"
)

var (
	// ruleEnv 是全局的 CEL 环境，线程安全，可复用
	ruleEnv     *cel.Env
	ruleEnvOnce sync.Once
)

func getRuleEnv() (*cel.Env, error) {
	var err error
	ruleEnvOnce.Do(func() {
		ruleEnv, err = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return ruleEnv, err
}

// RuleFilter 是基于 CEL (Common Expression Language) 的规则过滤器。
// 表达式返回 true 表示候选被过滤掉。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：item.category == "movie"
//   - 数值：item.score > 0.7 / item.attrs.year < 2000.0
//   - 逻辑：item.category == "game" && item.score < 0.3
//   - 包含："horror" in item.features
//
// 示例：
//   - `item.category == "book"` → 过滤掉所有图书
//   - `item.score < 0.2` → 过滤掉低分候选
//   - `rctx.scene == "kids" && item.category == "game"` → 按场景过滤
type RuleFilter struct {
	Expr string

	once sync.Once
	prg  cel.Program
	err  error
}

// NewRuleFilter 创建规则过滤器，表达式在第一次执行时编译并缓存。
func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

// Compile 提前编译表达式。配置装配阶段调用，语法错误在组装时
// 就能暴露，而不是等到第一次请求。
func (f *RuleFilter) Compile() error {
	if f.Expr == "" {
		return nil
	}
	_, err := f.compile()
	return err
}

func (f *RuleFilter) compile() (cel.Program, error) {
	f.once.Do(func() {
		env, err := getRuleEnv()
		if err != nil {
			f.err = core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "rule env: "+err.Error())
			return
		}
		ast, issues := env.Compile(f.Expr)
		if issues != nil && issues.Err() != nil {
			f.err = core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "rule compile: "+issues.Err().Error())
			return
		}
		f.prg, f.err = env.Program(ast)
	})
	return f.prg, f.err
}

func (f *RuleFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.ScoredItem,
) (bool, error) {
	if f.Expr == "" || item == nil || item.Item == nil {
		return false, nil
	}
	prg, err := f.compile()
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(f.buildInput(rctx, item))
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错，表达式应使用
		// item.attrs.key != null 检查存在性
		return false, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "rule eval: "+err.Error())
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "rule expression must return boolean")
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
// 属性按类型展开：数值属性给出数值，文本/枚举属性给出字符串。
func (f *RuleFilter) buildInput(rctx *core.RecommendContext, item *core.ScoredItem) map[string]any {
	attrs := make(map[string]any)
	for _, av := range item.Item.Attributes() {
		switch av.Kind() {
		case core.KindNumeric:
			attrs[av.Key()] = av.Number()
		case core.KindText:
			attrs[av.Key()] = av.Text()
		case core.KindEnum:
			attrs[av.Key()] = av.Values()
		}
	}

	features := make([]string, 0, len(item.Item.Features()))
	for k := range item.Item.Features() {
		features = append(features, k)
	}

	in := map[string]any{
		"item": map[string]any{
			"id":       item.Item.ID(),
			"category": string(item.Item.Category()),
			"score":    item.Score,
			"attrs":    attrs,
			"features": features,
		},
	}
	if rctx != nil {
		in["rctx"] = map[string]any{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"params":  rctx.Params,
		}
	} else {
		in["rctx"] = map[string]any{}
	}
	return in
}
