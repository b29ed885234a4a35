package core

// RecommendContext 承载一次推荐请求的上下文，贯穿策略与过滤器透传。
//
// 原会话式设计里"活跃用户"是全局可变状态；这里改为显式上下文
// 传入每次引擎调用，多会话并发使用因此变得直接。
type RecommendContext struct {
	// UserID 是本次请求要推荐的用户（通常即活跃用户）。
	UserID int64

	// Scene 是请求场景（如 "home" / "detail"），可驱动过滤规则。
	Scene string

	// Params 是请求级参数（过滤规则表达式可引用）。
	Params map[string]any
}

// Param 按 key 读取请求级参数。
func (rctx *RecommendContext) Param(key string) (any, bool) {
	if rctx == nil || rctx.Params == nil {
		return nil, false
	}
	v, ok := rctx.Params[key]
	return v, ok
}
