// Package recsys 是一个目录内容推荐引擎（Recommender System）。
//
// 设计要点：
// - 类型化目录: 物品属性带取值域校验（数值/文本/枚举），评分带量表校验
// - 单一数据源: dataset.Dataset 持有物品、用户、评分三类实体与活跃用户状态
// - 策略可插拔: 基于内容 / 协同过滤 / 混合三种策略共享同一 Strategy 接口
// - Pipeline 组装: 策略产出 → 过滤 → Top-N 截断，通过 Node 串联
package recsys

import (
	"github.com/rushteam/recsys/pipeline"
	"github.com/rushteam/recsys/recommend"
)

// 轻量 facade：便于用户直接 import "recsys" 使用核心抽象。
type Engine = recommend.Engine
type Strategy = recommend.Strategy
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindStrategy    = pipeline.KindStrategy
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
