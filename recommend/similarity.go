package recommend

import (
	"math"
	"sort"
)

// Metric 是协同过滤可切换的相似度度量方式。
//
// 设计决策（开放问题的落地）：默认 cosine，pearson 可配置切换；
// 两者统一归一到 [0, 1] 后再参与加权，负相关的邻居不参与贡献。
type Metric string

const (
	MetricCosine  Metric = "cosine"
	MetricPearson Metric = "pearson"
)

// Valid 判断度量方式是否受支持。
func (m Metric) Valid() bool {
	return m == MetricCosine || m == MetricPearson
}

// cosineSimilarity 计算两个评分向量的余弦相似度。
// 评分非负，结果天然落在 [0, 1]；任一向量为零向量时返回 0。
func cosineSimilarity(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}
	var dot, normX, normY float64
	for i := range x {
		dot += x[i] * y[i]
		normX += x[i] * x[i]
		normY += y[i] * y[i]
	}
	if normX == 0 || normY == 0 {
		return 0
	}
	return dot / (math.Sqrt(normX) * math.Sqrt(normY))
}

// pearsonCorrelation 计算皮尔逊相关系数，结果落在 [-1, 1]。
func pearsonCorrelation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}
	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(len(x))
	meanY /= float64(len(y))

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// profileSimilarity 按度量方式计算两个共同评分向量的相似度，
// 并归一到 [0, 1]（pearson 经 (r+1)/2 映射）。
func profileSimilarity(metric Metric, x, y []float64) float64 {
	switch metric {
	case MetricPearson:
		return (pearsonCorrelation(x, y) + 1) / 2
	case MetricCosine:
		fallthrough
	default:
		return cosineSimilarity(x, y)
	}
}

// cosineSimilarityForMaps 计算两个特征向量（map 形式）的余弦相似度。
// 按 key 升序遍历并集，保证浮点累加顺序固定、结果可复现。
func cosineSimilarityForMaps(a, b map[string]float64) float64 {
	allKeys := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		allKeys = append(allKeys, k)
		seen[k] = struct{}{}
	}
	for k := range b {
		if _, ok := seen[k]; !ok {
			allKeys = append(allKeys, k)
		}
	}
	sort.Strings(allKeys)

	var dot, normA, normB float64
	for _, k := range allKeys {
		valA := a[k]
		valB := b[k]
		dot += valA * valB
		normA += valA * valA
		normB += valB * valB
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// sortedIDs 返回 map 的 key 升序列表，固定遍历顺序。
func sortedIDs(m map[int64]float64) []int64 {
	out := make([]int64, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
