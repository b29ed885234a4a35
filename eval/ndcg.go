// Package eval 提供推荐结果的离线评估指标。
package eval

import (
	"math"
	"sort"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

// DCG 计算折损累计增益。relevance 是物品 id 到真实相关度
// （通常为用户评分）的映射，列表中没有相关度的物品贡献为 0。
func DCG(ranked []*core.ScoredItem, relevance map[int64]float64) float64 {
	var dcg float64
	for i, it := range ranked {
		rel := relevance[it.Item.ID()]
		dcg += rel / math.Log2(float64(i)+2)
	}
	return dcg
}

// IDCG 计算理想排序下的折损累计增益：把相关度降序排列后
// 取前 n 个计算 DCG，n 为被评估列表的长度。
func IDCG(n int, relevance map[int64]float64) float64 {
	rels := make([]float64, 0, len(relevance))
	for _, r := range relevance {
		rels = append(rels, r)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(rels)))
	if n > len(rels) {
		n = len(rels)
	}
	var idcg float64
	for i := 0; i < n; i++ {
		idcg += rels[i] / math.Log2(float64(i)+2)
	}
	return idcg
}

// NDCG 计算归一化折损累计增益，取值 [0, 1]。
// 相关度全为 0（IDCG 为 0）时返回 0。
func NDCG(ranked []*core.ScoredItem, relevance map[int64]float64) float64 {
	idcg := IDCG(len(ranked), relevance)
	if idcg == 0 {
		return 0
	}
	return DCG(ranked, relevance) / idcg
}

// NDCGForUser 用某用户在数据集里的真实评分作为相关度，
// 评估一个推荐列表的排序质量。
func NDCGForUser(data *dataset.Dataset, userID int64, ranked []*core.ScoredItem) float64 {
	return NDCG(ranked, data.UserRatingsMap(userID))
}
