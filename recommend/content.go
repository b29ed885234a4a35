package recommend

import (
	"context"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

// ContentBased 是基于内容的推荐策略（Content-Based Filtering）。
//
// 核心思想："用户喜欢具有某些特征的物品，推荐具有相似特征的其他物品"
//
// 算法流程：
//  1. 取活跃用户评分 >= 中性阈值（默认取评分范围中点）的物品，
//     按评分加权累加其特征向量，得到偏好画像
//  2. 对每个未评分物品，计算其特征向量与画像的余弦相似度
//  3. 相似度降序排序，同分按物品 id 升序
//
// 边界情况：用户没有任何高于阈值的评分时画像为空，所有相似度
// 退化为 0——这是合法的可回答状态，按 id 升序返回全部未评分物品，
// 而不是报错（"没有偏好信号"不等于"无法回答"）。
type ContentBased struct {
	Data *dataset.Dataset

	// Threshold 是"喜欢"的中性阈值；为 0 时取评分范围中点。
	Threshold float64
}

func (r *ContentBased) Name() string {
	return "content"
}

func (r *ContentBased) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	topN int,
) ([]*core.ScoredItem, error) {
	if rctx == nil || rctx.UserID == 0 {
		return nil, ErrNoActiveUser
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rated := r.Data.UserRatingsMap(rctx.UserID)

	threshold := r.Threshold
	if threshold == 0 {
		threshold = r.Data.Scale().Midpoint()
	}

	// 1. 构建偏好画像：高于阈值的物品按评分加权累加特征。
	// 按物品 id 升序遍历，固定浮点累加顺序。
	profile := make(map[string]float64)
	for _, itemID := range sortedIDs(rated) {
		score := rated[itemID]
		if score < threshold {
			continue
		}
		it, err := r.Data.Item(itemID)
		if err != nil {
			continue // 评分引用的物品不在目录里，跳过该信号
		}
		for k, v := range it.Features() {
			profile[k] += score * v
		}
	}

	// 2. 给所有未评分物品打分。画像为空时全部为 0，靠 tie-break
	// 得到 id 升序的确定性输出。
	out := make([]*core.ScoredItem, 0)
	for _, it := range r.Data.Items() {
		if _, ok := rated[it.ID()]; ok {
			continue
		}
		sim := cosineSimilarityForMaps(profile, it.Features())
		out = append(out, &core.ScoredItem{Item: it, Score: sim})
	}

	sortScored(out)
	return truncate(out, topN), nil
}
