package recommend

import (
	"context"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

// frequencyAndSum 是按物品 id 累积的"频次 + 加权分数和"聚合。
// 预测分 = sum / frequency；frequency 为 0 的物品不参与排名
// （完全没有信号不同于零信号，缺席即排除）。
type frequencyAndSum struct {
	frequency int
	scoreSum  float64
}

// Collaborative 是基于用户的协同过滤推荐策略（User-based CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 对每个与活跃用户至少共同评过一个物品的其他用户，在共同评分
//     物品集上计算相似度（cosine / pearson，归一到 [0,1]）
//  2. 该用户评过、而活跃用户没评过的每个物品，累积进聚合：
//     frequency += 1, scoreSum += similarity * otherUserScore
//  3. 预测分 = scoreSum / frequency，降序排序，同分按物品 id 升序
//
// 边界情况：活跃用户没有任何共同评分者时结果为空序列，不是错误。
type Collaborative struct {
	Data *dataset.Dataset

	// Metric 相似度度量方式，空值等同 cosine。
	Metric Metric

	// MinCommonItems 计入邻居所需的最少共同评分物品数，默认 1。
	MinCommonItems int
}

func (r *Collaborative) Name() string {
	return "collaborative"
}

func (r *Collaborative) Recommend(
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

	target := r.Data.UserRatingsMap(rctx.UserID)
	if len(target) == 0 {
		// 没有评分就不可能有共同评分者
		return []*core.ScoredItem{}, nil
	}

	minCommon := r.MinCommonItems
	if minCommon <= 0 {
		minCommon = 1
	}

	// 对每个其他用户：共同评分向量 -> 相似度 -> 未评分物品累积。
	// 用户与物品都按 id 升序遍历，保证浮点累加顺序固定。
	agg := make(map[int64]*frequencyAndSum)
	for _, userID := range r.Data.UserIDs() {
		if userID == rctx.UserID {
			continue
		}
		theirs := r.Data.UserRatingsMap(userID)
		if len(theirs) == 0 {
			continue
		}

		targetScores := make([]float64, 0)
		theirScores := make([]float64, 0)
		for _, itemID := range sortedIDs(target) {
			if theirScore, ok := theirs[itemID]; ok {
				targetScores = append(targetScores, target[itemID])
				theirScores = append(theirScores, theirScore)
			}
		}
		if len(targetScores) < minCommon {
			continue
		}

		sim := profileSimilarity(r.Metric, targetScores, theirScores)
		if sim <= 0 {
			continue // 零相似度的邻居没有贡献
		}

		for _, itemID := range sortedIDs(theirs) {
			if _, rated := target[itemID]; rated {
				continue
			}
			fs, ok := agg[itemID]
			if !ok {
				fs = &frequencyAndSum{}
				agg[itemID] = fs
			}
			fs.frequency++
			fs.scoreSum += sim * theirs[itemID]
		}
	}

	out := make([]*core.ScoredItem, 0, len(agg))
	for itemID, fs := range agg {
		it, err := r.Data.Item(itemID)
		if err != nil {
			continue
		}
		out = append(out, &core.ScoredItem{
			Item:  it,
			Score: fs.scoreSum / float64(fs.frequency),
		})
	}

	sortScored(out)
	return truncate(out, topN), nil
}
