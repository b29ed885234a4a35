package recommend

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/recsys/core"
)

// Hybrid 是混合推荐策略：并发跑内容策略与协同策略，把两份
// 归一化后的分数按固定凸组合合成一个排名。
//
// 合成规则：
//   - 两边都打了分：combined = w*content + (1-w)*collaborative
//   - 只有一边打了分：直接用该侧的归一化分，不把缺席当作 0——
//     物品只因数据稀疏缺席于某个模型时不应被惩罚（与内容策略的
//     "无信号"口径一致）
//
// 最终排序：合成分降序，同分按物品 id 升序。
type Hybrid struct {
	Content       Strategy
	Collaborative Strategy

	// ContentWeight 是内容侧权重 w ∈ [0,1]，为 0 时取 0.5（等权平均）。
	ContentWeight float64
}

func (r *Hybrid) Name() string {
	return "hybrid"
}

// normalizeScores 把一份打分结果 min-max 归一到 [0, 1]。
// 所有分数相同（含单个物品）时全部归一为 1，排名交给 tie-break。
func normalizeScores(items []*core.ScoredItem) map[int64]float64 {
	out := make(map[int64]float64, len(items))
	if len(items) == 0 {
		return out
	}
	min, max := items[0].Score, items[0].Score
	for _, it := range items[1:] {
		if it.Score < min {
			min = it.Score
		}
		if it.Score > max {
			max = it.Score
		}
	}
	for _, it := range items {
		if max == min {
			out[it.Item.ID()] = 1
			continue
		}
		out[it.Item.ID()] = (it.Score - min) / (max - min)
	}
	return out
}

func (r *Hybrid) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	topN int,
) ([]*core.ScoredItem, error) {
	if rctx == nil || rctx.UserID == 0 {
		return nil, ErrNoActiveUser
	}

	// 两个子策略读同一个数据存储，互不影响，可以并发。
	var contentItems, collabItems []*core.ScoredItem
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		items, err := r.Content.Recommend(egCtx, rctx, 0)
		contentItems = items
		return err
	})
	eg.Go(func() error {
		items, err := r.Collaborative.Recommend(egCtx, rctx, 0)
		collabItems = items
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	w := r.ContentWeight
	if w == 0 {
		w = 0.5
	}

	contentScores := normalizeScores(contentItems)
	collabScores := normalizeScores(collabItems)

	byID := make(map[int64]*core.Item, len(contentItems)+len(collabItems))
	for _, it := range contentItems {
		byID[it.Item.ID()] = it.Item
	}
	for _, it := range collabItems {
		byID[it.Item.ID()] = it.Item
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*core.ScoredItem, 0, len(ids))
	for _, id := range ids {
		cScore, hasContent := contentScores[id]
		fScore, hasCollab := collabScores[id]
		var combined float64
		switch {
		case hasContent && hasCollab:
			combined = w*cScore + (1-w)*fScore
		case hasContent:
			combined = cScore
		default:
			combined = fScore
		}
		out = append(out, &core.ScoredItem{Item: byID[id], Score: combined})
	}

	sortScored(out)
	return truncate(out, topN), nil
}
