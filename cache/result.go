package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rushteam/recsys/core"
)

// ResultCache 缓存一次推荐计算的结果列表。
//
// 缓存 key 由 (用户, 策略, topN, 数据版本) 组成：数据集每次写入
// 都会递增版本号，旧版本的缓存 key 自然失效，不需要显式清除。
// 值只存 (item id, score) 对，读取时由调用方回查物品详情，
// 避免缓存里出现过期的物品属性。
type ResultCache struct {
	Store core.Store
	TTL   time.Duration
}

// Entry 是缓存中的一条推荐记录。
type Entry struct {
	ItemID int64   `json:"item_id"`
	Score  float64 `json:"score"`
}

func resultKey(userID int64, strategy string, topN int, version uint64) string {
	return fmt.Sprintf("rec:%d:%s:%d:%d", userID, strategy, topN, version)
}

// Get 读取缓存的推荐列表，未命中时返回 (nil, false, nil)。
func (c *ResultCache) Get(ctx context.Context, userID int64, strategy string, topN int, version uint64) ([]Entry, bool, error) {
	if c == nil || c.Store == nil {
		return nil, false, nil
	}
	raw, err := c.Store.Get(ctx, resultKey(userID, strategy, topN, version))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// 缓存内容损坏等价于未命中，调用方重算并覆盖
		return nil, false, nil
	}
	return entries, true, nil
}

// Put 写入推荐列表缓存。
func (c *ResultCache) Put(ctx context.Context, userID int64, strategy string, topN int, version uint64, items []*core.ScoredItem) error {
	if c == nil || c.Store == nil {
		return nil
	}
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry{ItemID: it.Item.ID(), Score: it.Score})
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.Store.Set(ctx, resultKey(userID, strategy, topN, version), raw, c.TTL)
}
