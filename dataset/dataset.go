// Package dataset 实现中心内存数据存储：物品、用户、评分的唯一归属地，
// 以及"活跃用户"这一单一关系。
//
// 并发契约（单写多读）：所有读操作可以并发进行，前提是没有写操作
// 在途；内部以 sync.RWMutex 保证该纪律。推荐策略只读数据存储，
// 从不持有自己的数据副本。
package dataset

import (
	"iter"
	"sort"
	"sync"

	"github.com/rushteam/recsys/core"
)

// 领域错误定义（使用统一的 DomainError）
var (
	// ErrItemNotFound 表示物品不存在
	ErrItemNotFound = core.NewDomainError(core.ModuleDataset, core.ErrorCodeNotFound, "dataset: item does not exist")

	// ErrUserNotFound 表示用户 id 不存在（NoExistingUserID）
	ErrUserNotFound = core.NewDomainError(core.ModuleDataset, core.ErrorCodeNotFound, "dataset: no existing user id")

	// ErrRatingNotFound 表示该 (user, item) 对还没有评分
	ErrRatingNotFound = core.NewDomainError(core.ModuleDataset, core.ErrorCodeNotFound, "dataset: rating does not exist")

	// ErrDuplicateItem 表示物品 id 冲突
	ErrDuplicateItem = core.NewDomainError(core.ModuleDataset, core.ErrorCodeDuplicateKey, "dataset: duplicate item id")

	// ErrDuplicateUser 表示用户 id 冲突
	ErrDuplicateUser = core.NewDomainError(core.ModuleDataset, core.ErrorCodeDuplicateKey, "dataset: duplicate user id")

	// ErrDuplicateUsername 表示用户名已被占用（ExistingUsername）
	ErrDuplicateUsername = core.NewDomainError(core.ModuleSession, core.ErrorCodeDuplicateKey, "dataset: existing username")

	// ErrNoActiveUser 表示当前没有活跃用户（NoExistingActiveUser）
	ErrNoActiveUser = core.NewDomainError(core.ModuleDataset, core.ErrorCodeNoActiveUser, "dataset: no existing active user")

	// ErrActiveUserExists 表示已有活跃用户未清除（ExistingActiveUser）
	ErrActiveUserExists = core.NewDomainError(core.ModuleDataset, core.ErrorCodeActiveUserExists, "dataset: existing active user")
)

// Dataset 拥有全量的物品、用户与评分集合，并按主键与二级键
// （用户维度、物品维度）建立索引，两个方向的查找均摊 O(1)。
type Dataset struct {
	mu    sync.RWMutex
	scale core.Scale

	items   map[int64]*core.Item
	itemIDs []int64 // 始终保持升序，保证确定性遍历

	users     map[int64]*core.User
	usernames map[string]int64
	userIDs   []int64 // 始终保持升序

	byUser map[int64]map[int64]core.Rating // userID -> itemID -> rating
	byItem map[int64]map[int64]core.Rating // itemID -> userID -> rating

	activeSet  bool
	activeUser int64

	version uint64 // 每次写操作递增，缓存失效依据
}

// New 创建空的数据存储。scale 为零值时使用默认的 1–5 评分范围。
func New(scale core.Scale) *Dataset {
	if scale == (core.Scale{}) {
		scale = core.DefaultScale
	}
	return &Dataset{
		scale:     scale,
		items:     make(map[int64]*core.Item),
		users:     make(map[int64]*core.User),
		usernames: make(map[string]int64),
		byUser:    make(map[int64]map[int64]core.Rating),
		byItem:    make(map[int64]map[int64]core.Rating),
	}
}

// Scale 返回本数据集的评分范围。
func (d *Dataset) Scale() core.Scale {
	return d.scale
}

// Version 返回数据版本号，任何写操作都会使其递增。
func (d *Dataset) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

func insertSorted(ids []int64, id int64) []int64 {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// AddItem 插入一个物品，id 冲突时返回 DUPLICATE_KEY，存储保持一致。
func (d *Dataset) AddItem(it *core.Item) error {
	if it == nil {
		return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: nil item")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[it.ID()]; ok {
		return ErrDuplicateItem
	}
	d.items[it.ID()] = it
	d.itemIDs = insertSorted(d.itemIDs, it.ID())
	d.version++
	return nil
}

// AddUser 插入一个用户；用户 id 或用户名冲突时返回 DUPLICATE_KEY。
// id 必须为正：0 在推荐上下文里表示"没有用户"。
func (d *Dataset) AddUser(u *core.User) error {
	if u == nil {
		return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: nil user")
	}
	if u.ID <= 0 {
		return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: user id must be positive")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[u.ID]; ok {
		return ErrDuplicateUser
	}
	if _, ok := d.usernames[u.Username]; ok {
		return ErrDuplicateUsername
	}
	d.users[u.ID] = u
	d.usernames[u.Username] = u.ID
	d.userIDs = insertSorted(d.userIDs, u.ID)
	d.version++
	return nil
}

// AddOrReplaceRating 插入一条评分；(user, item) 冲突时替换而非报错
// （第二次评分覆盖第一次）。分数越界返回 OUT_OF_RANGE，引用不存在的
// 用户/物品返回 NOT_FOUND；失败时不落任何部分数据。
func (d *Dataset) AddOrReplaceRating(r core.Rating) error {
	if err := r.Validate(d.scale); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[r.UserID]; !ok {
		return ErrUserNotFound
	}
	if _, ok := d.items[r.ItemID]; !ok {
		return ErrItemNotFound
	}
	if d.byUser[r.UserID] == nil {
		d.byUser[r.UserID] = make(map[int64]core.Rating)
	}
	if d.byItem[r.ItemID] == nil {
		d.byItem[r.ItemID] = make(map[int64]core.Rating)
	}
	d.byUser[r.UserID][r.ItemID] = r
	d.byItem[r.ItemID][r.UserID] = r
	d.version++
	return nil
}

// Item 按 id 查找物品，不存在返回 NOT_FOUND。
func (d *Dataset) Item(id int64) (*core.Item, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	it, ok := d.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return it, nil
}

// User 按 id 查找用户，不存在返回 NOT_FOUND。
func (d *Dataset) User(id int64) (*core.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UserByName 按用户名查找用户，不存在返回 NOT_FOUND。
func (d *Dataset) UserByName(username string) (*core.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.usernames[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return d.users[id], nil
}

// Rating 返回某用户对某物品的评分；没有评分时返回 NOT_FOUND，
// 调用方按"还没评过分"的正常分支处理。
func (d *Dataset) Rating(userID, itemID int64) (core.Rating, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if r, ok := d.byUser[userID][itemID]; ok {
		return r, nil
	}
	return core.Rating{}, ErrRatingNotFound
}

// Items 返回全部物品，按 id 升序（确定性遍历）。
func (d *Dataset) Items() []*core.Item {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*core.Item, 0, len(d.itemIDs))
	for _, id := range d.itemIDs {
		out = append(out, d.items[id])
	}
	return out
}

// UserIDs 返回全部用户 id，升序。
func (d *Dataset) UserIDs() []int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]int64, len(d.userIDs))
	copy(out, d.userIDs)
	return out
}

// snapshotRatings 在读锁内按 key 升序拷贝一个评分索引桶。
func snapshotRatings(bucket map[int64]core.Rating) []core.Rating {
	keys := make([]int64, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]core.Rating, 0, len(keys))
	for _, k := range keys {
		out = append(out, bucket[k])
	}
	return out
}

// RatingsByUser 返回某用户全部评分的惰性、可重启序列（物品 id 升序）。
// 用户没有评分时得到空序列，不是错误。
func (d *Dataset) RatingsByUser(userID int64) iter.Seq[core.Rating] {
	d.mu.RLock()
	ratings := snapshotRatings(d.byUser[userID])
	d.mu.RUnlock()
	return func(yield func(core.Rating) bool) {
		for _, r := range ratings {
			if !yield(r) {
				return
			}
		}
	}
}

// RatingsByItem 返回某物品全部评分的惰性、可重启序列（用户 id 升序）。
func (d *Dataset) RatingsByItem(itemID int64) iter.Seq[core.Rating] {
	d.mu.RLock()
	ratings := snapshotRatings(d.byItem[itemID])
	d.mu.RUnlock()
	return func(yield func(core.Rating) bool) {
		for _, r := range ratings {
			if !yield(r) {
				return
			}
		}
	}
}

// UserRatingsMap 返回某用户的 itemID -> score 映射（策略侧常用形态）。
func (d *Dataset) UserRatingsMap(userID int64) map[int64]float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[int64]float64, len(d.byUser[userID]))
	for itemID, r := range d.byUser[userID] {
		out[itemID] = r.Score
	}
	return out
}

// SetActiveUser 把某个用户设为活跃用户。
// id 未知返回 NOT_FOUND（NoExistingUserID）；已有活跃用户未清除时
// 返回 ACTIVE_USER_EXISTS（单活跃会话约束）。
func (d *Dataset) SetActiveUser(userID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[userID]; !ok {
		return ErrUserNotFound
	}
	if d.activeSet {
		return ErrActiveUserExists
	}
	d.activeSet = true
	d.activeUser = userID
	d.version++
	return nil
}

// ClearActiveUser 清除活跃用户关系；当前没有活跃用户时返回 NO_ACTIVE_USER。
func (d *Dataset) ClearActiveUser() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.activeSet {
		return ErrNoActiveUser
	}
	d.activeSet = false
	d.activeUser = 0
	d.version++
	return nil
}

// ActiveUser 返回当前活跃用户；没有时返回 NO_ACTIVE_USER。
func (d *Dataset) ActiveUser() (*core.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.activeSet {
		return nil, ErrNoActiveUser
	}
	return d.users[d.activeUser], nil
}

// AddFavourite 把物品加入用户的收藏列表（已在列表中时为幂等）。
func (d *Dataset) AddFavourite(userID, itemID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if _, ok := d.items[itemID]; !ok {
		return ErrItemNotFound
	}
	if u.HasFavourite(itemID) {
		return nil
	}
	u.Favourites = append(u.Favourites, itemID)
	d.version++
	return nil
}

// RemoveFavourite 把物品移出用户的收藏列表；不在列表中时不做任何事。
func (d *Dataset) RemoveFavourite(userID, itemID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	for i, id := range u.Favourites {
		if id == itemID {
			u.Favourites = append(u.Favourites[:i], u.Favourites[i+1:]...)
			d.version++
			return nil
		}
	}
	return nil
}

// UpdateCredential 更新用户凭证（密码找回后落库）。
func (d *Dataset) UpdateCredential(userID int64, credential string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Credential = credential
	d.version++
	return nil
}

// SaveRecommendation 把系统给出的一条推荐保存到用户的留存列表。
func (d *Dataset) SaveRecommendation(userID, itemID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if _, ok := d.items[itemID]; !ok {
		return ErrItemNotFound
	}
	for _, id := range u.SavedRecommendations {
		if id == itemID {
			return nil
		}
	}
	u.SavedRecommendations = append(u.SavedRecommendations, itemID)
	d.version++
	return nil
}

// FavouriteItems 返回用户收藏的物品实体，保持收藏顺序。
func (d *Dataset) FavouriteItems(userID int64) ([]*core.Item, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := make([]*core.Item, 0, len(u.Favourites))
	for _, id := range u.Favourites {
		if it, ok := d.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}
