package core

// User 是注册用户：唯一 id、唯一用户名、登录凭证。
//
// 在注册（signup）时创建。"活跃用户"不是独立的实体生命周期，
// 而是数据存储跟踪的一个单一关系：登录时建立，登出时清除，
// 同一时刻至多存在一个。
type User struct {
	ID       int64
	Username string
	Email    string

	// Credential 是登录凭证的摘要（由 session 层写入，引擎不解释其内容）。
	Credential string

	// SecurityAnswer 是找回密码用的安全问题答案摘要。
	SecurityAnswer string

	// Favourites 是用户主动收藏的物品 id（可收藏任意存在的物品，评分与否无关）。
	Favourites []int64

	// SavedRecommendations 是用户保存下来、以便日后再次查看的推荐物品 id。
	SavedRecommendations []int64
}

// HasFavourite 判断某物品是否已在收藏列表里。
func (u *User) HasFavourite(itemID int64) bool {
	for _, id := range u.Favourites {
		if id == itemID {
			return true
		}
	}
	return false
}
