package core

import "fmt"

// Scale 是评分的有界取值范围（闭区间）。
type Scale struct {
	Min float64
	Max float64
}

// DefaultScale 是默认的 1–5 评分范围。
var DefaultScale = Scale{Min: 1, Max: 5}

// Contains 判断分数是否落在范围内。
func (s Scale) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Midpoint 返回范围的中点，作为"喜欢"的中性阈值。
func (s Scale) Midpoint() float64 {
	return (s.Min + s.Max) / 2
}

// RatingAspect 是评分上可选的定性属性，取值来自封闭枚举。
type RatingAspect string

const (
	AspectMood     RatingAspect = "mood"     // 观看/使用时的心情
	AspectOccasion RatingAspect = "occasion" // 场合（独自、家庭、朋友）
	AspectComment  RatingAspect = "comment"  // 自由文字短评
)

// Valid 判断定性属性是否属于封闭枚举。
func (a RatingAspect) Valid() bool {
	switch a {
	case AspectMood, AspectOccasion, AspectComment:
		return true
	}
	return false
}

// Rating 是一个用户对一个物品的评分，外加可选的定性属性。
//
// (UserID, ItemID) 在数据存储内唯一：对同一对的第二次评分是替换，
// 不产生重复记录。
type Rating struct {
	UserID  int64
	ItemID  int64
	Score   float64
	Aspects map[RatingAspect]string
}

// NewRating 构造一个不带定性属性的评分。
func NewRating(userID, itemID int64, score float64) Rating {
	return Rating{UserID: userID, ItemID: itemID, Score: score}
}

// WithAspect 返回附加了一个定性属性的评分副本；
// 属性不在封闭枚举内时返回 OUT_OF_RANGE。
func (r Rating) WithAspect(aspect RatingAspect, value string) (Rating, error) {
	if !aspect.Valid() {
		return r, NewDomainError(ModuleAttribute, ErrorCodeOutOfRange,
			fmt.Sprintf("rating: aspect %q not in the closed aspect set", aspect))
	}
	aspects := make(map[RatingAspect]string, len(r.Aspects)+1)
	for k, v := range r.Aspects {
		aspects[k] = v
	}
	aspects[aspect] = value
	r.Aspects = aspects
	return r, nil
}

// Validate 校验分数是否落在给定范围内，越界返回 OUT_OF_RANGE。
func (r Rating) Validate(scale Scale) error {
	if !scale.Contains(r.Score) {
		return NewDomainError(ModuleDataset, ErrorCodeOutOfRange,
			fmt.Sprintf("rating: score %.2f outside scale [%.1f, %.1f]", r.Score, scale.Min, scale.Max))
	}
	return nil
}
