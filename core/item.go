package core

import "strings"

// Category 是物品的类目标签，取值来自一个封闭集合。
type Category string

const (
	CategoryMovie  Category = "movie"
	CategorySeries Category = "series"
	CategoryBook   Category = "book"
	CategoryGame   Category = "game"
	CategoryMusic  Category = "music"
)

// Valid 判断类目是否属于封闭集合。
func (c Category) Valid() bool {
	switch c {
	case CategoryMovie, CategorySeries, CategoryBook, CategoryGame, CategoryMusic:
		return true
	}
	return false
}

// Item 是目录中的一个物品：唯一 id、类目标签、有序的属性值集合。
//
// 由装载器创建，进入数据存储后不可变，会话期间不会被销毁。
// 属性 key 在单个 Item 内唯一；特征向量在构造时一次性展开，
// 供内容推荐直接复用。
type Item struct {
	id       int64
	category Category
	attrs    []AttributeValue
	features map[string]float64
}

// NewItem 构造一个 Item。属性 key 重复时返回 DUPLICATE_KEY，
// 类目不在封闭集合内时返回 OUT_OF_RANGE。
func NewItem(id int64, category Category, attrs []AttributeValue) (*Item, error) {
	if !category.Valid() {
		return nil, NewDomainError(ModuleAttribute, ErrorCodeOutOfRange,
			"item: category "+string(category)+" not in the closed category set")
	}
	seen := make(map[string]struct{}, len(attrs))
	features := make(map[string]float64)
	ordered := make([]AttributeValue, 0, len(attrs))
	for _, a := range attrs {
		if _, ok := seen[a.Key()]; ok {
			return nil, NewDomainError(ModuleAttribute, ErrorCodeDuplicateKey,
				"item: duplicate attribute key "+a.Key())
		}
		seen[a.Key()] = struct{}{}
		ordered = append(ordered, a)
		for k, v := range a.Features() {
			features[k] = v
		}
	}
	return &Item{id: id, category: category, attrs: ordered, features: features}, nil
}

// ID 返回物品 id。
func (it *Item) ID() int64 { return it.id }

// Category 返回物品的类目标签。
func (it *Item) Category() Category { return it.category }

// Attributes 返回物品的有序属性值列表（副本）。
func (it *Item) Attributes() []AttributeValue {
	out := make([]AttributeValue, len(it.attrs))
	copy(out, it.attrs)
	return out
}

// Attribute 按 key 查找属性值。
func (it *Item) Attribute(key string) (AttributeValue, bool) {
	for _, a := range it.attrs {
		if a.Key() == key {
			return a, true
		}
	}
	return AttributeValue{}, false
}

// Features 返回物品的特征向量（"key=value" -> 权重）。调用方只读。
func (it *Item) Features() map[string]float64 {
	return it.features
}

// Name 返回物品的展示名：第一个 key 含 name/title 的文本属性的值。
func (it *Item) Name() string {
	for _, a := range it.attrs {
		k := strings.ToLower(a.Key())
		if strings.Contains(k, "name") || strings.Contains(k, "title") {
			return a.Text()
		}
	}
	return ""
}

// ScoredItem 是推荐结果中的一项：物品加上该策略计算出的分数。
// 排序语义由策略保证：分数降序，同分按 id 升序（稳定、可复现）。
type ScoredItem struct {
	Item  *Item
	Score float64
}
