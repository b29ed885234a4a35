package core

import (
	"fmt"
	"strconv"
	"strings"
)

// AttributeKind 标记属性值的类型种类。
//
// 属性值在设计上是一个带标签的联合（numeric / text / enum），
// 而不是语言级泛型：这样 Item 的属性集合是同质且可遍历的，
// 数据存储无需关心具体的值类型。
type AttributeKind int

const (
	KindNumeric AttributeKind = iota // 数值属性（如 year、duration）
	KindText                         // 文本属性（如 title、description）
	KindEnum                         // 枚举属性（如 genre、platform），可多值
)

func (k AttributeKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// Domain 声明一个属性的合法取值域。
//   - numeric：[Min, Max] 闭区间；Min > Max 表示不限范围
//   - text：Allowed 非空时为成员校验，否则任意字符串合法
//   - enum：值必须属于 Allowed 集合
type Domain struct {
	Kind    AttributeKind
	Min     float64
	Max     float64
	Allowed []string
}

// NumericDomain 构造数值取值域。
func NumericDomain(min, max float64) Domain {
	return Domain{Kind: KindNumeric, Min: min, Max: max}
}

// AnyNumericDomain 构造不限范围的数值取值域。
func AnyNumericDomain() Domain {
	return Domain{Kind: KindNumeric, Min: 1, Max: 0}
}

// TextDomain 构造文本取值域。不传 allowed 表示任意字符串合法。
func TextDomain(allowed ...string) Domain {
	return Domain{Kind: KindText, Allowed: allowed}
}

// EnumDomain 构造枚举取值域。
func EnumDomain(values ...string) Domain {
	return Domain{Kind: KindEnum, Allowed: values}
}

func (d Domain) containsString(v string) bool {
	if d.Kind == KindText && len(d.Allowed) == 0 {
		return true
	}
	for _, a := range d.Allowed {
		if a == v {
			return true
		}
	}
	return false
}

func (d Domain) containsNumber(v float64) bool {
	if d.Min > d.Max {
		return true
	}
	return v >= d.Min && v <= d.Max
}

// errAttributeOutOfRange 构造属性越界错误（AttributeOutOfRange）。
func errAttributeOutOfRange(key string, value any) error {
	return NewDomainError(ModuleAttribute, ErrorCodeOutOfRange,
		fmt.Sprintf("attribute %q: value %v out of declared domain", key, value))
}

// AttributeValue 是 Item 上一个命名的、带类型的属性值（key, value）。
//
// 构造时即对声明的取值域做校验，失败返回 OUT_OF_RANGE；
// 构造成功后不可变，归属于它的 Item。
// enum 类型允许多值（如 genre = action, drama），key 在 Item 内唯一。
type AttributeValue struct {
	key    string
	domain Domain
	num    float64
	texts  []string
}

// NewNumericValue 构造数值属性值，越界时返回 OUT_OF_RANGE。
func NewNumericValue(key string, v float64, d Domain) (AttributeValue, error) {
	if d.Kind != KindNumeric || !d.containsNumber(v) {
		return AttributeValue{}, errAttributeOutOfRange(key, v)
	}
	return AttributeValue{key: key, domain: d, num: v}, nil
}

// NewTextValue 构造文本属性值，不在允许集合内时返回 OUT_OF_RANGE。
func NewTextValue(key, v string, d Domain) (AttributeValue, error) {
	if d.Kind != KindText || !d.containsString(v) {
		return AttributeValue{}, errAttributeOutOfRange(key, v)
	}
	return AttributeValue{key: key, domain: d, texts: []string{v}}, nil
}

// NewEnumValue 构造枚举属性值（可多值），任一值不属于取值域时整体失败，
// 不产生部分构造的属性。
func NewEnumValue(key string, values []string, d Domain) (AttributeValue, error) {
	if d.Kind != KindEnum || len(values) == 0 {
		return AttributeValue{}, errAttributeOutOfRange(key, values)
	}
	for _, v := range values {
		if !d.containsString(v) {
			return AttributeValue{}, errAttributeOutOfRange(key, v)
		}
	}
	vs := make([]string, len(values))
	copy(vs, values)
	return AttributeValue{key: key, domain: d, texts: vs}, nil
}

// Key 返回属性名。
func (a AttributeValue) Key() string { return a.key }

// Kind 返回属性值的类型种类。
func (a AttributeValue) Kind() AttributeKind { return a.domain.Kind }

// Number 返回数值属性的值；非数值属性返回 0。
func (a AttributeValue) Number() float64 { return a.num }

// Text 返回文本属性的值（enum 返回第一个值）。
func (a AttributeValue) Text() string {
	if len(a.texts) == 0 {
		return ""
	}
	return a.texts[0]
}

// Values 返回属性的全部取值（数值属性格式化为字符串）。
func (a AttributeValue) Values() []string {
	if a.domain.Kind == KindNumeric {
		return []string{strconv.FormatFloat(a.num, 'f', -1, 64)}
	}
	out := make([]string, len(a.texts))
	copy(out, a.texts)
	return out
}

// Features 把属性值展开为特征向量片段。
//
// 所有种类统一编码为 "key=value" -> 1 的类别特征：数值属性按相等参与
// 相似度（与文本/枚举一致），多值枚举展开为多个特征。
func (a AttributeValue) Features() map[string]float64 {
	out := make(map[string]float64, len(a.texts)+1)
	for _, v := range a.Values() {
		out[a.key+"="+v] = 1
	}
	return out
}

// Equal 判断两个属性值是否等价（同名、同类、同值）。
func (a AttributeValue) Equal(other AttributeValue) bool {
	if a.key != other.key || a.domain.Kind != other.domain.Kind {
		return false
	}
	if a.domain.Kind == KindNumeric {
		return a.num == other.num
	}
	if len(a.texts) != len(other.texts) {
		return false
	}
	for i := range a.texts {
		if a.texts[i] != other.texts[i] {
			return false
		}
	}
	return true
}

// String 返回属性值的 CSV 形式（多值以 ';' 连接）。
func (a AttributeValue) String() string {
	return strings.Join(a.Values(), ";")
}
