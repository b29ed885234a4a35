// Package loader 从 CSV 文件批量装载物品、用户与评分。
//
// 装载是两阶段的：先把整个文件解析为实体，全部合法后才写入
// 数据集。任何一行解析失败都会带行号返回 INVALID_INPUT，
// 且数据集不会被部分写入。
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

func errLine(line int, msg string) error {
	return core.NewDomainError(core.ModuleLoader, core.ErrorCodeInvalidInput,
		fmt.Sprintf("line %d: %s", line, msg))
}

// 物品文件格式：
//
//	id,category,genre:enum,year:num,title:text
//	1,movie,action;thriller,1999,The Matrix
//
// 表头第 1、2 列固定为 id 和 category，其余列为 "key:kind" 形式的
// 属性列，kind 取 num / text / enum。enum 单元格内多个值用 ';' 分隔，
// 枚举属性的取值域由该列在整个文件中出现过的值构成。
type attrColumn struct {
	key  string
	kind core.AttributeKind
}

func parseHeader(header []string) ([]attrColumn, error) {
	if len(header) < 2 || strings.TrimSpace(header[0]) != "id" || strings.TrimSpace(header[1]) != "category" {
		return nil, errLine(1, "item header must start with id,category")
	}
	cols := make([]attrColumn, 0, len(header)-2)
	for _, h := range header[2:] {
		key, kind, ok := strings.Cut(strings.TrimSpace(h), ":")
		if !ok || key == "" {
			return nil, errLine(1, "attribute column must be key:kind, got "+h)
		}
		var k core.AttributeKind
		switch kind {
		case "num":
			k = core.KindNumeric
		case "text":
			k = core.KindText
		case "enum":
			k = core.KindEnum
		default:
			return nil, errLine(1, "unknown attribute kind "+kind)
		}
		cols = append(cols, attrColumn{key: key, kind: k})
	}
	return cols, nil
}

// LoadItems 从 r 读取物品 CSV 并写入数据集。
func LoadItems(data *dataset.Dataset, r io.Reader) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return core.NewDomainError(core.ModuleLoader, core.ErrorCodeInvalidInput, "items: "+err.Error())
	}
	if len(records) == 0 {
		return errLine(1, "missing item header")
	}
	cols, err := parseHeader(records[0])
	if err != nil {
		return err
	}

	// 第一遍：收集每个 enum 列的取值域
	allowed := make(map[string][]string)
	seenEnum := make(map[string]map[string]bool)
	for _, rec := range records[1:] {
		for i, col := range cols {
			if col.kind != core.KindEnum || 2+i >= len(rec) {
				continue
			}
			for _, v := range strings.Split(rec[2+i], ";") {
				v = strings.TrimSpace(v)
				if v == "" {
					continue
				}
				if seenEnum[col.key] == nil {
					seenEnum[col.key] = make(map[string]bool)
				}
				if !seenEnum[col.key][v] {
					seenEnum[col.key][v] = true
					allowed[col.key] = append(allowed[col.key], v)
				}
			}
		}
	}

	// 第二遍：构建实体
	items := make([]*core.Item, 0, len(records)-1)
	seenID := make(map[int64]bool)
	for n, rec := range records[1:] {
		line := n + 2
		if len(rec) != len(cols)+2 {
			return errLine(line, fmt.Sprintf("expected %d fields, got %d", len(cols)+2, len(rec)))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return errLine(line, "bad item id "+rec[0])
		}
		if seenID[id] {
			return errLine(line, fmt.Sprintf("duplicate item id %d", id))
		}
		seenID[id] = true

		attrs := make([]core.AttributeValue, 0, len(cols))
		for i, col := range cols {
			cell := strings.TrimSpace(rec[2+i])
			if cell == "" {
				continue
			}
			var (
				av   core.AttributeValue
				aerr error
			)
			switch col.kind {
			case core.KindNumeric:
				num, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return errLine(line, "bad numeric value "+cell)
				}
				av, aerr = core.NewNumericValue(col.key, num, core.AnyNumericDomain())
			case core.KindText:
				av, aerr = core.NewTextValue(col.key, cell, core.TextDomain())
			case core.KindEnum:
				values := strings.Split(cell, ";")
				for i := range values {
					values[i] = strings.TrimSpace(values[i])
				}
				av, aerr = core.NewEnumValue(col.key, values, core.EnumDomain(allowed[col.key]...))
			}
			if aerr != nil {
				return errLine(line, aerr.Error())
			}
			attrs = append(attrs, av)
		}

		it, err := core.NewItem(id, core.Category(strings.TrimSpace(rec[1])), attrs)
		if err != nil {
			return errLine(line, err.Error())
		}
		items = append(items, it)
	}

	for _, it := range items {
		if err := data.AddItem(it); err != nil {
			return err
		}
	}
	return nil
}

// 用户文件格式：
//
//	id,username,email,credential,security_answer
//	1,ana,ana@example.com,5e88...,2c26...
//
// credential 和 security_answer 为已经过摘要的凭证，装载器不做散列。
func LoadUsers(data *dataset.Dataset, r io.Reader) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return core.NewDomainError(core.ModuleLoader, core.ErrorCodeInvalidInput, "users: "+err.Error())
	}
	if len(records) == 0 {
		return errLine(1, "missing user header")
	}

	users := make([]*core.User, 0, len(records)-1)
	seenID := make(map[int64]bool)
	seenName := make(map[string]bool)
	for n, rec := range records[1:] {
		line := n + 2
		if len(rec) < 2 {
			return errLine(line, "user row needs at least id,username")
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil || id <= 0 {
			return errLine(line, "bad user id "+rec[0])
		}
		name := strings.TrimSpace(rec[1])
		if name == "" {
			return errLine(line, "empty username")
		}
		if seenID[id] {
			return errLine(line, fmt.Sprintf("duplicate user id %d", id))
		}
		if seenName[name] {
			return errLine(line, "duplicate username "+name)
		}
		seenID[id] = true
		seenName[name] = true

		u := &core.User{ID: id, Username: name}
		if len(rec) > 2 {
			u.Email = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			u.Credential = strings.TrimSpace(rec[3])
		}
		if len(rec) > 4 {
			u.SecurityAnswer = strings.TrimSpace(rec[4])
		}
		users = append(users, u)
	}

	for _, u := range users {
		if err := data.AddUser(u); err != nil {
			return err
		}
	}
	return nil
}

// 评分文件格式：
//
//	user_id,item_id,score,mood,occasion,comment
//	1,2,4.5,happy,,great movie
//
// 前三列必填，方面列可选且允许为空。分数越界、用户或物品不存在
// 都会在写入阶段由数据集报出。
func LoadRatings(data *dataset.Dataset, r io.Reader) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return core.NewDomainError(core.ModuleLoader, core.ErrorCodeInvalidInput, "ratings: "+err.Error())
	}
	if len(records) == 0 {
		return errLine(1, "missing rating header")
	}

	aspects := []core.RatingAspect{core.AspectMood, core.AspectOccasion, core.AspectComment}
	ratings := make([]core.Rating, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		if len(rec) < 3 {
			return errLine(line, "rating row needs user_id,item_id,score")
		}
		userID, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return errLine(line, "bad user id "+rec[0])
		}
		itemID, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
		if err != nil {
			return errLine(line, "bad item id "+rec[1])
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return errLine(line, "bad score "+rec[2])
		}
		if err := (core.Rating{UserID: userID, ItemID: itemID, Score: score}).Validate(data.Scale()); err != nil {
			return errLine(line, err.Error())
		}

		rating := core.NewRating(userID, itemID, score)
		for i, aspect := range aspects {
			if 3+i >= len(rec) {
				break
			}
			v := strings.TrimSpace(rec[3+i])
			if v == "" {
				continue
			}
			rating, err = rating.WithAspect(aspect, v)
			if err != nil {
				return errLine(line, err.Error())
			}
		}
		ratings = append(ratings, rating)
	}

	for _, rating := range ratings {
		if err := data.AddOrReplaceRating(rating); err != nil {
			return err
		}
	}
	return nil
}
