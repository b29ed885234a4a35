package recommend

import (
	"testing"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

var genreDomain = core.EnumDomain("action", "drama", "comedy", "thriller")

func movie(t *testing.T, id int64, genres ...string) *core.Item {
	t.Helper()
	g, err := core.NewEnumValue("genre", genres, genreDomain)
	if err != nil {
		t.Fatalf("NewEnumValue: %v", err)
	}
	it, err := core.NewItem(id, core.CategoryMovie, []core.AttributeValue{g})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	return it
}

func addUsers(t *testing.T, d *dataset.Dataset, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		u := &core.User{ID: id, Username: "user" + string(rune('a'+id))}
		if err := d.AddUser(u); err != nil {
			t.Fatalf("AddUser(%d): %v", id, err)
		}
	}
}

func rate(t *testing.T, d *dataset.Dataset, userID, itemID int64, score float64) {
	t.Helper()
	if err := d.AddOrReplaceRating(core.NewRating(userID, itemID, score)); err != nil {
		t.Fatalf("rate(%d, %d, %v): %v", userID, itemID, score, err)
	}
}

func ids(items []*core.ScoredItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.Item.ID())
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
