package catalog

import (
	"strings"
	"testing"

	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/stretchr/testify/assert"
)

func products() []model.Product {
	return []model.Product{
		{Name: "Red Shoe", Category: "Fashion", Brand: "Nike"},
		{Name: "Blue Mug", Category: "Kitchen", Brand: "IKEA"},
		{Name: "Yoga Mat", Category: "Fitness", Brand: "Decathlon"},
		{Name: "Chef Knife", Category: "Kitchen", Brand: "Victorinox"},
	}
}

func names(ps []model.Product) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestSearchBlankQuery(t *testing.T) {
	for _, q := range []string{"", " ", "\t\n"} {
		got := Search(products(), q)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestSearchMatchesNameOnly(t *testing.T) {
	assert.Equal(t, []string{"Red Shoe"}, names(Search(products()[:2], "re")))
}

func TestSearchFields(t *testing.T) {
	assert.Equal(t, []string{"Blue Mug", "Chef Knife"}, names(Search(products(), "KITCHEN")))
	assert.Equal(t, []string{"Blue Mug"}, names(Search(products(), "ikea")))
	assert.Equal(t, []string{"Yoga Mat"}, names(Search(products(), "a mat")))
	assert.Empty(t, Search(products(), "laptop"))
}

func TestSearchKeepsPadding(t *testing.T) {
	assert.Empty(t, Search(products(), "shoe "))
	assert.Empty(t, Search(products(), " mat "))
	assert.Equal(t, []string{"Red Shoe"}, names(Search(products(), "red ")))
	assert.Equal(t, []string{"Yoga Mat"}, names(Search(products(), " mat")))
}

// Search must return exactly the ordered subsequence of matching products.
func TestSearchIsOrderedSubsequence(t *testing.T) {
	all := products()
	for _, q := range []string{"e", "a", "n", "o", "ch", "x"} {
		var want []string
		for _, p := range all {
			lq := strings.ToLower(q)
			if strings.Contains(strings.ToLower(p.Name), lq) ||
				strings.Contains(strings.ToLower(p.Category), lq) ||
				strings.Contains(strings.ToLower(p.Brand), lq) {
				want = append(want, p.Name)
			}
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, names(Search(all, q)), "query %q", q)
	}
}

func TestRegionsAreIndependent(t *testing.T) {
	r := NewRegions()
	featured := r.Get("featured")
	offers := r.Get("offers")

	featured.Search(products(), "kitchen")
	offers.Search(products(), "nike")

	assert.Equal(t, "kitchen", featured.Query())
	assert.Equal(t, []string{"Blue Mug", "Chef Knife"}, names(featured.Results()))
	assert.Equal(t, []string{"Red Shoe"}, names(offers.Results()))
	assert.Same(t, featured, r.Get("featured"))

	featured.Reset()
	assert.Empty(t, featured.Results())
	assert.Len(t, offers.Results(), 1)

	r.Drop("offers")
	assert.NotSame(t, offers, r.Get("offers"))
}
