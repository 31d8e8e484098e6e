// Package catalog filters an already fetched product list for the pickers
// on the homepage screen.
package catalog

import (
	"strings"
	"sync"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Search returns the products whose name, category or brand contains query,
// ignoring case, in input order. A blank query matches nothing so that an
// untouched search box does not list the whole catalog.
func Search(products []model.Product, query string) []model.Product {
	if strings.TrimSpace(query) == "" {
		return []model.Product{}
	}
	// only the blank check trims; padding is part of the query
	q := strings.ToLower(query)
	out := []model.Product{}
	for _, p := range products {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p model.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

// Index is one search box: its own query and its own results. Each picker
// holds a separate Index so searches never interfere.
type Index struct {
	mu      sync.RWMutex
	query   string
	results []model.Product
}

func NewIndex() *Index {
	return &Index{results: []model.Product{}}
}

// Search runs query against products and remembers both.
func (i *Index) Search(products []model.Product, query string) []model.Product {
	res := Search(products, query)
	i.mu.Lock()
	i.query = query
	i.results = res
	i.mu.Unlock()
	return res
}

func (i *Index) Query() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.query
}

func (i *Index) Results() []model.Product {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]model.Product(nil), i.results...)
}

// Reset clears the box, as after a product was picked.
func (i *Index) Reset() {
	i.mu.Lock()
	i.query = ""
	i.results = []model.Product{}
	i.mu.Unlock()
}

// Regions keeps one Index per named picker, created on first use.
type Regions struct {
	mu      sync.Mutex
	indexes map[string]*Index
}

func NewRegions() *Regions {
	return &Regions{indexes: map[string]*Index{}}
}

func (r *Regions) Get(name string) *Index {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.indexes[name]
	if !ok {
		idx = NewIndex()
		r.indexes[name] = idx
	}
	return idx
}

func (r *Regions) Drop(name string) {
	r.mu.Lock()
	delete(r.indexes, name)
	r.mu.Unlock()
}
