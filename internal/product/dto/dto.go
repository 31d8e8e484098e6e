package dto

// ProductFilters narrows the product list. The zero value lists everything.
type ProductFilters struct {
	SortBy string `json:"sort,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}
