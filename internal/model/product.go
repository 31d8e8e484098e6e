package model

type Product struct {
	BaseModel
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Brand        string        `json:"brand"`
	Category     string        `json:"category"`
	SubCategory  string        `json:"subCategory"`
	Features     []string      `json:"features"`
	Filters      []FilterGroup `json:"filters"`
	Images       []string      `json:"images"`
	CountInStock int           `json:"countInStock"`
	ShippingCost float64       `json:"shippingCost"`
	Rating       float64       `json:"rating"`
	NumReviews   int           `json:"numReviews"`

	// Pricing is derived on the client from the selected variant; the
	// backend never stores it.
	Pricing *PriceSnapshot `json:"pricing,omitempty"`
}

// FilterGroup is a variant dimension ("color", "size") with one price tier
// per value.
type FilterGroup struct {
	Name             string            `json:"name"`
	Values           []string          `json:"values"`
	PriceAdjustments []PriceAdjustment `json:"priceAdjustments"`
}

type PriceAdjustment struct {
	Value         string   `json:"value"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
}

// PriceDetails is the backend answer for a product and a variant selection.
type PriceDetails struct {
	EffectivePrice float64 `json:"effectivePrice"`
	NormalPrice    float64 `json:"normalPrice"`
}

type PriceSnapshot struct {
	DisplayPrice  float64 `json:"displayPrice"`
	OriginalPrice float64 `json:"originalPrice"`
	Discount      int     `json:"discount"`
}

// DefaultSelection picks the first value of every filter that has one.
func (p *Product) DefaultSelection() map[string]string {
	sel := make(map[string]string, len(p.Filters))
	for _, f := range p.Filters {
		if len(f.Values) > 0 {
			sel[f.Name] = f.Values[0]
		}
	}
	return sel
}
