package model

type Banner struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	SearchProduct *Product `json:"searchProduct,omitempty"`
}

type Homepage struct {
	Banners          []Banner  `json:"banners"`
	FeaturedProducts []Product `json:"featuredProducts"`
	TodayOffers      []Product `json:"todayOffers"`
}

func (h Homepage) Banner(id string) (Banner, bool) {
	for _, b := range h.Banners {
		if b.ID == id {
			return b, true
		}
	}
	return Banner{}, false
}

func (h Homepage) IsFeatured(productID string) bool {
	return containsProduct(h.FeaturedProducts, productID)
}

func (h Homepage) IsOffer(productID string) bool {
	return containsProduct(h.TodayOffers, productID)
}

func containsProduct(list []Product, id string) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}
