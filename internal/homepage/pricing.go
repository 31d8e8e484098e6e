package homepage

import (
	"math"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Snapshot derives the offer card pricing from backend price details. The
// discount is a whole percentage and only shown for a real markdown.
func Snapshot(d *model.PriceDetails) *model.PriceSnapshot {
	if d == nil {
		return &model.PriceSnapshot{}
	}
	s := &model.PriceSnapshot{
		DisplayPrice:  d.EffectivePrice,
		OriginalPrice: d.NormalPrice,
	}
	if d.NormalPrice > d.EffectivePrice && d.EffectivePrice > 0 {
		s.Discount = int(math.Round((d.NormalPrice - d.EffectivePrice) / d.NormalPrice * 100))
	}
	return s
}
