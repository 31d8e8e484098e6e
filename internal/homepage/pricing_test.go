package homepage

import (
	"testing"

	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	cases := []struct {
		name     string
		details  *model.PriceDetails
		expected model.PriceSnapshot
	}{
		{"markdown", &model.PriceDetails{NormalPrice: 999, EffectivePrice: 749}, model.PriceSnapshot{DisplayPrice: 749, OriginalPrice: 999, Discount: 25}},
		{"rounds to nearest", &model.PriceDetails{NormalPrice: 300, EffectivePrice: 199}, model.PriceSnapshot{DisplayPrice: 199, OriginalPrice: 300, Discount: 34}},
		{"no markdown", &model.PriceDetails{NormalPrice: 500, EffectivePrice: 500}, model.PriceSnapshot{DisplayPrice: 500, OriginalPrice: 500}},
		{"free item", &model.PriceDetails{NormalPrice: 500, EffectivePrice: 0}, model.PriceSnapshot{OriginalPrice: 500}},
		{"markup", &model.PriceDetails{NormalPrice: 100, EffectivePrice: 120}, model.PriceSnapshot{DisplayPrice: 120, OriginalPrice: 100}},
		{"lookup failed", nil, model.PriceSnapshot{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, *Snapshot(tc.details))
		})
	}
}
