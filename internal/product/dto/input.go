package dto

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Categories are the fixed storefront categories a product may belong to.
var Categories = []string{
	"Kitchen", "Health", "Fashion", "Beauty", "Electronics",
	"Fitness", "Spiritual", "Kids", "Pets", "Stationery",
}

// ProductInput is the product form as the operator typed it. Numbers stay
// text until Validate has accepted them.
type ProductInput struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description"`
	Brand        string        `yaml:"brand"`
	Category     string        `yaml:"category"`
	SubCategory  string        `yaml:"subCategory"`
	ShippingCost string        `yaml:"shippingCost"`
	CountInStock string        `yaml:"countInStock"`
	Features     []string      `yaml:"features"`
	Filters      []FilterInput `yaml:"filters"`

	// ExistingImages lists the image urls to keep. On update a nil list
	// keeps every current image.
	ExistingImages []string              `yaml:"existingImages"`
	NewImages      []backend.ImageUpload `yaml:"-"`
}

type FilterInput struct {
	Name             string            `yaml:"name"`
	PriceAdjustments []AdjustmentInput `yaml:"priceAdjustments"`
}

type AdjustmentInput struct {
	Value         string `yaml:"value"`
	Price         string `yaml:"price"`
	DiscountPrice string `yaml:"discountPrice"`
}

// isNumber accepts finite decimals only; NaN and Inf cannot be sent as JSON.
func isNumber(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func number(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// Validate returns the first problem with the form, in the order the form
// is laid out.
func (in *ProductInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperr.InvalidErr("name", "Product name is required.")
	case strings.TrimSpace(in.Description) == "":
		return apperr.InvalidErr("description", "Description is required.")
	case in.Category == "":
		return apperr.InvalidErr("category", "Category is required.")
	case !slices.Contains(Categories, in.Category):
		return apperr.InvalidErr("category", fmt.Sprintf("Category must be one of %s.", strings.Join(Categories, ", ")))
	case strings.TrimSpace(in.SubCategory) == "":
		return apperr.InvalidErr("subCategory", "Subcategory is required.")
	case !isNumber(in.ShippingCost):
		return apperr.InvalidErr("shippingCost", "Please enter a valid number for Shipping Cost.")
	case !isNumber(in.CountInStock):
		return apperr.InvalidErr("countInStock", "Please enter a valid number for Stock Count.")
	}

	for i, f := range in.Filters {
		if strings.TrimSpace(f.Name) == "" {
			return apperr.InvalidErr("filters", fmt.Sprintf("Filter name is required for Filter %d.", i+1))
		}
		for _, adj := range f.PriceAdjustments {
			switch {
			case strings.TrimSpace(adj.Value) == "":
				return apperr.InvalidErr("filters", fmt.Sprintf("Filter value is required for %s.", f.Name))
			case !isNumber(adj.Price):
				return apperr.InvalidErr("filters", fmt.Sprintf("Please enter a valid number for Price in %s.", f.Name))
			case strings.TrimSpace(adj.DiscountPrice) != "" && !isNumber(adj.DiscountPrice):
				return apperr.InvalidErr("filters", fmt.Sprintf("Please enter a valid number for Discount Price in %s.", f.Name))
			}
		}
	}
	return nil
}

// Payload converts a validated form into the backend body.
func (in *ProductInput) Payload() *backend.ProductPayload {
	p := &backend.ProductPayload{
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Brand:          strings.TrimSpace(in.Brand),
		Category:       in.Category,
		SubCategory:    strings.TrimSpace(in.SubCategory),
		ShippingCost:   number(in.ShippingCost),
		CountInStock:   int(number(in.CountInStock)),
		Filters:        make([]model.FilterGroup, 0, len(in.Filters)),
		NewImages:      in.NewImages,
		ExistingImages: in.ExistingImages,
	}
	for _, f := range in.Features {
		if s := strings.TrimSpace(f); s != "" {
			p.Features = append(p.Features, s)
		}
	}
	for _, f := range in.Filters {
		g := model.FilterGroup{Name: strings.TrimSpace(f.Name)}
		for _, adj := range f.PriceAdjustments {
			value := strings.TrimSpace(adj.Value)
			pa := model.PriceAdjustment{Value: value, Price: number(adj.Price)}
			if strings.TrimSpace(adj.DiscountPrice) != "" {
				d := number(adj.DiscountPrice)
				pa.DiscountPrice = &d
			}
			g.Values = append(g.Values, value)
			g.PriceAdjustments = append(g.PriceAdjustments, pa)
		}
		p.Filters = append(p.Filters, g)
	}
	return p
}

// FromProduct fills the form from a stored product, for editing.
func FromProduct(p *model.Product) *ProductInput {
	in := &ProductInput{
		Name:           p.Name,
		Description:    p.Description,
		Brand:          p.Brand,
		Category:       p.Category,
		SubCategory:    p.SubCategory,
		ShippingCost:   strconv.FormatFloat(p.ShippingCost, 'f', -1, 64),
		CountInStock:   strconv.Itoa(p.CountInStock),
		Features:       append([]string(nil), p.Features...),
		ExistingImages: append([]string{}, p.Images...),
	}
	for _, f := range p.Filters {
		fi := FilterInput{Name: f.Name}
		for _, adj := range f.PriceAdjustments {
			ai := AdjustmentInput{Value: adj.Value, Price: strconv.FormatFloat(adj.Price, 'f', -1, 64)}
			if adj.DiscountPrice != nil {
				ai.DiscountPrice = strconv.FormatFloat(*adj.DiscountPrice, 'f', -1, 64)
			}
			fi.PriceAdjustments = append(fi.PriceAdjustments, ai)
		}
		in.Filters = append(in.Filters, fi)
	}
	return in
}
