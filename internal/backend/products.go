package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// ProductQuery narrows GET /products. The zero value lists everything.
type ProductQuery struct {
	Sort  string `json:"sort,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ProductPayload is the multipart body for product create/update.
// ExistingImages must list every image to keep; the backend drops the rest.
type ProductPayload struct {
	Name           string
	Description    string
	Brand          string
	Category       string
	SubCategory    string
	ShippingCost   float64
	CountInStock   int
	Features       []string
	Filters        []model.FilterGroup
	NewImages      []ImageUpload
	ExistingImages []string
}

func (p *ProductPayload) form() (*Form, error) {
	features, err := json.Marshal(nonNil(p.Features))
	if err != nil {
		return nil, err
	}
	filters, err := json.Marshal(p.Filters)
	if err != nil {
		return nil, err
	}

	f := NewForm().
		Field("name", p.Name).
		Field("description", p.Description).
		Field("brand", p.Brand).
		Field("category", p.Category).
		Field("subCategory", p.SubCategory).
		Field("shippingCost", strconv.FormatFloat(p.ShippingCost, 'f', -1, 64)).
		Field("countInStock", strconv.Itoa(p.CountInStock)).
		Field("features", string(features)).
		Field("filters", string(filters))

	for _, img := range p.NewImages {
		f.File("images", img)
	}
	if len(p.ExistingImages) > 0 {
		existing, err := json.Marshal(p.ExistingImages)
		if err != nil {
			return nil, err
		}
		f.Field("existingImages", string(existing))
	}
	return f, nil
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	var out []model.Product
	if err := c.getJSON(ctx, "/products", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var out model.Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CountProducts(ctx context.Context) (int, error) {
	var out struct {
		TotalProducts int `json:"totalProducts"`
	}
	if err := c.getJSON(ctx, "/products/product-count", nil, &out); err != nil {
		return 0, err
	}
	return out.TotalProducts, nil
}

// PriceDetails asks the backend to price a product for a variant selection.
func (c *Client) PriceDetails(ctx context.Context, productID string, selection map[string]string) (*model.PriceDetails, error) {
	sel, err := json.Marshal(selection)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	var out model.PriceDetails
	q := url.Values{"selectedFilters": []string{string(sel)}}
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(productID)+"/price-details", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p *ProductPayload) (*model.Product, error) {
	f, err := p.form()
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	var out model.Product
	if err := c.sendForm(ctx, http.MethodPost, "/products", f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p *ProductPayload) (*model.Product, error) {
	f, err := p.form()
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	var out model.Product
	if err := c.sendForm(ctx, http.MethodPut, "/products/"+url.PathEscape(id), f, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/products/"+url.PathEscape(id))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
