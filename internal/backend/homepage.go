package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// BannerPayload is the multipart body for banner create/update.
//
// An update that carries neither Upload nor ImageRef clears the banner image
// on the backend, so callers keeping the image must pass its current value
// in ImageRef.
type BannerPayload struct {
	Title           string
	Description     string
	Upload          *ImageUpload
	ImageRef        string
	SearchProductID string
}

func (p *BannerPayload) form() *Form {
	f := NewForm().
		Field("title", p.Title).
		Field("description", p.Description)
	switch {
	case p.Upload != nil:
		f.File("image", *p.Upload)
	case p.ImageRef != "":
		f.Field("image", p.ImageRef)
	}
	if p.SearchProductID != "" {
		f.Field("searchProduct", p.SearchProductID)
	}
	return f
}

type listAction struct {
	ProductID string `json:"productId"`
	Action    string `json:"action"`
}

func (c *Client) GetHomepage(ctx context.Context) (*model.Homepage, error) {
	var out model.Homepage
	if err := c.getJSON(ctx, "/homepage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBanner(ctx context.Context, p *BannerPayload) (*model.Banner, error) {
	var out model.Banner
	if err := c.sendForm(ctx, http.MethodPost, "/homepage/banners", p.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBanner(ctx context.Context, id string, p *BannerPayload) (*model.Banner, error) {
	var out model.Banner
	if err := c.sendForm(ctx, http.MethodPut, "/homepage/banners/"+url.PathEscape(id), p.form(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	return c.delete(ctx, "/homepage/banners/"+url.PathEscape(id))
}

// UpdateFeatured adds or removes a featured product and returns the whole
// homepage as the backend now sees it.
func (c *Client) UpdateFeatured(ctx context.Context, productID, action string) (*model.Homepage, error) {
	var out model.Homepage
	if err := c.sendJSON(ctx, http.MethodPost, "/homepage/featured", listAction{ProductID: productID, Action: action}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOffers is UpdateFeatured for today's offers.
func (c *Client) UpdateOffers(ctx context.Context, productID, action string) (*model.Homepage, error) {
	var out model.Homepage
	if err := c.sendJSON(ctx, http.MethodPost, "/homepage/offers", listAction{ProductID: productID, Action: action}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
