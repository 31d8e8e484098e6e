package backend_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/backend/backendtest"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func setup(t *testing.T, token string) (*backendtest.Twin, *backend.Client) {
	t.Helper()
	tw, url := backendtest.NewServer(t, "tok")
	return tw, backend.NewClient(url, 5*time.Second, staticToken(token), logger.NewNop())
}

func TestMutationWithoutTokenIsNotSent(t *testing.T) {
	tw, c := setup(t, "")

	err := c.DeleteBanner(context.Background(), "ban_1")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
	assert.Empty(t, tw.Requests())
}

func TestBackendMessageIsSurfaced(t *testing.T) {
	tw, c := setup(t, "tok")
	tw.Fail(http.MethodDelete, "/homepage/banners/ban_9", http.StatusInternalServerError, "Cloudinary is down")

	err := c.DeleteBanner(context.Background(), "ban_9")

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Backend))
	assert.Equal(t, "Cloudinary is down", apperr.PublicMessage(err))
}

func TestWrongTokenMapsToUnauthorized(t *testing.T) {
	_, c := setup(t, "stale")

	_, err := c.UpdateFeatured(context.Background(), "prod_1", backend.ActionAdd)

	assert.True(t, apperr.IsAuth(err))
	assert.Equal(t, "Not authorized, token failed", apperr.PublicMessage(err))
}

func TestBannerUpdateResendsImageReference(t *testing.T) {
	tw, c := setup(t, "tok")
	p := tw.AddProduct(model.Product{Name: "Red Shoe"})
	b := tw.AddBanner(model.Banner{Title: "Sale", Image: "https://cdn/sale.jpg"})

	got, err := c.UpdateBanner(context.Background(), b.ID, &backend.BannerPayload{
		Title:           "Sale",
		ImageRef:        b.Image,
		SearchProductID: p.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn/sale.jpg", got.Image)
	require.NotNil(t, got.SearchProduct)
	assert.Equal(t, p.ID, got.SearchProduct.ID)

	req, ok := tw.LastRequest(http.MethodPut, "/homepage/banners/")
	require.True(t, ok)
	assert.Equal(t, "Bearer tok", req.Auth)
	assert.Equal(t, "https://cdn/sale.jpg", req.Fields["image"])
	assert.Equal(t, p.ID, req.Fields["searchProduct"])
}

func TestBannerUploadSendsFile(t *testing.T) {
	tw, c := setup(t, "tok")

	got, err := c.CreateBanner(context.Background(), &backend.BannerPayload{
		Title:  "New",
		Upload: &backend.ImageUpload{Filename: "banner-image.jpg", Data: []byte{0xff, 0xd8}},
	})

	require.NoError(t, err)
	assert.Equal(t, "/uploads/banner-image.jpg", got.Image)
	req, _ := tw.LastRequest(http.MethodPost, "/homepage/banners")
	assert.Equal(t, "banner-image.jpg", req.Files["image"])
	assert.Empty(t, req.Fields["searchProduct"])
}

func TestPriceDetailsSendsSelection(t *testing.T) {
	tw, c := setup(t, "")
	discount := 2599.0
	p := tw.AddProduct(model.Product{
		Name: "Headphones",
		Filters: []model.FilterGroup{{
			Name:   "color",
			Values: []string{"Black", "Blue"},
			PriceAdjustments: []model.PriceAdjustment{
				{Value: "Black", Price: 2999, DiscountPrice: &discount},
				{Value: "Blue", Price: 3199},
			},
		}},
	})

	d, err := c.PriceDetails(context.Background(), p.ID, p.DefaultSelection())

	require.NoError(t, err)
	assert.Equal(t, 2599.0, d.EffectivePrice)
	assert.Equal(t, 2999.0, d.NormalPrice)
}

func TestListProductsQuery(t *testing.T) {
	tw, c := setup(t, "")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c"} {
		tw.AddProduct(model.Product{Name: name, BaseModel: model.BaseModel{CreatedAt: base.Add(time.Duration(i) * time.Hour)}})
	}

	list, err := c.ListProducts(context.Background(), backend.ProductQuery{Sort: "-createdAt", Limit: 2})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Name)
	assert.Equal(t, "b", list[1].Name)
}

func TestLogin(t *testing.T) {
	tw, c := setup(t, "")
	tw.SetLogin("admin@shop.test", "secret1")

	token, err := c.Login(context.Background(), "admin@shop.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = c.Login(context.Background(), "admin@shop.test", "nope")
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
	assert.Equal(t, "Invalid email or password", apperr.PublicMessage(err))
}

func TestTransportFailure(t *testing.T) {
	c := backend.NewClient("http://127.0.0.1:1", time.Second, staticToken("tok"), logger.NewNop())

	_, err := c.GetHomepage(context.Background())

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Backend))
}
