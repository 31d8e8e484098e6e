// Package backendtest provides an in-memory twin of the storefront backend
// REST API for tests. It keeps just enough behavior to exercise the admin
// console: homepage lists, banners with multipart bodies, products, orders
// and price details. Failures can be injected per route.
package backendtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/go-chi/chi/v5"
)

// Request is what the twin saw for one call.
type Request struct {
	Method string
	Path   string
	Auth   string
	Fields map[string]string
	Files  map[string]string
	JSON   map[string]any
}

type failure struct {
	status  int
	message string
}

type Twin struct {
	mu        sync.Mutex
	counter   int
	token     string
	users     int
	products  []model.Product
	homepage  model.Homepage
	orders    []model.Order
	prices    map[string]model.PriceDetails
	failures  map[string]failure
	requests  []Request
	loginUser string
	loginPass string
	Now       func() time.Time

	Router chi.Router
}

// New builds a twin that accepts bearer token "token" on mutating routes.
func New(token string) *Twin {
	tw := &Twin{
		token:    token,
		prices:   map[string]model.PriceDetails{},
		failures: map[string]failure{},
		Now:      time.Now,
	}
	tw.Router = tw.routes()
	return tw
}

// NewServer starts the twin behind httptest and returns it with the base URL.
func NewServer(t *testing.T, token string) (*Twin, string) {
	t.Helper()
	tw := New(token)
	srv := httptest.NewServer(tw.Router)
	t.Cleanup(srv.Close)
	return tw, srv.URL
}

func (tw *Twin) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(tw.record)
	r.Use(tw.injectFailures)

	r.Post("/auth/login", tw.login)
	r.Get("/auth/user-count", tw.userCount)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", tw.listProducts)
		r.Get("/product-count", tw.productCount)
		r.With(tw.requireAuth).Post("/", tw.createProduct)
		r.Get("/{id}", tw.getProduct)
		r.Get("/{id}/price-details", tw.priceDetails)
		r.With(tw.requireAuth).Put("/{id}", tw.updateProduct)
		r.With(tw.requireAuth).Delete("/{id}", tw.deleteProduct)
	})

	r.Route("/homepage", func(r chi.Router) {
		r.Get("/", tw.getHomepage)
		r.Group(func(r chi.Router) {
			r.Use(tw.requireAuth)
			r.Post("/banners", tw.createBanner)
			r.Put("/banners/{id}", tw.updateBanner)
			r.Delete("/banners/{id}", tw.deleteBanner)
			r.Post("/featured", tw.updateFeatured)
			r.Post("/offers", tw.updateOffers)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(tw.requireAuth)
		r.Get("/", tw.listOrders)
		r.Get("/admin", tw.listOrders)
		r.Get("/order-count", tw.orderCount)
		r.Get("/recent-orders", tw.recentOrders)
		r.Get("/{id}", tw.getOrder)
		r.Put("/{id}", tw.updateOrder)
	})
	return r
}

// --- seeding and inspection ---

func (tw *Twin) SetLogin(email, password string) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.loginUser, tw.loginPass = email, password
}

func (tw *Twin) SetUsers(n int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.users = n
}

func (tw *Twin) AddProduct(p model.Product) model.Product {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if p.ID == "" {
		p.ID = tw.nextID("prod")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = tw.Now()
	}
	tw.products = append(tw.products, p)
	return p
}

func (tw *Twin) SetPrice(productID string, d model.PriceDetails) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.prices[productID] = d
}

func (tw *Twin) AddBanner(b model.Banner) model.Banner {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if b.ID == "" {
		b.ID = tw.nextID("ban")
	}
	tw.homepage.Banners = append(tw.homepage.Banners, b)
	return b
}

func (tw *Twin) AddOrder(o model.Order) model.Order {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if o.ID == "" {
		o.ID = tw.nextID("ord")
	}
	tw.orders = append(tw.orders, o)
	return o
}

// Homepage returns a copy of the stored homepage.
func (tw *Twin) Homepage() model.Homepage {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return copyHomepage(tw.homepage)
}

func (tw *Twin) Products() []model.Product {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return append([]model.Product(nil), tw.products...)
}

func (tw *Twin) Order(id string) (model.Order, bool) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	for _, o := range tw.orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}

// Fail makes every request to method+path answer status with message until
// Recover is called. path is the literal request path, e.g. "/homepage/banners/ban_001".
func (tw *Twin) Fail(method, path string, status int, message string) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.failures[method+" "+path] = failure{status: status, message: message}
}

func (tw *Twin) Recover(method, path string) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	delete(tw.failures, method+" "+path)
}

func (tw *Twin) Requests() []Request {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return append([]Request(nil), tw.requests...)
}

// LastRequest returns the most recent request matching method and path prefix.
func (tw *Twin) LastRequest(method, pathPrefix string) (Request, bool) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	for i := len(tw.requests) - 1; i >= 0; i-- {
		r := tw.requests[i]
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			return r, true
		}
	}
	return Request{}, false
}

func (tw *Twin) nextID(prefix string) string {
	tw.counter++
	return fmt.Sprintf("%s_%03d", prefix, tw.counter)
}

// --- middleware ---

func (tw *Twin) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
		}
		ct := r.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(ct, "multipart/form-data"):
			if err := r.ParseMultipartForm(10 << 20); err == nil {
				rec.Fields = map[string]string{}
				rec.Files = map[string]string{}
				for k, v := range r.MultipartForm.Value {
					rec.Fields[k] = v[0]
				}
				for k, v := range r.MultipartForm.File {
					rec.Files[k] = v[0].Filename
				}
			}
		case strings.HasPrefix(ct, "application/json"):
			data, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(data))
			var body map[string]any
			if err := json.Unmarshal(data, &body); err == nil {
				rec.JSON = body
			}
		}
		tw.mu.Lock()
		tw.requests = append(tw.requests, rec)
		tw.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (tw *Twin) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw.mu.Lock()
		f, ok := tw.failures[r.Method+" "+r.URL.Path]
		tw.mu.Unlock()
		if ok {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (tw *Twin) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+tw.token {
			writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func copyHomepage(h model.Homepage) model.Homepage {
	return model.Homepage{
		Banners:          append([]model.Banner{}, h.Banners...),
		FeaturedProducts: append([]model.Product{}, h.FeaturedProducts...),
		TodayOffers:      append([]model.Product{}, h.TodayOffers...),
	}
}

func (tw *Twin) findProduct(id string) (int, bool) {
	for i, p := range tw.products {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
