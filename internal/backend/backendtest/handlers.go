package backendtest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/go-chi/chi/v5"
)

func (tw *Twin) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	tw.mu.Lock()
	ok := body.Email == tw.loginUser && body.Password == tw.loginPass
	tw.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tw.token})
}

func (tw *Twin) userCount(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"totalUsers": tw.users})
}

// --- products ---

func (tw *Twin) listProducts(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	list := append([]model.Product{}, tw.products...)
	tw.mu.Unlock()

	if r.URL.Query().Get("sort") == "-createdAt" {
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	}
	if limit := atoi(r.URL.Query().Get("limit")); limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	writeJSON(w, http.StatusOK, list)
}

func (tw *Twin) productCount(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"totalProducts": len(tw.products)})
}

func (tw *Twin) getProduct(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	i, ok := tw.findProduct(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, tw.products[i])
}

func (tw *Twin) priceDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var sel map[string]string
	if raw := r.URL.Query().Get("selectedFilters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sel); err != nil {
			writeError(w, http.StatusBadRequest, "invalid selectedFilters")
			return
		}
	}
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if d, ok := tw.prices[id]; ok {
		writeJSON(w, http.StatusOK, d)
		return
	}
	i, ok := tw.findProduct(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	// price the selected value of the first filter
	var d model.PriceDetails
	for _, f := range tw.products[i].Filters {
		for _, adj := range f.PriceAdjustments {
			if adj.Value == sel[f.Name] {
				d.NormalPrice = adj.Price
				d.EffectivePrice = adj.Price
				if adj.DiscountPrice != nil {
					d.EffectivePrice = *adj.DiscountPrice
				}
			}
		}
		break
	}
	writeJSON(w, http.StatusOK, d)
}

func (tw *Twin) productFromForm(r *http.Request, p *model.Product) {
	p.Name = r.FormValue("name")
	p.Description = r.FormValue("description")
	p.Brand = r.FormValue("brand")
	p.Category = r.FormValue("category")
	p.SubCategory = r.FormValue("subCategory")
	p.ShippingCost, _ = strconv.ParseFloat(r.FormValue("shippingCost"), 64)
	p.CountInStock = atoi(r.FormValue("countInStock"))
	_ = json.Unmarshal([]byte(r.FormValue("features")), &p.Features)
	_ = json.Unmarshal([]byte(r.FormValue("filters")), &p.Filters)

	var images []string
	_ = json.Unmarshal([]byte(r.FormValue("existingImages")), &images)
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			images = append(images, "/uploads/"+fh.Filename)
		}
	}
	p.Images = images
}

func (tw *Twin) createProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	tw.productFromForm(r, &p)
	tw.mu.Lock()
	p.ID = tw.nextID("prod")
	p.CreatedAt = tw.Now()
	tw.products = append(tw.products, p)
	tw.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (tw *Twin) updateProduct(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	i, ok := tw.findProduct(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	p := tw.products[i]
	tw.productFromForm(r, &p)
	p.UpdatedAt = tw.Now()
	tw.products[i] = p
	writeJSON(w, http.StatusOK, p)
}

func (tw *Twin) deleteProduct(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	i, ok := tw.findProduct(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	tw.products = append(tw.products[:i], tw.products[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

// --- homepage ---

func (tw *Twin) getHomepage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tw.Homepage())
}

func (tw *Twin) bannerFromForm(r *http.Request, b *model.Banner) {
	b.Title = r.FormValue("title")
	b.Description = r.FormValue("description")
	b.Image = ""
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			b.Image = "/uploads/" + files[0].Filename
		}
	}
	if b.Image == "" {
		b.Image = r.FormValue("image")
	}
	b.SearchProduct = nil
	if id := r.FormValue("searchProduct"); id != "" {
		if i, ok := tw.findProduct(id); ok {
			p := tw.products[i]
			b.SearchProduct = &p
		}
	}
}

func (tw *Twin) createBanner(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	var b model.Banner
	tw.bannerFromForm(r, &b)
	b.ID = tw.nextID("ban")
	tw.homepage.Banners = append(tw.homepage.Banners, b)
	writeJSON(w, http.StatusCreated, b)
}

func (tw *Twin) updateBanner(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i, b := range tw.homepage.Banners {
		if b.ID == id {
			tw.bannerFromForm(r, &b)
			tw.homepage.Banners[i] = b
			writeJSON(w, http.StatusOK, b)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Banner not found")
}

func (tw *Twin) deleteBanner(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i, b := range tw.homepage.Banners {
		if b.ID == id {
			tw.homepage.Banners = append(tw.homepage.Banners[:i], tw.homepage.Banners[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Banner deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Banner not found")
}

func (tw *Twin) updateFeatured(w http.ResponseWriter, r *http.Request) {
	tw.updateList(w, r, func(h *model.Homepage) *[]model.Product { return &h.FeaturedProducts })
}

func (tw *Twin) updateOffers(w http.ResponseWriter, r *http.Request) {
	tw.updateList(w, r, func(h *model.Homepage) *[]model.Product { return &h.TodayOffers })
}

func (tw *Twin) updateList(w http.ResponseWriter, r *http.Request, pick func(*model.Homepage) *[]model.Product) {
	var body struct {
		ProductID string `json:"productId"`
		Action    string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	list := pick(&tw.homepage)
	switch body.Action {
	case "add":
		i, ok := tw.findProduct(body.ProductID)
		if !ok {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		for _, p := range *list {
			if p.ID == body.ProductID {
				writeJSON(w, http.StatusOK, copyHomepage(tw.homepage))
				return
			}
		}
		*list = append(*list, tw.products[i])
	case "remove":
		out := (*list)[:0]
		for _, p := range *list {
			if p.ID != body.ProductID {
				out = append(out, p)
			}
		}
		*list = out
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
		return
	}
	writeJSON(w, http.StatusOK, copyHomepage(tw.homepage))
}

// --- orders ---

func (tw *Twin) listOrders(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]model.Order{}, tw.orders...))
}

func (tw *Twin) orderCount(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"totalOrders": len(tw.orders)})
}

func (tw *Twin) recentOrders(w http.ResponseWriter, r *http.Request) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	list := append([]model.Order{}, tw.orders...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if len(list) > 5 {
		list = list[:5]
	}
	writeJSON(w, http.StatusOK, list)
}

func (tw *Twin) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := tw.Order(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (tw *Twin) updateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderStatus model.OrderStatus `json:"orderStatus"`
		IsPaid      *bool             `json:"isPaid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i, o := range tw.orders {
		if o.ID != id {
			continue
		}
		now := tw.Now()
		o.OrderStatus = body.OrderStatus
		if o.StatusTimestamps == nil {
			o.StatusTimestamps = map[model.OrderStatus]time.Time{}
		}
		o.StatusTimestamps[body.OrderStatus] = now
		if body.IsPaid != nil {
			o.IsPaid = *body.IsPaid
		}
		if body.OrderStatus == model.StatusDelivered {
			o.IsDelivered = true
			if o.PaymentInfo.Method == model.PaymentMethodCOD {
				o.PaymentInfo.Status = model.PaymentStatusCompleted
				o.PaymentInfo.PaidAt = &now
			}
		}
		tw.orders[i] = o
		writeJSON(w, http.StatusOK, o)
		return
	}
	writeError(w, http.StatusNotFound, "Order not found")
}
