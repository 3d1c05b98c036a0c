package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-api/internal/handler"
	"github.com/iliyamo/marketplace-api/internal/model"
	"github.com/iliyamo/marketplace-api/internal/repository"
	"github.com/iliyamo/marketplace-api/internal/router"
	"github.com/iliyamo/marketplace-api/internal/utils"
)

// ----- in-memory stores -----

type fakeCategories struct {
	byID map[uint64]model.Category
}

func (f *fakeCategories) GetByID(_ context.Context, id uint64) (model.Category, error) {
	cat, ok := f.byID[id]
	if !ok {
		return model.Category{}, repository.ErrCategoryNotFound
	}
	return cat, nil
}

type fakeProducts struct {
	items      []repository.ProductWithCategory
	categories *fakeCategories
	nextID     uint64
	now        time.Time
}

func matches(p repository.ProductWithCategory, f repository.ProductFilter) bool {
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	return true
}

func (f *fakeProducts) ListAndCount(_ context.Context, q repository.ProductPage) ([]repository.ProductWithCategory, int64, error) {
	var filtered []repository.ProductWithCategory
	for _, p := range f.items {
		if matches(p, q.Filter) {
			filtered = append(filtered, p)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		var less bool
		switch q.SortColumn {
		case "name":
			less = filtered[i].Name < filtered[j].Name
		case "price":
			less = filtered[i].Price < filtered[j].Price
		default: // created_at
			less = filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		if q.SortDesc {
			return !less && !equalByColumn(filtered[i], filtered[j], q.SortColumn)
		}
		return less
	})
	total := int64(len(filtered))

	start := q.Offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + q.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := make([]repository.ProductWithCategory, 0, end-start)
	for _, p := range filtered[start:end] {
		if !q.IncludeCategory {
			p.Category = nil
		}
		page = append(page, p)
	}
	return page, total, nil
}

func equalByColumn(a, b repository.ProductWithCategory, col string) bool {
	switch col {
	case "name":
		return a.Name == b.Name
	case "price":
		return a.Price == b.Price
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

func (f *fakeProducts) Create(_ context.Context, p *model.Product) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = f.now
	cat := f.categories.byID[p.CategoryID]
	f.items = append(f.items, repository.ProductWithCategory{Product: *p, Category: &cat})
	return nil
}

// ----- harness -----

type productEnv struct {
	e        *echo.Echo
	products *fakeProducts
	bearer   string
}

// newProductEnv seeds 28 products across two categories: ids 1..20 in
// category 1 at prices 10,20,..,200, ids 21..28 in category 2 at prices
// 5,10,..,40.
func newProductEnv(t *testing.T) *productEnv {
	t.Helper()
	issuer := utils.NewTokenService("test-secret", 300, 7)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer.Now = func() time.Time { return base }

	cats := &fakeCategories{byID: map[uint64]model.Category{
		1: {ID: 1, Name: "Informatique", Description: "Ordinateurs et accessoires"},
		2: {ID: 2, Name: "Sport", Description: "Equipements de sport"},
	}}
	products := &fakeProducts{categories: cats, now: base}
	for i := 1; i <= 28; i++ {
		catID := uint64(1)
		price := float64(i) * 10
		if i > 20 {
			catID = 2
			price = float64(i-20) * 5
		}
		cat := cats.byID[catID]
		products.items = append(products.items, repository.ProductWithCategory{
			Product: model.Product{
				ID:         uint64(i),
				Name:       fmt.Sprintf("Product %02d", i),
				Type:       "STANDARD",
				Price:      price,
				Stock:      uint32(i),
				CategoryID: catID,
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			},
			Category: &cat,
		})
		products.nextID = uint64(i)
	}

	access, err := issuer.NewAccessToken(1, "user1@example.com", "USER")
	if err != nil {
		t.Fatalf("access token: %v", err)
	}

	e := echo.New()
	router.RegisterProducts(e, handler.NewProductHandler(products, cats), issuer, nil)
	return &productEnv{e: e, products: products, bearer: access.Token}
}

func listItems(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	raw, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("items missing: %v", body)
	}
	items := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		items = append(items, it.(map[string]any))
	}
	return items
}

// ----- tests -----

func TestListRequiresAuth(t *testing.T) {
	env := newProductEnv(t)
	if w := doJSON(env.e, http.MethodGet, "/products", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("code %d, want 401", w.Code)
	}
}

func TestListPagination(t *testing.T) {
	env := newProductEnv(t)
	w := doJSON(env.e, http.MethodGet, "/products?limit=10", "", env.bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("code %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["page"] != float64(1) || body["limit"] != float64(10) {
		t.Fatalf("page/limit: %v", body)
	}
	if body["total"] != float64(28) || body["totalPages"] != float64(3) {
		t.Fatalf("total/totalPages: %v", body)
	}
	if len(listItems(t, body)) != 10 {
		t.Fatalf("items on page 1: %d", len(listItems(t, body)))
	}

	// A page past the end keeps the envelope and returns no items.
	w = doJSON(env.e, http.MethodGet, "/products?limit=10&page=4", "", env.bearer)
	body = decodeBody(t, w)
	if body["total"] != float64(28) || body["totalPages"] != float64(3) {
		t.Fatalf("empty page envelope: %v", body)
	}
	if len(listItems(t, body)) != 0 {
		t.Fatalf("items on page 4: %d", len(listItems(t, body)))
	}
}

func TestListDefaultsAndClamps(t *testing.T) {
	env := newProductEnv(t)
	w := doJSON(env.e, http.MethodGet, "/products?page=0&limit=500", "", env.bearer)
	body := decodeBody(t, w)
	if body["page"] != float64(1) || body["limit"] != float64(100) {
		t.Fatalf("clamping: %v", body)
	}
	// All 28 rows fit on one page at the clamped limit.
	if body["totalPages"] != float64(1) {
		t.Fatalf("totalPages with limit 100: %v", body["totalPages"])
	}
}

func TestListSort(t *testing.T) {
	env := newProductEnv(t)
	w := doJSON(env.e, http.MethodGet, "/products?sort=-price&limit=100", "", env.bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("code %d", w.Code)
	}
	items := listItems(t, decodeBody(t, w))
	for i := 1; i < len(items); i++ {
		if items[i]["price"].(float64) > items[i-1]["price"].(float64) {
			t.Fatalf("prices not non-increasing at %d", i)
		}
	}

	if w := doJSON(env.e, http.MethodGet, "/products?sort=bogus", "", env.bearer); w.Code != http.StatusBadRequest {
		t.Fatalf("bogus sort code %d", w.Code)
	}
}

func TestListFilters(t *testing.T) {
	env := newProductEnv(t)
	w := doJSON(env.e, http.MethodGet, "/products?categoryId=2&limit=100", "", env.bearer)
	body := decodeBody(t, w)
	if body["total"] != float64(8) {
		t.Fatalf("category filter total: %v", body["total"])
	}

	w = doJSON(env.e, http.MethodGet, "/products?priceMin=100&priceMax=200&limit=100", "", env.bearer)
	body = decodeBody(t, w)
	if body["total"] != float64(11) { // category 1 prices 100..200 inclusive
		t.Fatalf("price range total: %v", body["total"])
	}

	// Non-numeric bounds are ignored, not rejected.
	w = doJSON(env.e, http.MethodGet, "/products?priceMin=abc&limit=100", "", env.bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("non-numeric priceMin code %d", w.Code)
	}
	if decodeBody(t, w)["total"] != float64(28) {
		t.Fatal("non-numeric priceMin should not filter")
	}
}

func TestListProjection(t *testing.T) {
	env := newProductEnv(t)
	w := doJSON(env.e, http.MethodGet, "/products?fields=name,price", "", env.bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("code %d", w.Code)
	}
	for _, item := range listItems(t, decodeBody(t, w)) {
		if len(item) != 2 {
			t.Fatalf("projected item has %d keys: %v", len(item), item)
		}
		if _, ok := item["name"]; !ok {
			t.Fatalf("name missing: %v", item)
		}
		if _, ok := item["price"]; !ok {
			t.Fatalf("price missing: %v", item)
		}
	}

	// Category inclusion composes with the projection.
	w = doJSON(env.e, http.MethodGet, "/products?fields=name,price&include=category", "", env.bearer)
	for _, item := range listItems(t, decodeBody(t, w)) {
		if len(item) != 3 {
			t.Fatalf("projected+included item has %d keys: %v", len(item), item)
		}
		cat, ok := item["category"].(map[string]any)
		if !ok || cat["name"] == "" {
			t.Fatalf("category not embedded: %v", item)
		}
	}

	if w := doJSON(env.e, http.MethodGet, "/products?fields=secret", "", env.bearer); w.Code != http.StatusBadRequest {
		t.Fatalf("unlisted field code %d", w.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	env := newProductEnv(t)
	before := len(env.products.items)

	w := doJSON(env.e, http.MethodPost, "/products",
		`{"name":"Webcam HD","price":59.9,"stock":7,"categoryId":1}`, env.bearer)
	if w.Code != http.StatusCreated {
		t.Fatalf("code %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["name"] != "Webcam HD" || body["type"] != "STANDARD" {
		t.Fatalf("created product: %v", body)
	}
	cat, ok := body["category"].(map[string]any)
	if !ok || cat["name"] != "Informatique" {
		t.Fatalf("category not embedded: %v", body)
	}
	if len(env.products.items) != before+1 {
		t.Fatalf("store size %d, want %d", len(env.products.items), before+1)
	}
}

func TestCreateProductCustomType(t *testing.T) {
	env := newProductEnv(t)
	w := doJSON(env.e, http.MethodPost, "/products",
		`{"name":"Maillot","price":35,"stock":12,"categoryId":2,"type":"  SPORTS_APPAREL  "}`, env.bearer)
	if w.Code != http.StatusCreated {
		t.Fatalf("code %d: %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["type"] != "SPORTS_APPAREL" {
		t.Fatalf("type not trimmed: %s", w.Body.String())
	}
}

func TestCreateProductValidation(t *testing.T) {
	env := newProductEnv(t)
	before := len(env.products.items)

	cases := []struct {
		body string
		code int
	}{
		{`{"price":10,"stock":1,"categoryId":1}`, http.StatusBadRequest},            // no name
		{`{"name":"X","price":-1,"stock":1,"categoryId":1}`, http.StatusBadRequest}, // negative price
		{`{"name":"X","price":10,"categoryId":1}`, http.StatusBadRequest},           // no stock
		{`{"name":"X","price":10,"stock":-2,"categoryId":1}`, http.StatusBadRequest},
		{`{"name":"X","price":10,"stock":1}`, http.StatusBadRequest},                     // no category
		{`{"name":"X","price":10,"stock":1,"categoryId":999999}`, http.StatusNotFound},   // unknown category
		{`{"name":"X","price":10,"stock":1,"categoryId":1,"extra":`, http.StatusBadRequest}, // malformed JSON
	}
	for _, tc := range cases {
		w := doJSON(env.e, http.MethodPost, "/products", tc.body, env.bearer)
		if w.Code != tc.code {
			t.Fatalf("body %s: code %d, want %d", tc.body, w.Code, tc.code)
		}
	}
	if len(env.products.items) != before {
		t.Fatal("rejected requests must not write")
	}
}
