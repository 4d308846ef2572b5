package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/satyam539813/farmappsample/internal/catalog"
)

func catalogRouter() http.Handler {
	cat := catalog.Default()
	r := chi.NewRouter()
	r.Get("/products", ProductList(cat, nil))
	r.Get("/products/featured", ProductFeatured(cat))
	r.Get("/products/{productId}", ProductDetail(cat, nil))
	r.Get("/categories", CategoryList(cat))
	r.Get("/categories/{categoryId}", CategoryDetail(cat, nil))
	return r
}

func TestProductListFilters(t *testing.T) {
	rec := httptest.NewRecorder()
	catalogRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?category=Fruits&organic=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var products []catalog.Product
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 2 || products[0].ID != 1 || products[1].ID != 9 {
		t.Fatalf("unexpected organic fruits %+v", products)
	}
}

func TestProductListRejectsInvertedPriceRange(t *testing.T) {
	rec := httptest.NewRecorder()
	catalogRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?min_price=10&max_price=5", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestProductListRejectsBadBool(t *testing.T) {
	rec := httptest.NewRecorder()
	catalogRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?organic=maybe", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestProductDetail(t *testing.T) {
	tests := []struct {
		path   string
		status int
	}{
		{path: "/products/1", status: http.StatusOK},
		{path: "/products/99", status: http.StatusNotFound},
		{path: "/products/abc", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		catalogRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Fatalf("%s: expected %d got %d", tt.path, tt.status, rec.Code)
		}
	}
}

func TestFeaturedRouteIsNotShadowedByDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	catalogRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/featured", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var products []catalog.Product
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected featured products")
	}
}

func TestCategoryDetailPreview(t *testing.T) {
	rec := httptest.NewRecorder()
	catalogRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/1?limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var detail catalog.CategoryDetail
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &detail); err != nil {
		t.Fatalf("decode category: %v", err)
	}
	if detail.Name != "Vegetables" || len(detail.Products) != 2 {
		t.Fatalf("unexpected preview %+v", detail)
	}

	rec = httptest.NewRecorder()
	catalogRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/42", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
