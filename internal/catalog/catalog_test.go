package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultCatalogShape(t *testing.T) {
	c := Default()
	if got := len(c.Products()); got != 12 {
		t.Fatalf("expected 12 products, got %d", got)
	}
	if got := len(c.Categories()); got != 8 {
		t.Fatalf("expected 8 categories, got %d", got)
	}
	p, ok := c.ProductByID(8)
	if !ok || p.Name != "Grass-Fed Beef" {
		t.Fatalf("unexpected product 8: %+v", p)
	}
	if p.OldPrice == nil || !p.OldPrice.Equal(decimal.RequireFromString("15.99")) {
		t.Fatalf("expected old price 15.99, got %v", p.OldPrice)
	}
	if _, ok := c.ProductByID(99); ok {
		t.Fatalf("expected unknown product lookup to fail")
	}
}

func TestProductsReturnsCopy(t *testing.T) {
	c := Default()
	list := c.Products()
	list[0].Name = "mutated"
	if p, _ := c.ProductByID(1); p.Name == "mutated" {
		t.Fatalf("catalog data leaked through Products()")
	}
}

func TestFeatured(t *testing.T) {
	got := Default().Featured()
	if len(got) != 4 {
		t.Fatalf("expected 4 featured, got %d", len(got))
	}
	for i, p := range got {
		if p.ID != i+1 {
			t.Fatalf("featured[%d] expected id %d got %d", i, i+1, p.ID)
		}
	}
}

func TestFilter(t *testing.T) {
	c := Default()
	ten := decimal.NewFromInt(10)
	five := decimal.NewFromInt(5)

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []int
	}{
		{name: "category ignores case", filter: Filter{Category: "vegetables"}, wantIDs: []int{2, 4, 11}},
		{name: "on sale", filter: Filter{OnSale: true}, wantIDs: []int{1, 8, 11}},
		{name: "organic fruits", filter: Filter{Category: "Fruits", Organic: true}, wantIDs: []int{1, 9}},
		{name: "inclusive price range", filter: Filter{MinPrice: &five, MaxPrice: &ten}, wantIDs: []int{3, 5, 7, 9, 10}},
		{name: "default range keeps everything", filter: Filter{}, wantIDs: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{name: "unknown category", filter: Filter{Category: "Seafood"}, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Filter(tt.filter)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d products, got %d", len(tt.wantIDs), len(got))
			}
			for i, p := range got {
				if p.ID != tt.wantIDs[i] {
					t.Fatalf("position %d expected id %d got %d", i, tt.wantIDs[i], p.ID)
				}
			}
		})
	}
}

func TestFilterPriceBoundsAreInclusive(t *testing.T) {
	exact := decimal.RequireFromString("14.99")
	got := Default().Filter(Filter{MinPrice: &exact, MaxPrice: &exact})
	if len(got) != 1 || got[0].ID != 12 {
		t.Fatalf("expected only maple syrup, got %+v", got)
	}
}

func TestCategoryProducts(t *testing.T) {
	c := New(append(Default().Products(), Product{ID: 13, Name: "Kale", Category: "Vegetables"}, Product{ID: 14, Name: "Leeks", Category: "Vegetables"}), Default().Categories())

	detail, ok := c.CategoryProducts(1, CategoryPreviewLimit)
	if !ok {
		t.Fatalf("expected vegetables category")
	}
	if detail.Name != "Vegetables" || len(detail.Products) != 4 {
		t.Fatalf("expected 4 vegetables preview, got %d", len(detail.Products))
	}

	all, _ := c.CategoryProducts(1, 0)
	if len(all.Products) != 5 {
		t.Fatalf("expected all 5 vegetables, got %d", len(all.Products))
	}

	if _, ok := c.CategoryProducts(42, 4); ok {
		t.Fatalf("expected unknown category to fail")
	}
}
