package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	featuredCount = 4
	// CategoryPreviewLimit is how many products a category detail shows.
	CategoryPreviewLimit = 4
)

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(50)
)

// Catalog serves read-only reference data.
type Catalog struct {
	products   []Product
	categories []Category
	byID       map[int]int
}

// New builds a catalog over the provided data. Later duplicates of a product
// id are unreachable through ProductByID.
func New(products []Product, categories []Category) *Catalog {
	c := &Catalog{
		products:   append([]Product(nil), products...),
		categories: append([]Category(nil), categories...),
		byID:       make(map[int]int, len(products)),
	}
	for i, p := range c.products {
		if _, exists := c.byID[p.ID]; !exists {
			c.byID[p.ID] = i
		}
	}
	return c
}

// Default returns the compiled-in FarmFresh assortment.
func Default() *Catalog {
	return New(defaultProducts, defaultCategories)
}

// Products returns a copy of every product in catalog order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Categories returns a copy of every category.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// ProductByID looks up a product.
func (c *Catalog) ProductByID(id int) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// CategoryByID looks up a category.
func (c *Catalog) CategoryByID(id int) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Featured returns the products promoted on the landing page.
func (c *Catalog) Featured() []Product {
	n := featuredCount
	if len(c.products) < n {
		n = len(c.products)
	}
	return append([]Product(nil), c.products[:n]...)
}

// CategoryProducts returns up to limit products in the category. A
// non-positive limit returns all of them.
func (c *Catalog) CategoryProducts(categoryID, limit int) (CategoryDetail, bool) {
	cat, ok := c.CategoryByID(categoryID)
	if !ok {
		return CategoryDetail{}, false
	}
	items := make([]Product, 0, CategoryPreviewLimit)
	for _, p := range c.products {
		if !strings.EqualFold(p.Category, cat.Name) {
			continue
		}
		items = append(items, p)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return CategoryDetail{Category: cat, Products: items}, true
}

// Filter returns the products matching every enabled criterion.
func (c *Catalog) Filter(f Filter) []Product {
	minPrice, maxPrice := DefaultMinPrice, DefaultMaxPrice
	if f.MinPrice != nil {
		minPrice = *f.MinPrice
	}
	if f.MaxPrice != nil {
		maxPrice = *f.MaxPrice
	}
	category := strings.TrimSpace(f.Category)

	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if f.Organic && !p.Organic {
			continue
		}
		if f.OnSale && !p.Discount {
			continue
		}
		if p.Price.LessThan(minPrice) || p.Price.GreaterThan(maxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out
}
