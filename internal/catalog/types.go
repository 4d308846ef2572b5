package catalog

import (
	"github.com/satyam539813/farmappsample/pkg/enums"
	"github.com/shopspring/decimal"
)

// Product is one item of the compiled-in assortment.
type Product struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Price       decimal.Decimal     `json:"price"`
	Unit        string              `json:"unit"`
	Image       string              `json:"image"`
	Description string              `json:"description"`
	Organic     bool                `json:"organic"`
	Discount    bool                `json:"discount"`
	Badge       *enums.ProductBadge `json:"badge,omitempty"`
	OldPrice    *decimal.Decimal    `json:"old_price,omitempty"`
}

// Category groups products for navigation. Count is the advertised
// assortment size, not the number of compiled-in products.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// CategoryDetail is a category with a preview of its products.
type CategoryDetail struct {
	Category
	Products []Product `json:"products"`
}

// Filter narrows the product list. Zero values disable a criterion except
// the price range, which defaults to [DefaultMinPrice, DefaultMaxPrice].
type Filter struct {
	Category string
	Organic  bool
	OnSale   bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
