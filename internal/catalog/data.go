package catalog

import (
	"github.com/satyam539813/farmappsample/pkg/enums"
	"github.com/shopspring/decimal"
)

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func oldPrice(value string) *decimal.Decimal {
	p := price(value)
	return &p
}

func badge(b enums.ProductBadge) *enums.ProductBadge {
	return &b
}

var defaultProducts = []Product{
	{
		ID:          1,
		Name:        "Organic Red Apples",
		Category:    "Fruits",
		Price:       price("4.99"),
		Unit:        "kg",
		Image:       "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6?auto=format&fit=crop&w=600&q=80",
		Discount:    true,
		OldPrice:    oldPrice("6.99"),
		Badge:       badge(enums.ProductBadgeSale),
		Organic:     true,
		Description: "Sweet and crisp organic red apples from local orchards. Perfect for snacking, baking, or adding to salads.",
	},
	{
		ID:          2,
		Name:        "Fresh Garden Spinach",
		Category:    "Vegetables",
		Price:       price("3.49"),
		Unit:        "bunch",
		Image:       "https://images.unsplash.com/photo-1576045057995-568f588f82fb?auto=format&fit=crop&w=600&q=80",
		Organic:     true,
		Description: "Nutrient-rich organic spinach leaves, freshly harvested from our sustainable farm. Great for salads, smoothies, or cooking.",
	},
	{
		ID:          3,
		Name:        "Free Range Eggs",
		Category:    "Dairy",
		Price:       price("5.99"),
		Unit:        "dozen",
		Image:       "https://images.unsplash.com/photo-1598965402089-897ce52e8355?auto=format&fit=crop&w=600&q=80",
		Badge:       badge(enums.ProductBadgeNew),
		Description: "Farm-fresh eggs from free-range chickens. These eggs have bright yellow yolks and exceptional flavor.",
	},
	{
		ID:          4,
		Name:        "Heirloom Tomatoes",
		Category:    "Vegetables",
		Price:       price("4.29"),
		Unit:        "lb",
		Image:       "https://images.unsplash.com/photo-1518977822534-7049a61ee0c2?auto=format&fit=crop&w=600&q=80",
		Organic:     true,
		Description: "Colorful mix of heirloom tomato varieties, each with unique flavor profiles. Perfect for salads and gourmet dishes.",
	},
	{
		ID:          5,
		Name:        "Raw Wildflower Honey",
		Category:    "Honey",
		Price:       price("9.99"),
		Unit:        "jar",
		Image:       "https://images.unsplash.com/photo-1587049352851-8d4e89133924?auto=format&fit=crop&w=600&q=80",
		Organic:     true,
		Description: "Pure, unfiltered wildflower honey collected from local bee farms. Rich in flavor and natural enzymes.",
	},
	{
		ID:          6,
		Name:        "Fresh Basil",
		Category:    "Herbs",
		Price:       price("2.99"),
		Unit:        "bunch",
		Image:       "https://images.unsplash.com/photo-1618164436241-4473940d1f9c?auto=format&fit=crop&w=600&q=80",
		Organic:     true,
		Description: "Aromatic fresh basil with vibrant green leaves. Essential for Italian cooking, pesto, and summer salads.",
	},
	{
		ID:          7,
		Name:        "Whole Grain Bread",
		Category:    "Bread",
		Price:       price("5.49"),
		Unit:        "loaf",
		Image:       "https://images.unsplash.com/photo-1555507036-ab1f4038808a?auto=format&fit=crop&w=600&q=80",
		Description: "Freshly baked whole grain bread made with organic flour. Hearty and delicious with a perfect crust.",
	},
	{
		ID:          8,
		Name:        "Grass-Fed Beef",
		Category:    "Meat",
		Price:       price("12.99"),
		Unit:        "lb",
		Image:       "https://images.unsplash.com/photo-1551028150-64b9f398f678?auto=format&fit=crop&w=600&q=80",
		Badge:       badge(enums.ProductBadgePremium),
		Discount:    true,
		OldPrice:    oldPrice("15.99"),
		Description: "Ethically raised grass-fed beef from local farms. Lean, tender, and full of flavor without antibiotics or hormones.",
	},
	{
		ID:          9,
		Name:        "Organic Blueberries",
		Category:    "Fruits",
		Price:       price("6.99"),
		Unit:        "pint",
		Image:       "https://images.unsplash.com/photo-1498557850523-fd3d118b962e?auto=format&fit=crop&w=600&q=80",
		Organic:     true,
		Description: "Sweet, plump organic blueberries packed with antioxidants. Perfect for snacking, baking, or topping cereals and yogurt.",
	},
	{
		ID:          10,
		Name:        "Artisan Goat Cheese",
		Category:    "Dairy",
		Price:       price("8.49"),
		Unit:        "8oz",
		Image:       "https://images.unsplash.com/photo-1559561853-08451507cbe7?auto=format&fit=crop&w=600&q=80",
		Badge:       badge(enums.ProductBadgeLocal),
		Description: "Creamy, tangy goat cheese made in small batches from a local dairy farm. Delicious in salads or on crackers.",
	},
	{
		ID:          11,
		Name:        "Fresh Carrots",
		Category:    "Vegetables",
		Price:       price("2.99"),
		Unit:        "bunch",
		Image:       "https://images.unsplash.com/photo-1447175008436-054170c2e979?auto=format&fit=crop&w=600&q=80",
		Organic:     true,
		Discount:    true,
		OldPrice:    oldPrice("3.99"),
		Description: "Sweet and crunchy organic carrots with tops. Versatile for snacking, cooking, or juicing.",
	},
	{
		ID:          12,
		Name:        "Maple Syrup",
		Category:    "Pantry",
		Price:       price("14.99"),
		Unit:        "16oz",
		Image:       "https://images.unsplash.com/photo-1589496933738-f5c27eb03dd6?auto=format&fit=crop&w=600&q=80",
		Organic:     true,
		Description: "Pure maple syrup harvested and produced locally. Rich amber color with complex, sweet flavor perfect for breakfast.",
	},
}

var defaultCategories = []Category{
	{ID: 1, Name: "Vegetables", Count: 42, Image: "https://images.unsplash.com/photo-1598170845058-32b9d6a5da37?auto=format&fit=crop&w=600&q=80", Description: "Fresh, seasonal vegetables directly from our farm and trusted local growers."},
	{ID: 2, Name: "Fruits", Count: 36, Image: "https://images.unsplash.com/photo-1619566636858-adf3ef46400b?auto=format&fit=crop&w=600&q=80", Description: "Sweet, juicy fruits picked at peak ripeness for maximum flavor and nutrition."},
	{ID: 3, Name: "Dairy", Count: 28, Image: "https://images.unsplash.com/photo-1628088062854-d1870b4553da?auto=format&fit=crop&w=600&q=80", Description: "Farm-fresh milk, cheese, butter, and eggs from pasture-raised animals."},
	{ID: 4, Name: "Herbs", Count: 15, Image: "https://images.unsplash.com/photo-1515586000433-45406d8e6662?auto=format&fit=crop&w=600&q=80", Description: "Aromatic culinary and medicinal herbs, freshly harvested for maximum potency."},
	{ID: 5, Name: "Bread", Count: 22, Image: "https://images.unsplash.com/photo-1555507036-ab1f4038808a?auto=format&fit=crop&w=600&q=80", Description: "Artisanal breads baked daily using traditional methods and organic ingredients."},
	{ID: 6, Name: "Honey", Count: 18, Image: "https://images.unsplash.com/photo-1587049352851-8d4e89133924?auto=format&fit=crop&w=600&q=80", Description: "Pure, raw honey varieties collected from our own beehives and local apiaries."},
	{ID: 7, Name: "Meat", Count: 24, Image: "https://images.unsplash.com/photo-1551028150-64b9f398f678?auto=format&fit=crop&w=600&q=80", Description: "Ethically raised meats from animals that lived happy lives on pasture."},
	{ID: 8, Name: "Pantry", Count: 31, Image: "https://images.unsplash.com/photo-1584473457406-6240486418e9?auto=format&fit=crop&w=600&q=80", Description: "Essential staples and specialty items to stock your sustainable kitchen."},
}
