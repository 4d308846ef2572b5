package enums

import (
	"fmt"
	"strings"
)

// ProductBadge is the optional merchandising label shown on a product card.
type ProductBadge string

const (
	ProductBadgeSale    ProductBadge = "Sale"
	ProductBadgeNew     ProductBadge = "New"
	ProductBadgePremium ProductBadge = "Premium"
	ProductBadgeLocal   ProductBadge = "Local"
)

var validProductBadges = []ProductBadge{
	ProductBadgeSale,
	ProductBadgeNew,
	ProductBadgePremium,
	ProductBadgeLocal,
}

// String implements fmt.Stringer.
func (p ProductBadge) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductBadge.
func (p ProductBadge) IsValid() bool {
	for _, candidate := range validProductBadges {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductBadge converts raw input into a ProductBadge, ignoring case.
func ParseProductBadge(value string) (ProductBadge, error) {
	for _, candidate := range validProductBadges {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product badge %q", value)
}
