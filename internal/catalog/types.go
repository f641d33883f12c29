package catalog

// Package catalog holds the pricing domain: tiers, variants, classification,
// variant resolution, and quote computation.

import (
	"fmt"
	"strconv"
	"strings"
)

// UserCountOption is the variant option that carries the seat count in the
// commerce catalog. The name is part of the contract with the storefront.
const UserCountOption = "User Count"

type VariantOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Variant struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	PriceCents int64           `json:"price_cents"`
	Currency   string          `json:"currency"`
	Available  bool            `json:"available"`
	Options    []VariantOption `json:"options"`
}

// Option returns the value of the named option, if present.
func (v Variant) Option(name string) (string, bool) {
	for _, opt := range v.Options {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return "", false
}

// Product is a read-only copy of a catalog product as delivered by the
// commerce service. Variant order follows the source payload.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Handle      string    `json:"handle"`
	Variants    []Variant `json:"variants"`
}

// PricingTier is the flattened, display-ready form of a Product. One tier per
// product; the tier ID is the source product ID.
type PricingTier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Handle         string `json:"handle"`
	BasePriceCents int64  `json:"base_price_cents"`
	Currency       string `json:"currency"`
}

// ParsePriceCents parses a decimal price string such as "800.0" or "1450.00"
// into cents. Fractional digits beyond two are truncated.
func ParsePriceCents(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty price")
	}

	negative := strings.HasPrefix(value, "-")
	if negative {
		value = value[1:]
	}

	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	cents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", value, err)
	}
	cents *= 100

	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		fracCents, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q: %w", value, err)
		}
		cents += fracCents
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}
