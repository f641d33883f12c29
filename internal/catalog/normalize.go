package catalog

import "fmt"

// Normalize flattens catalog products into pricing tiers, preserving source
// order. The base price of a tier is the price of the product's first listed
// variant; a product with no variants gets a base price of zero.
//
// An empty product list is a recoverable error: callers surface it and keep
// serving with an empty tier list.
func Normalize(products []Product) ([]PricingTier, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	tiers := make([]PricingTier, 0, len(products))
	for _, product := range products {
		tiers = append(tiers, TierFromProduct(product))
	}
	return tiers, nil
}

// TierFromProduct builds the pricing tier for a single product.
func TierFromProduct(product Product) PricingTier {
	tier := PricingTier{
		ID:          product.ID,
		Name:        product.Title,
		Description: product.Description,
		Handle:      product.Handle,
	}
	if len(product.Variants) > 0 {
		tier.BasePriceCents = product.Variants[0].PriceCents
		tier.Currency = product.Variants[0].Currency
	}
	return tier
}
