package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoVariant is returned when a product has no variants at all. Resolution
// must fail loudly here: checkout may not proceed with a guessed SKU.
var ErrNoVariant = errors.New("no variant available")

// ResolverConfig carries the large-order contract with the commerce catalog:
// above LargeOrderSeats the resolver bypasses option matching and returns the
// fixed custom-quote variant for the product's label.
type ResolverConfig struct {
	LargeOrderSeats   int
	LargeOrderVariant map[TierLabel]string
}

// Resolver selects the purchasable variant for a (product, seat count) pair.
// It never mutates catalog state and is deterministic over any product with
// at least one variant.
type Resolver struct {
	classifier *Classifier
	cfg        ResolverConfig
}

func NewResolver(classifier *Classifier, cfg ResolverConfig) *Resolver {
	return &Resolver{classifier: classifier, cfg: cfg}
}

// Resolve returns the variant ID to check out, in strict rule order:
//
//  1. Large orders map to the fixed custom-quote variant for the product's
//     classified label, regardless of option data.
//  2. Exact "User Count" string match, first in source order.
//  3. Greatest parseable "User Count" that is <= seats; ties keep the first
//     qualifying variant in source order.
//  4. The product's first variant.
//
// A product with zero variants fails with ErrNoVariant.
func (r *Resolver) Resolve(product Product, seats int) (string, error) {
	if len(product.Variants) == 0 {
		return "", fmt.Errorf("product %s: %w", product.ID, ErrNoVariant)
	}

	if seats > r.cfg.LargeOrderSeats {
		label := r.classifier.ClassifyProduct(product)
		if id, ok := r.cfg.LargeOrderVariant[label]; ok && id != "" {
			return id, nil
		}
		return product.Variants[0].ID, nil
	}

	want := strconv.Itoa(seats)
	for _, variant := range product.Variants {
		if value, ok := variant.Option(UserCountOption); ok && strings.TrimSpace(value) == want {
			return variant.ID, nil
		}
	}

	// Closest match below: greatest count <= seats. A strictly-greater
	// comparison keeps the first variant in source order on equal counts.
	bestID := ""
	bestCount := -1
	for _, variant := range product.Variants {
		value, ok := variant.Option(UserCountOption)
		if !ok {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		if count <= seats && count > bestCount {
			bestCount = count
			bestID = variant.ID
		}
	}
	if bestID != "" {
		return bestID, nil
	}

	return product.Variants[0].ID, nil
}
