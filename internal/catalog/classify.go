package catalog

import "strings"

// TierLabel is one of the three canonical tier names. Labels are a display
// and routing concept derived from catalog metadata, never stored.
type TierLabel string

const (
	TierStarter   TierLabel = "Starter"
	TierEssential TierLabel = "Essential"
	TierPremium   TierLabel = "Premium"
)

// PriceBands are the upper bounds (inclusive, in cents) of the price-based
// classification fallback. They must stay in sync with the commerce catalog.
type PriceBands struct {
	StarterMaxCents   int64
	EssentialMaxCents int64
}

// Rule matches a pricing tier to a canonical label. Rules are evaluated in
// order; the first match wins.
type Rule interface {
	Match(tier PricingTier) (TierLabel, bool)
}

// HandleRule matches well-known substrings in the product handle. Catalog
// metadata is the source of truth when present, so this rule runs first.
type HandleRule struct{}

func (HandleRule) Match(tier PricingTier) (TierLabel, bool) {
	if tier.Handle == "" {
		return "", false
	}
	return labelFromSubstrings(tier.Handle)
}

// IDRule applies the same substring checks to the lower-cased product ID.
type IDRule struct{}

func (IDRule) Match(tier PricingTier) (TierLabel, bool) {
	return labelFromSubstrings(tier.ID)
}

// NameRule matches an exact canonical display name.
type NameRule struct{}

func (NameRule) Match(tier PricingTier) (TierLabel, bool) {
	switch tier.Name {
	case string(TierStarter):
		return TierStarter, true
	case string(TierEssential):
		return TierEssential, true
	case string(TierPremium):
		return TierPremium, true
	}
	return "", false
}

// PriceBandRule is the last-resort heuristic for a misconfigured catalog
// entry. It always matches, which keeps classification total.
type PriceBandRule struct {
	Bands PriceBands
}

func (r PriceBandRule) Match(tier PricingTier) (TierLabel, bool) {
	switch {
	case tier.BasePriceCents <= r.Bands.StarterMaxCents:
		return TierStarter, true
	case tier.BasePriceCents <= r.Bands.EssentialMaxCents:
		return TierEssential, true
	default:
		return TierPremium, true
	}
}

func labelFromSubstrings(value string) (TierLabel, bool) {
	value = strings.ToLower(value)
	switch {
	case strings.Contains(value, "starter"):
		return TierStarter, true
	case strings.Contains(value, "custom"):
		return TierEssential, true
	case strings.Contains(value, "premium"):
		return TierPremium, true
	}
	return "", false
}

// Classifier maps a pricing tier onto a canonical label by evaluating an
// ordered rule chain. Classification is pure and total.
type Classifier struct {
	rules []Rule
}

func NewClassifier(bands PriceBands) *Classifier {
	return &Classifier{
		rules: []Rule{
			HandleRule{},
			IDRule{},
			NameRule{},
			PriceBandRule{Bands: bands},
		},
	}
}

func (c *Classifier) Classify(tier PricingTier) TierLabel {
	for _, rule := range c.rules {
		if label, ok := rule.Match(tier); ok {
			return label
		}
	}
	// Unreachable while PriceBandRule terminates the chain.
	return TierPremium
}

// ClassifyProduct classifies a raw product via its derived tier.
func (c *Classifier) ClassifyProduct(product Product) TierLabel {
	return c.Classify(TierFromProduct(product))
}
