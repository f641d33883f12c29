// Package commerce adapts the external catalog and checkout services.
package commerce

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
)

// CatalogSource fetches the raw product catalog from the commerce service.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]catalog.Product, error)
}

// CheckoutCreator creates a hosted checkout for a resolved variant.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error)
}

type Attribute struct {
	Key   string
	Value string
}

// CheckoutParams is the handoff to the external checkout: the resolved
// variant, a quantity of one, custom attributes recording the raw seat
// count, and the deposit payment-plan identifier.
type CheckoutParams struct {
	VariantID     string
	Quantity      int
	Attributes    []Attribute
	PaymentPlanID string

	// Display context, used by providers that price the deposit directly.
	ProductName  string
	SeatCount    int
	DepositCents int64
	Currency     string
}

type Checkout struct {
	ID  string
	URL string
}

type Config struct {
	CatalogProvider      string
	CheckoutProvider     string
	StorefrontDomain     string
	StorefrontToken      string
	StorefrontCollection string
	StaticCatalogPath    string
	StripeSecretKey      string
	BaseURL              string
}

// NewCatalogSource selects the catalog backend.
func NewCatalogSource(cfg Config, logger *slog.Logger) (CatalogSource, error) {
	switch cfg.CatalogProvider {
	case "storefront", "":
		return NewStorefrontClient(cfg.StorefrontDomain, cfg.StorefrontToken, cfg.StorefrontCollection, logger)
	case "static":
		return NewStaticCatalog(cfg.StaticCatalogPath), nil
	default:
		return nil, fmt.Errorf("unsupported catalog provider: %s", cfg.CatalogProvider)
	}
}

// NewCheckoutCreator selects the checkout backend.
func NewCheckoutCreator(cfg Config, logger *slog.Logger) (CheckoutCreator, error) {
	switch cfg.CheckoutProvider {
	case "storefront", "":
		return NewStorefrontClient(cfg.StorefrontDomain, cfg.StorefrontToken, cfg.StorefrontCollection, logger)
	case "stripe":
		return NewStripeCheckout(cfg.StripeSecretKey, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported checkout provider: %s", cfg.CheckoutProvider)
	}
}
