package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/quotedeskapp/quotedesk/internal/cache"
	"github.com/quotedeskapp/quotedesk/internal/catalog"
	"github.com/quotedeskapp/quotedesk/internal/logging"
	"github.com/quotedeskapp/quotedesk/internal/observability"
	"github.com/quotedeskapp/quotedesk/internal/quotetoken"
)

// ErrTierNotFound is returned when a selection references a tier that is not
// in the current catalog.
var ErrTierNotFound = errors.New("tier not found")

type catalogSource interface {
	FetchCatalog(ctx context.Context) ([]catalog.Product, error)
}

// PricingService owns the session's read-only catalog copy: it fetches and
// caches products, flattens them into tiers, and computes quotes.
type PricingService struct {
	source     catalogSource
	cache      cache.Provider
	cacheKey   string
	cacheTTL   time.Duration
	classifier *catalog.Classifier
	quoteCfg   catalog.QuoteConfig
	tokens     *quotetoken.Signer
	logger     *slog.Logger
}

func NewPricingService(source catalogSource, cacheProvider cache.Provider, cacheKey string, cacheTTL time.Duration, classifier *catalog.Classifier, quoteCfg catalog.QuoteConfig, tokens *quotetoken.Signer, logger *slog.Logger) *PricingService {
	return &PricingService{
		source:     source,
		cache:      cacheProvider,
		cacheKey:   cacheKey,
		cacheTTL:   cacheTTL,
		classifier: classifier,
		quoteCfg:   quoteCfg,
		tokens:     tokens,
		logger:     logger,
	}
}

func (s *PricingService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// TierView is a pricing tier together with its canonical label.
type TierView struct {
	catalog.PricingTier
	Label catalog.TierLabel `json:"label"`
}

// Products returns the raw catalog, serving from cache when possible. Fetch
// failures are surfaced to the caller; the UI degrades to an empty tier list
// with an error banner.
func (s *PricingService) Products(ctx context.Context) ([]catalog.Product, error) {
	logger := s.loggerFromContext(ctx)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cacheKey); err == nil {
			var products []catalog.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
			logger.Warn("failed to decode cached catalog, refetching", "key", s.cacheKey)
		}
	}

	products, err := s.source.FetchCatalog(ctx)
	if err != nil {
		observability.MeterFromContext(ctx).Count("catalog.fetch.failed", 1)
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, s.cacheKey, string(payload), s.cacheTTL); err != nil {
				logger.Warn("failed to cache catalog", "error", err, "key", s.cacheKey)
			}
		}
	}

	return products, nil
}

// Tiers returns the normalized, classified pricing tiers in catalog order.
func (s *PricingService) Tiers(ctx context.Context) ([]TierView, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	tiers, err := catalog.Normalize(products)
	if err != nil {
		return nil, err
	}

	views := make([]TierView, 0, len(tiers))
	for _, tier := range tiers {
		views = append(views, TierView{
			PricingTier: tier,
			Label:       s.classifier.Classify(tier),
		})
	}
	return views, nil
}

// ProductByID returns the raw product backing a tier.
func (s *PricingService) ProductByID(ctx context.Context, tierID string) (catalog.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	for _, product := range products {
		if product.ID == tierID {
			return product, nil
		}
	}
	return catalog.Product{}, fmt.Errorf("%w: %s", ErrTierNotFound, tierID)
}

// QuoteFor recomputes the quote for a product and seat count.
func (s *PricingService) QuoteFor(product catalog.Product, seats int) catalog.Quote {
	tier := catalog.TierFromProduct(product)
	return catalog.ComputeQuote(&tier, seats, s.quoteCfg)
}

// Quote computes the quote for a tier selection and returns it with a signed
// token binding the displayed price to a later checkout.
func (s *PricingService) Quote(ctx context.Context, tierID string, seats int) (catalog.Quote, string, error) {
	product, err := s.ProductByID(ctx, tierID)
	if err != nil {
		return catalog.Quote{}, "", err
	}

	quote := s.QuoteFor(product, seats)

	token, err := s.tokens.Sign(quote)
	if err != nil {
		return catalog.Quote{}, "", err
	}

	observability.MeterFromContext(ctx).Count("quote.computed", 1, sentry.WithAttributes(
		attribute.Bool("custom_quote", quote.CustomQuote),
	))

	return quote, token, nil
}
