package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
	"github.com/quotedeskapp/quotedesk/internal/commerce"
	"github.com/quotedeskapp/quotedesk/internal/email"
	"github.com/quotedeskapp/quotedesk/internal/logging"
	"github.com/quotedeskapp/quotedesk/internal/observability"
	"github.com/quotedeskapp/quotedesk/internal/quotetoken"
)

// ReferenceAttribute names the cart attribute carrying our checkout reference.
const ReferenceAttribute = "quotedesk:reference"

type checkoutCreator interface {
	CreateCheckout(ctx context.Context, params commerce.CheckoutParams) (*commerce.Checkout, error)
}

// CheckoutService turns a confirmed tier selection into a provider checkout.
type CheckoutService struct {
	pricing       *PricingService
	creator       checkoutCreator
	resolver      *catalog.Resolver
	tokens        *quotetoken.Signer
	sender        email.Sender
	salesEmail    string
	paymentPlanID string
	logger        *slog.Logger
}

func NewCheckoutService(pricing *PricingService, creator checkoutCreator, resolver *catalog.Resolver, tokens *quotetoken.Signer, sender email.Sender, salesEmail, paymentPlanID string, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		pricing:       pricing,
		creator:       creator,
		resolver:      resolver,
		tokens:        tokens,
		sender:        sender,
		salesEmail:    salesEmail,
		paymentPlanID: paymentPlanID,
		logger:        logger,
	}
}

// CheckoutInput is a confirmed selection. QuoteToken is optional; when set,
// the recomputed quote must still match the one the token was issued for.
type CheckoutInput struct {
	TierID     string
	Seats      int
	QuoteToken string
}

type CheckoutResult struct {
	URL         string `json:"url"`
	Reference   string `json:"reference"`
	CustomQuote bool   `json:"custom_quote"`
}

// Create resolves the selection to a variant, builds the checkout with the
// seat count attached, and hands the visitor off to the provider.
func (s *CheckoutService) Create(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)

	span := sentry.StartSpan(ctx, "checkout.create")
	defer span.Finish()
	ctx = span.Context()

	if input.Seats < 1 {
		return nil, fmt.Errorf("seat count must be at least 1")
	}

	product, err := s.pricing.ProductByID(ctx, input.TierID)
	if err != nil {
		return nil, err
	}

	quote := s.pricing.QuoteFor(product, input.Seats)

	if input.QuoteToken != "" {
		if err := s.tokens.VerifyMatches(input.QuoteToken, quote); err != nil {
			meter.Count("checkout.quote.rejected", 1)
			return nil, err
		}
	}

	variantID, err := s.resolver.Resolve(product, input.Seats)
	if err != nil {
		if errors.Is(err, catalog.ErrNoVariant) {
			meter.Count("checkout.variant.missing", 1)
		}
		return nil, err
	}

	reference := uuid.NewString()
	params := commerce.CheckoutParams{
		VariantID: variantID,
		Quantity:  1,
		Attributes: []commerce.Attribute{
			commerce.SeatCountAttribute(input.Seats),
			{Key: ReferenceAttribute, Value: reference},
		},
		PaymentPlanID: s.paymentPlanID,
		ProductName:   product.Title,
		SeatCount:     input.Seats,
		DepositCents:  quote.DepositCents,
		Currency:      quote.Currency,
	}

	checkout, err := s.creator.CreateCheckout(ctx, params)
	if err != nil {
		meter.Count("checkout.session.failed", 1)
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}

	meter.Count("checkout.session.created", 1, sentry.WithAttributes(
		attribute.Bool("custom_quote", quote.CustomQuote),
		attribute.Int("seats", input.Seats),
	))
	logger.Info("checkout created",
		"reference", reference,
		"tier_id", input.TierID,
		"seats", input.Seats,
		"variant_id", variantID,
		"custom_quote", quote.CustomQuote)

	if quote.CustomQuote {
		s.notifySales(ctx, product, input.Seats, reference)
	}

	return &CheckoutResult{
		URL:         checkout.URL,
		Reference:   reference,
		CustomQuote: quote.CustomQuote,
	}, nil
}

// notifySales alerts the sales inbox about a large order so a custom quote
// can be prepared. Failures are logged, never surfaced to the visitor.
func (s *CheckoutService) notifySales(ctx context.Context, product catalog.Product, seats int, reference string) {
	if s.sender == nil || s.salesEmail == "" {
		return
	}

	logger := logging.FromContext(ctx, s.logger)
	err := s.sender.SendEmail(ctx, &email.Email{
		To:      s.salesEmail,
		Subject: fmt.Sprintf("Custom quote requested: %s for %d users", product.Title, seats),
		Text: fmt.Sprintf(
			"A visitor started checkout above the standard seat limit.\n\nTier: %s\nUsers: %d\nReference: %s\n\nFollow up with a custom quote.",
			product.Title, seats, reference),
	})
	if err != nil {
		logger.Error("failed to notify sales about custom quote", "error", err, "reference", reference)
		return
	}
	logger.Info("sales notified about custom quote", "reference", reference)
}
