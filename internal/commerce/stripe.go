package commerce

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v84"
)

// StripeCheckout charges the 50% deposit directly through Stripe Checkout
// instead of the storefront's payment plan. The remainder is invoiced
// manually per the payment-plan terms.
type StripeCheckout struct {
	client  *stripe.Client
	baseURL string
}

func NewStripeCheckout(secretKey, baseURL string) *StripeCheckout {
	return &StripeCheckout{
		client:  stripe.NewClient(secretKey),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *StripeCheckout) CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if params.VariantID == "" {
		return nil, fmt.Errorf("variant id is required")
	}
	if params.DepositCents <= 0 {
		// Custom quotes have no computed deposit; those are invoiced by
		// sales, never self-served through Stripe.
		return nil, fmt.Errorf("no deposit amount for variant %s: custom quotes are invoiced manually", params.VariantID)
	}

	currency := strings.ToLower(params.Currency)
	if currency == "" {
		currency = "usd"
	}

	name := params.ProductName
	if name == "" {
		name = "Project deposit"
	}

	metadata := map[string]string{
		"variant_id": params.VariantID,
		"seat_count": strconv.Itoa(params.SeatCount),
	}
	if params.PaymentPlanID != "" {
		metadata["payment_plan_id"] = params.PaymentPlanID
	}
	for _, attr := range params.Attributes {
		metadata[attr.Key] = attr.Value
	}

	sessionParams := &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(c.baseURL + "/?checkout=success"),
		CancelURL:          stripe.String(c.baseURL + "/?checkout=cancelled"),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Deposit: %s (%d users)", name, params.SeatCount)),
					},
					UnitAmount: stripe.Int64(params.DepositCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: metadata,
	}

	sess, err := c.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &Checkout{ID: sess.ID, URL: sess.URL}, nil
}
