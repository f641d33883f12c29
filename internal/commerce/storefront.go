package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
	"github.com/quotedeskapp/quotedesk/internal/observability"
)

// ErrCollectionNotFound is returned when the configured collection does not
// exist in the storefront. Callers treat it as a recoverable catalog error.
var ErrCollectionNotFound = fmt.Errorf("collection not found")

const storefrontAPIVersion = "2024-07"

// StorefrontClient talks to a Shopify-style storefront GraphQL API for both
// catalog queries and cart creation.
type StorefrontClient struct {
	endpoint   string
	token      string
	collection string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewStorefrontClient(domain, token, collection string, logger *slog.Logger) (*StorefrontClient, error) {
	if domain == "" {
		return nil, fmt.Errorf("storefront domain is required")
	}
	if token == "" {
		return nil, fmt.Errorf("storefront access token is required")
	}
	endpoint := fmt.Sprintf("https://%s/api/%s/graphql.json", domain, storefrontAPIVersion)
	return NewStorefrontClientWithEndpoint(endpoint, token, collection, logger), nil
}

// NewStorefrontClientWithEndpoint is used by tests to point the client at a
// local server.
func NewStorefrontClientWithEndpoint(endpoint, token, collection string, logger *slog.Logger) *StorefrontClient {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StorefrontClient{
		endpoint:   endpoint,
		token:      token,
		collection: collection,
		httpClient: observability.NewHTTPClient(15 * time.Second),
		logger:     logger,
	}
}

const collectionQuery = `query PricingCollection($handle: String!) {
  collection(handle: $handle) {
    products(first: 20) {
      nodes {
        id
        title
        description
        handle
        variants(first: 100) {
          nodes {
            id
            title
            availableForSale
            price { amount currencyCode }
            selectedOptions { name value }
          }
        }
      }
    }
  }
}`

const cartCreateMutation = `mutation CreateCart($input: CartInput!) {
  cartCreate(input: $input) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type selectedOptionNode struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type variantNode struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	AvailableForSale bool                 `json:"availableForSale"`
	Price            moneyNode            `json:"price"`
	SelectedOptions  []selectedOptionNode `json:"selectedOptions"`
}

type productNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Handle      string `json:"handle"`
	Variants    struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"variants"`
}

type collectionResponse struct {
	Data struct {
		Collection *struct {
			Products struct {
				Nodes []productNode `json:"nodes"`
			} `json:"products"`
		} `json:"collection"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type cartCreateResponse struct {
	Data struct {
		CartCreate struct {
			Cart *struct {
				ID          string `json:"id"`
				CheckoutURL string `json:"checkoutUrl"`
			} `json:"cart"`
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"cartCreate"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// FetchCatalog queries the configured collection and converts its products
// into the read-only session copy used by pricing and resolution.
func (c *StorefrontClient) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	var decoded collectionResponse
	err := c.execute(ctx, graphqlRequest{
		Query:     collectionQuery,
		Variables: map[string]any{"handle": c.collection},
	}, &decoded)
	if err != nil {
		return nil, err
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("storefront query failed: %s", decoded.Errors[0].Message)
	}
	if decoded.Data.Collection == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, c.collection)
	}

	nodes := decoded.Data.Collection.Products.Nodes
	products := make([]catalog.Product, 0, len(nodes))
	for _, node := range nodes {
		product, err := convertProduct(node)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// CreateCheckout creates a cart with the resolved variant, the seat-count
// attributes, and the deposit selling plan, returning its checkout URL.
func (c *StorefrontClient) CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error) {
	if params.VariantID == "" {
		return nil, fmt.Errorf("variant id is required")
	}
	quantity := params.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	attributes := make([]map[string]string, 0, len(params.Attributes))
	for _, attr := range params.Attributes {
		attributes = append(attributes, map[string]string{"key": attr.Key, "value": attr.Value})
	}

	line := map[string]any{
		"merchandiseId": params.VariantID,
		"quantity":      quantity,
	}
	if len(attributes) > 0 {
		line["attributes"] = attributes
	}
	if params.PaymentPlanID != "" {
		line["sellingPlanId"] = params.PaymentPlanID
	}

	var decoded cartCreateResponse
	err := c.execute(ctx, graphqlRequest{
		Query: cartCreateMutation,
		Variables: map[string]any{
			"input": map[string]any{
				"lines": []map[string]any{line},
			},
		},
	}, &decoded)
	if err != nil {
		return nil, err
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("cart creation failed: %s", decoded.Errors[0].Message)
	}
	if userErrors := decoded.Data.CartCreate.UserErrors; len(userErrors) > 0 {
		return nil, fmt.Errorf("cart creation rejected: %s", userErrors[0].Message)
	}
	cart := decoded.Data.CartCreate.Cart
	if cart == nil || cart.CheckoutURL == "" {
		return nil, fmt.Errorf("cart creation returned no checkout URL")
	}

	return &Checkout{ID: cart.ID, URL: cart.CheckoutURL}, nil
}

func (c *StorefrontClient) execute(ctx context.Context, request graphqlRequest, out any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode storefront request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build storefront request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storefront returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode storefront response: %w", err)
	}
	return nil
}

func convertProduct(node productNode) (catalog.Product, error) {
	product := catalog.Product{
		ID:          node.ID,
		Title:       node.Title,
		Description: node.Description,
		Handle:      node.Handle,
	}

	for i, variant := range node.Variants.Nodes {
		priceCents, err := catalog.ParsePriceCents(variant.Price.Amount)
		if err != nil {
			return catalog.Product{}, fmt.Errorf("product %s variant %d: %w", node.ID, i, err)
		}

		options := make([]catalog.VariantOption, 0, len(variant.SelectedOptions))
		for _, opt := range variant.SelectedOptions {
			options = append(options, catalog.VariantOption{Name: opt.Name, Value: opt.Value})
		}

		product.Variants = append(product.Variants, catalog.Variant{
			ID:         variant.ID,
			Title:      variant.Title,
			PriceCents: priceCents,
			Currency:   variant.Price.CurrencyCode,
			Available:  variant.AvailableForSale,
			Options:    options,
		})
	}

	return product, nil
}

// SeatCountAttribute formats the raw seat count for cart attributes.
func SeatCountAttribute(seats int) Attribute {
	return Attribute{Key: catalog.UserCountOption, Value: strconv.Itoa(seats)}
}
