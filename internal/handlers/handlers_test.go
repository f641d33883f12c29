package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
	"github.com/quotedeskapp/quotedesk/internal/commerce"
	"github.com/quotedeskapp/quotedesk/internal/config"
	"github.com/quotedeskapp/quotedesk/internal/quotetoken"
	"github.com/quotedeskapp/quotedesk/internal/services"
)

type fakeCatalogSource struct {
	products []catalog.Product
	err      error
}

func (f *fakeCatalogSource) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

type fakeCheckoutCreator struct {
	params *commerce.CheckoutParams
	err    error
}

func (f *fakeCheckoutCreator) CreateCheckout(ctx context.Context, params commerce.CheckoutParams) (*commerce.Checkout, error) {
	f.params = &params
	if f.err != nil {
		return nil, f.err
	}
	return &commerce.Checkout{ID: "chk_1", URL: "https://shop.example.com/checkout/chk_1"}, nil
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:     "p-starter",
			Title:  "Starter",
			Handle: "starter-plan",
			Variants: []catalog.Variant{
				{ID: "v1", PriceCents: 80000, Options: []catalog.VariantOption{{Name: catalog.UserCountOption, Value: "1"}}},
				{ID: "v10", PriceCents: 80000, Options: []catalog.VariantOption{{Name: catalog.UserCountOption, Value: "10"}}},
			},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		PerSeatRateCents:        5000,
		LargeOrderSeats:         50,
		StarterPriceBandCents:   95000,
		EssentialPriceBandCents: 145000,
		DepositDueDays:          20,
		Port:                    "8080",
	}
}

func newTestHandlers(t *testing.T, source *fakeCatalogSource, creator *fakeCheckoutCreator) *Handlers {
	t.Helper()

	cfg := testConfig()
	signer, err := quotetoken.NewSigner(strings.Repeat("h", 32), 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	classifier := catalog.NewClassifier(catalog.PriceBands{
		StarterMaxCents:   cfg.StarterPriceBandCents,
		EssentialMaxCents: cfg.EssentialPriceBandCents,
	})
	resolver := catalog.NewResolver(classifier, catalog.ResolverConfig{LargeOrderSeats: cfg.LargeOrderSeats})
	quoteCfg := catalog.QuoteConfig{
		PerSeatRateCents: cfg.PerSeatRateCents,
		LargeOrderSeats:  cfg.LargeOrderSeats,
		DepositDueDays:   cfg.DepositDueDays,
	}

	pricing := services.NewPricingService(source, nil, "catalog:test", time.Minute, classifier, quoteCfg, signer, nil)
	checkout := services.NewCheckoutService(pricing, creator, resolver, signer, nil, "", "plan-deposit", nil)

	h, err := New(Dependencies{
		Config:          cfg,
		PricingService:  pricing,
		CheckoutService: checkout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return h
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, &fakeCheckoutCreator{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("unexpected health payload: %v", body)
	}
}

func TestPricingReturnsTiers(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, &fakeCheckoutCreator{})

	rec := httptest.NewRecorder()
	h.Pricing(rec, httptest.NewRequest(http.MethodGet, "/api/pricing", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Tiers []services.TierView `json:"tiers"`
		Error string              `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body.Tiers) != 1 || body.Tiers[0].Label != catalog.TierStarter {
		t.Errorf("unexpected tiers: %+v", body.Tiers)
	}
	if body.Error != "" {
		t.Errorf("unexpected error in payload: %s", body.Error)
	}
}

func TestPricingDegradesOnCatalogOutage(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeCatalogSource{err: errors.New("storefront down")}, &fakeCheckoutCreator{})

	rec := httptest.NewRecorder()
	h.Pricing(rec, httptest.NewRequest(http.MethodGet, "/api/pricing", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected a degraded 200, got %d", rec.Code)
	}
	var body struct {
		Tiers []services.TierView `json:"tiers"`
		Error string              `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body.Tiers) != 0 {
		t.Errorf("expected no tiers, got %+v", body.Tiers)
	}
	if body.Error == "" {
		t.Error("expected the outage surfaced in the payload")
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, &fakeCheckoutCreator{})

	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(`{"tier_id":"p-starter","seats":10}`))
	rec := httptest.NewRecorder()
	h.Quote(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Quote catalog.Quote `json:"quote"`
		Token string        `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Quote.TotalCents != 130000 || body.Quote.DepositCents != 65000 {
		t.Errorf("unexpected quote: %+v", body.Quote)
	}
	if body.Token == "" {
		t.Error("expected a quote token")
	}
}

func TestQuoteValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing tier", body: `{"seats":10}`, want: http.StatusBadRequest},
		{name: "zero seats", body: `{"tier_id":"p-starter","seats":0}`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"tier_id":"p-starter","seats":1,"extra":true}`, want: http.StatusBadRequest},
		{name: "malformed json", body: `{"tier_id":`, want: http.StatusBadRequest},
		{name: "unknown tier", body: `{"tier_id":"p-missing","seats":5}`, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, &fakeCheckoutCreator{})
			req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Quote(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	creator := &fakeCheckoutCreator{}
	h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, creator)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"tier_id":"p-starter","seats":10}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body services.CheckoutResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.URL != "https://shop.example.com/checkout/chk_1" {
		t.Errorf("unexpected checkout URL: %s", body.URL)
	}
	if creator.params == nil || creator.params.VariantID != "v10" {
		t.Errorf("unexpected checkout params: %+v", creator.params)
	}
}

func TestCheckoutStaleQuoteConflict(t *testing.T) {
	t.Parallel()

	creator := &fakeCheckoutCreator{}
	h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, creator)

	signer, err := quotetoken.NewSigner(strings.Repeat("h", 32), 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := signer.Sign(catalog.Quote{TierID: "p-starter", Seats: 10, TotalCents: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(`{"tier_id":"p-starter","seats":10,"quote_token":"`+token+`"}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if creator.params != nil {
		t.Error("checkout must not reach the provider for a stale quote")
	}
}

func TestCheckoutNoVariantConflict(t *testing.T) {
	t.Parallel()

	source := &fakeCatalogSource{products: []catalog.Product{{ID: "p-empty", Title: "Empty"}}}
	h := newTestHandlers(t, source, &fakeCheckoutCreator{})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"tier_id":"p-empty","seats":5}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutProviderFailure(t *testing.T) {
	t.Parallel()

	creator := &fakeCheckoutCreator{err: errors.New("cart create rejected")}
	h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, creator)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"tier_id":"p-starter","seats":10}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRootRendersDegradedPage(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeCatalogSource{err: errors.New("storefront down")}, &fakeCheckoutCreator{})

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "temporarily unavailable") {
		t.Error("expected the outage banner on the page")
	}
}

func TestRootRendersTiers(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, &fakeCatalogSource{products: testProducts()}, &fakeCheckoutCreator{})

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "Starter") || !strings.Contains(page, `data-tier-id="p-starter"`) {
		t.Error("expected the starter tier card on the page")
	}
}
