package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/quotedeskapp/quotedesk/internal/config"
	"github.com/quotedeskapp/quotedesk/internal/logging"
	"github.com/quotedeskapp/quotedesk/internal/services"
	"github.com/quotedeskapp/quotedesk/ui/views"
)

const maxRequestBodyBytes = 1 << 16 // 64 KB

// Handlers provides the HTTP handlers for the pricing page and checkout API.
type Handlers struct {
	config   *config.Config
	pricing  *services.PricingService
	checkout *services.CheckoutService
	validate *validator.Validate
	logger   *slog.Logger
}

type Dependencies struct {
	Config          *config.Config
	PricingService  *services.PricingService
	CheckoutService *services.CheckoutService
	Logger          *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.PricingService == nil {
		return nil, fmt.Errorf("handlers dependencies: pricingService is required")
	}
	if deps.CheckoutService == nil {
		return nil, fmt.Errorf("handlers dependencies: checkoutService is required")
	}

	return &Handlers{
		config:   deps.Config,
		pricing:  deps.PricingService,
		checkout: deps.CheckoutService,
		validate: validator.New(),
		logger:   logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		logger.Error("failed to encode health response", "error", err)
	}
}

// Root renders the pricing page. A catalog outage degrades to an empty tier
// list with an error banner rather than failing the page.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	props := views.PricingPageProps{
		LargeOrderSeats: h.config.LargeOrderSeats,
		PerSeatCents:    h.config.PerSeatRateCents,
		DepositDueDays:  h.config.DepositDueDays,
	}

	tiers, err := h.pricing.Tiers(ctx)
	if err != nil {
		logger.Error("failed to load pricing tiers for page", "error", err)
		props.CatalogError = "Pricing is temporarily unavailable. Please try again shortly."
	} else {
		props.Tiers = tiers
	}

	if err := views.PricingPage(props).Render(ctx, w); err != nil {
		logger.Error("failed to render pricing page", "error", err)
		http.Error(w, "Failed to render pricing page", http.StatusInternalServerError)
	}
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			h.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid field: %s", validationErrs[0].Field()))
			return false
		}
		h.writeError(w, r, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, map[string]string{"error": message})
}
