package handlers

import (
	"errors"
	"net/http"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
	"github.com/quotedeskapp/quotedesk/internal/quotetoken"
	"github.com/quotedeskapp/quotedesk/internal/services"
)

type pricingResponse struct {
	Tiers []services.TierView `json:"tiers"`
	Error string              `json:"error,omitempty"`
}

// Pricing returns the classified tiers. A catalog outage degrades to an
// empty tier list with the error surfaced in the payload.
func (h *Handlers) Pricing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tiers, err := h.pricing.Tiers(ctx)
	if err != nil {
		h.loggerFromContext(ctx).Error("failed to load pricing tiers", "error", err)
		h.writeJSON(w, r, http.StatusOK, pricingResponse{
			Tiers: []services.TierView{},
			Error: "catalog temporarily unavailable",
		})
		return
	}

	h.writeJSON(w, r, http.StatusOK, pricingResponse{Tiers: tiers})
}

type quoteRequest struct {
	TierID string `json:"tier_id" validate:"required"`
	Seats  int    `json:"seats" validate:"required,min=1,max=10000"`
}

type quoteResponse struct {
	Quote catalog.Quote `json:"quote"`
	Token string        `json:"token"`
}

// Quote computes the price for a tier and seat count and returns it with a
// signed token the client echoes back at checkout.
func (h *Handlers) Quote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req quoteRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	quote, token, err := h.pricing.Quote(ctx, req.TierID, req.Seats)
	if err != nil {
		if errors.Is(err, services.ErrTierNotFound) {
			h.writeError(w, r, http.StatusNotFound, "unknown pricing tier")
			return
		}
		h.loggerFromContext(ctx).Error("failed to compute quote", "error", err, "tier_id", req.TierID)
		h.writeError(w, r, http.StatusBadGateway, "pricing temporarily unavailable")
		return
	}

	h.writeJSON(w, r, http.StatusOK, quoteResponse{Quote: quote, Token: token})
}

type checkoutRequest struct {
	TierID     string `json:"tier_id" validate:"required"`
	Seats      int    `json:"seats" validate:"required,min=1,max=10000"`
	QuoteToken string `json:"quote_token"`
}

// Checkout confirms a selection and responds with the provider checkout URL.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	var req checkoutRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.checkout.Create(ctx, services.CheckoutInput{
		TierID:     req.TierID,
		Seats:      req.Seats,
		QuoteToken: req.QuoteToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTierNotFound):
			h.writeError(w, r, http.StatusNotFound, "unknown pricing tier")
		case errors.Is(err, catalog.ErrNoVariant):
			h.writeError(w, r, http.StatusConflict, "tier cannot be purchased online")
		case errors.Is(err, quotetoken.ErrQuoteChanged):
			h.writeError(w, r, http.StatusConflict, "quote is out of date, please request a new one")
		case errors.Is(err, quotetoken.ErrInvalidToken):
			h.writeError(w, r, http.StatusBadRequest, "invalid quote token")
		default:
			logger.Error("failed to create checkout", "error", err, "tier_id", req.TierID, "seats", req.Seats)
			h.writeError(w, r, http.StatusBadGateway, "checkout temporarily unavailable, please try again")
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}
