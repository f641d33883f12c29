package catalog

// QuoteConfig carries the pricing constants that must stay in sync with the
// commerce catalog.
type QuoteConfig struct {
	PerSeatRateCents int64
	LargeOrderSeats  int
	DepositDueDays   int
}

// Quote is the derived price for a (tier, seat count) selection. When
// CustomQuote is set no numeric total applies and the UI shows "Custom Quote"
// instead of a number.
type Quote struct {
	TierID       string `json:"tier_id"`
	Seats        int    `json:"seats"`
	TotalCents   int64  `json:"total_cents"`
	DepositCents int64  `json:"deposit_cents"`
	CustomQuote  bool   `json:"custom_quote"`
	Currency     string `json:"currency,omitempty"`
	// DepositDueDays describes the payment plan: the remainder is due this
	// many days after checkout or at project completion, whichever first.
	DepositDueDays int `json:"deposit_due_days"`
}

// ComputeQuote derives the displayed price from the selected tier and seat
// count. Pure function of its inputs; recomputed on every selection change.
func ComputeQuote(tier *PricingTier, seats int, cfg QuoteConfig) Quote {
	if tier == nil {
		return Quote{Seats: seats}
	}

	quote := Quote{
		TierID:         tier.ID,
		Seats:          seats,
		Currency:       tier.Currency,
		DepositDueDays: cfg.DepositDueDays,
	}

	if seats > cfg.LargeOrderSeats {
		quote.CustomQuote = true
		return quote
	}

	quote.TotalCents = tier.BasePriceCents + cfg.PerSeatRateCents*int64(seats)
	quote.DepositCents = roundHalf(quote.TotalCents)
	return quote
}

// roundHalf returns total/2 rounded half away from zero.
func roundHalf(total int64) int64 {
	if total >= 0 {
		return (total + 1) / 2
	}
	return -((-total + 1) / 2)
}
