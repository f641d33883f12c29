package catalog

import "testing"

func testQuoteConfig() QuoteConfig {
	return QuoteConfig{
		PerSeatRateCents: 5000,
		LargeOrderSeats:  50,
		DepositDueDays:   20,
	}
}

func TestComputeQuote(t *testing.T) {
	t.Parallel()

	tier := &PricingTier{ID: "p1", BasePriceCents: 80000, Currency: "USD"}

	tests := []struct {
		name        string
		tier        *PricingTier
		seats       int
		wantTotal   int64
		wantDeposit int64
		wantCustom  bool
	}{
		{
			name:        "single seat",
			tier:        tier,
			seats:       1,
			wantTotal:   85000,
			wantDeposit: 42500,
		},
		{
			name:        "threshold seats still priced",
			tier:        tier,
			seats:       50,
			wantTotal:   330000,
			wantDeposit: 165000,
		},
		{
			name:       "above threshold is a custom quote",
			tier:       tier,
			seats:      51,
			wantCustom: true,
		},
		{
			name:  "no tier selected",
			tier:  nil,
			seats: 10,
		},
		{
			name:        "odd total rounds deposit up",
			tier:        &PricingTier{ID: "p2", BasePriceCents: 101},
			seats:       1,
			wantTotal:   5101,
			wantDeposit: 2551,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			quote := ComputeQuote(tt.tier, tt.seats, testQuoteConfig())

			if quote.TotalCents != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, quote.TotalCents)
			}
			if quote.DepositCents != tt.wantDeposit {
				t.Errorf("expected deposit %d, got %d", tt.wantDeposit, quote.DepositCents)
			}
			if quote.CustomQuote != tt.wantCustom {
				t.Errorf("expected custom_quote=%v, got %v", tt.wantCustom, quote.CustomQuote)
			}
		})
	}
}

func TestComputeQuoteLinearInSeats(t *testing.T) {
	t.Parallel()

	cfg := testQuoteConfig()
	tier := &PricingTier{ID: "p1", BasePriceCents: 123400}

	for seats := 1; seats <= 50; seats++ {
		quote := ComputeQuote(tier, seats, cfg)
		wantTotal := tier.BasePriceCents + cfg.PerSeatRateCents*int64(seats)
		if quote.TotalCents != wantTotal {
			t.Fatalf("seats=%d: expected total %d, got %d", seats, wantTotal, quote.TotalCents)
		}
		wantDeposit := (wantTotal + 1) / 2
		if quote.DepositCents != wantDeposit {
			t.Fatalf("seats=%d: expected deposit %d, got %d", seats, wantDeposit, quote.DepositCents)
		}
		if quote.CustomQuote {
			t.Fatalf("seats=%d: unexpected custom quote", seats)
		}
	}
}

func TestComputeQuoteCarriesDepositDueDays(t *testing.T) {
	t.Parallel()

	quote := ComputeQuote(&PricingTier{ID: "p1"}, 2, testQuoteConfig())
	if quote.DepositDueDays != 20 {
		t.Errorf("expected deposit due days 20, got %d", quote.DepositDueDays)
	}
}
