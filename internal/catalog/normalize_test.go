package catalog

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	products := []Product{
		{
			ID:          "p-starter",
			Title:       "Starter",
			Description: "For small teams",
			Handle:      "starter-signature",
			Variants: []Variant{
				{ID: "v1", PriceCents: 80000, Currency: "USD"},
				{ID: "v2", PriceCents: 120000, Currency: "USD"},
			},
		},
		{
			ID:     "p-empty",
			Title:  "Unlisted",
			Handle: "unlisted",
		},
	}

	tiers, err := Normalize(products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(tiers))
	}
	if tiers[0].ID != "p-starter" || tiers[1].ID != "p-empty" {
		t.Errorf("source order not preserved: %s, %s", tiers[0].ID, tiers[1].ID)
	}
	if tiers[0].BasePriceCents != 80000 {
		t.Errorf("expected first-variant base price 80000, got %d", tiers[0].BasePriceCents)
	}
	if tiers[0].Currency != "USD" {
		t.Errorf("expected USD, got %q", tiers[0].Currency)
	}
	if tiers[1].BasePriceCents != 0 {
		t.Errorf("expected zero base price for variantless product, got %d", tiers[1].BasePriceCents)
	}
}

func TestNormalizeEmptyCatalog(t *testing.T) {
	t.Parallel()

	if _, err := Normalize(nil); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestParsePriceCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "800.0", want: 80000},
		{in: "1450.00", want: 145000},
		{in: "950", want: 95000},
		{in: "0.5", want: 50},
		{in: "12.345", want: 1234},
		{in: " 99.99 ", want: 9999},
		{in: "-10.25", want: -1025},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "12.x", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePriceCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
