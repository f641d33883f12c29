package commerce

import "testing"

const staticCatalogFixture = `
products:
  - id: p-starter
    title: Starter
    description: For small teams
    handle: starter-signature
    variants:
      - id: v1
        title: 1 user
        price: "800.00"
        currency: USD
        available: true
        options:
          - name: User Count
            value: "1"
      - id: v5
        title: 5 users
        price: "1050.00"
        currency: USD
        available: true
        options:
          - name: User Count
            value: "5"
  - id: p-premium
    title: Premium
    handle: premium-signature
    variants:
      - id: v-premium-1
        title: 1 user
        price: "1800.00"
        currency: USD
        available: true
        options:
          - name: User Count
            value: "1"
`

func TestParseStaticCatalog(t *testing.T) {
	t.Parallel()

	products, err := ParseStaticCatalog([]byte(staticCatalogFixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "p-starter" {
		t.Errorf("source order not preserved: %s", products[0].ID)
	}
	if len(products[0].Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(products[0].Variants))
	}
	if products[0].Variants[1].PriceCents != 105000 {
		t.Errorf("expected 105000 cents, got %d", products[0].Variants[1].PriceCents)
	}
	if value, ok := products[0].Variants[1].Option("User Count"); !ok || value != "5" {
		t.Errorf("expected User Count 5, got %q", value)
	}
}

func TestParseStaticCatalogInvalidPrice(t *testing.T) {
	t.Parallel()

	_, err := ParseStaticCatalog([]byte(`
products:
  - id: p1
    title: Broken
    variants:
      - id: v1
        price: "not-a-price"
`))
	if err == nil {
		t.Fatal("expected error for invalid price")
	}
}

func TestParseStaticCatalogInvalidYAML(t *testing.T) {
	t.Parallel()

	if _, err := ParseStaticCatalog([]byte("products: [")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}
