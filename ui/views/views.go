// Package views renders the public pages. Components are hand-built templ
// components so handlers can treat pages uniformly.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
	"github.com/quotedeskapp/quotedesk/internal/services"
)

type PricingPageProps struct {
	Tiers           []services.TierView
	CatalogError    string
	LargeOrderSeats int
	PerSeatCents    int64
	DepositDueDays  int
}

// PricingPage is the marketing pricing page: one card per tier, a seat-count
// selector, and the checkout call to action.
func PricingPage(props PricingPageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		writePageHead(&b, "Pricing")
		b.WriteString(`<main class="mx-auto max-w-5xl px-4 py-12">`)
		b.WriteString(`<h1 class="text-3xl font-bold text-center">Simple pricing for every team</h1>`)
		fmt.Fprintf(&b, `<p class="mt-2 text-center text-gray-600">%s per user. Half up front, the rest due in %d days.</p>`,
			templ.EscapeString(formatCents(props.PerSeatCents, "")), props.DepositDueDays)

		if props.CatalogError != "" {
			fmt.Fprintf(&b, `<div class="mt-8 rounded-md bg-red-50 p-4 text-red-700" role="alert">%s</div>`,
				templ.EscapeString(props.CatalogError))
		}

		b.WriteString(`<div class="mt-10 grid gap-6 md:grid-cols-3">`)
		for _, tier := range props.Tiers {
			writeTierCard(&b, tier)
		}
		b.WriteString(`</div>`)

		fmt.Fprintf(&b, `<p class="mt-8 text-center text-sm text-gray-500">Need more than %d users? Start checkout and our sales team will prepare a custom quote.</p>`,
			props.LargeOrderSeats)
		b.WriteString(`</main>`)
		fmt.Fprintf(&b, `<script>window.quotedesk = {largeOrderSeats: %d, perSeatCents: %d};</script>`,
			props.LargeOrderSeats, props.PerSeatCents)
		b.WriteString(`<script src="/assets/js/pricing.js"></script>`)
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeTierCard(b *strings.Builder, tier services.TierView) {
	cardClass := twmerge.Merge("rounded-xl border border-gray-200 bg-white p-6 shadow-sm", highlightClass(tier.Label))

	fmt.Fprintf(b, `<section class="%s" data-tier-id="%s" data-base-cents="%d">`,
		cardClass, templ.EscapeString(tier.ID), tier.BasePriceCents)
	fmt.Fprintf(b, `<h2 class="text-xl font-semibold">%s</h2>`, templ.EscapeString(tier.Name))
	fmt.Fprintf(b, `<p class="text-sm uppercase tracking-wide text-gray-500">%s</p>`, templ.EscapeString(string(tier.Label)))
	if tier.Description != "" {
		fmt.Fprintf(b, `<p class="mt-2 text-gray-600">%s</p>`, templ.EscapeString(tier.Description))
	}
	fmt.Fprintf(b, `<p class="mt-4 text-3xl font-bold">%s<span class="text-base font-normal text-gray-500"> base</span></p>`,
		templ.EscapeString(formatCents(tier.BasePriceCents, tier.Currency)))

	b.WriteString(`<label class="mt-4 block text-sm text-gray-700">Users`)
	fmt.Fprintf(b, `<input type="number" min="1" value="1" class="mt-1 w-full rounded-md border-gray-300" data-seats-for="%s">`,
		templ.EscapeString(tier.ID))
	b.WriteString(`</label>`)
	fmt.Fprintf(b, `<p class="mt-2 text-sm text-gray-600" data-quote-for="%s"></p>`, templ.EscapeString(tier.ID))
	fmt.Fprintf(b, `<button type="button" class="mt-4 w-full rounded-md bg-indigo-600 px-4 py-2 font-medium text-white hover:bg-indigo-500" data-checkout-for="%s">Get started</button>`,
		templ.EscapeString(tier.ID))
	b.WriteString(`</section>`)
}

func highlightClass(label catalog.TierLabel) string {
	if label == catalog.TierEssential {
		return "border-indigo-500 border-2"
	}
	return ""
}

// NotFoundPage renders the 404 page.
func NotFoundPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writePageHead(&b, "Page not found")
		b.WriteString(`<main class="mx-auto max-w-xl px-4 py-24 text-center">`)
		b.WriteString(`<h1 class="text-4xl font-bold">404</h1>`)
		b.WriteString(`<p class="mt-4 text-gray-600">That page does not exist.</p>`)
		b.WriteString(`<a href="/" class="mt-6 inline-block text-indigo-600 hover:underline">Back to pricing</a>`)
		b.WriteString(`</main></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writePageHead(b *strings.Builder, title string) {
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	fmt.Fprintf(b, `<title>%s | QuoteDesk</title>`, templ.EscapeString(title))
	b.WriteString(`<link rel="stylesheet" href="/assets/css/app.css">`)
	b.WriteString(`</head><body class="bg-gray-50 text-gray-900">`)
}

func formatCents(cents int64, currency string) string {
	symbol := "$"
	if currency != "" && !strings.EqualFold(currency, "USD") {
		symbol = currency + " "
	}
	if cents%100 == 0 {
		return fmt.Sprintf("%s%d", symbol, cents/100)
	}
	return fmt.Sprintf("%s%d.%02d", symbol, cents/100, cents%100)
}
