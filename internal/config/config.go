package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Commerce catalog and checkout providers.
	CatalogProvider      string `env:"CATALOG_PROVIDER" envDefault:"storefront" validate:"omitempty,oneof=storefront static"`
	CheckoutProvider     string `env:"CHECKOUT_PROVIDER" envDefault:"storefront" validate:"omitempty,oneof=storefront stripe"`
	StorefrontDomain     string `env:"STOREFRONT_DOMAIN" validate:"required_if=CatalogProvider storefront"`
	StorefrontToken      string `env:"STOREFRONT_ACCESS_TOKEN" validate:"required_if=CatalogProvider storefront"`
	StorefrontCollection string `env:"STOREFRONT_COLLECTION" envDefault:"pricing"`
	StaticCatalogPath    string `env:"STATIC_CATALOG_PATH" envDefault:"catalog.yaml"`
	StripeSecretKey      string `env:"STRIPE_SECRET_KEY" validate:"required_if=CheckoutProvider stripe"`

	// Pricing contract with the commerce catalog. These values mirror the
	// catalog's SKUs and selling plan and must stay in sync with it.
	PerSeatRateCents             int64  `env:"PER_SEAT_RATE_CENTS" envDefault:"5000" validate:"gt=0"`
	LargeOrderSeats              int    `env:"LARGE_ORDER_SEATS" envDefault:"50" validate:"gt=0"`
	StarterPriceBandCents        int64  `env:"STARTER_PRICE_BAND_CENTS" envDefault:"95000" validate:"gt=0"`
	EssentialPriceBandCents      int64  `env:"ESSENTIAL_PRICE_BAND_CENTS" envDefault:"145000" validate:"gtfield=StarterPriceBandCents"`
	StarterLargeOrderVariantID   string `env:"STARTER_LARGE_ORDER_VARIANT_ID"`
	EssentialLargeOrderVariantID string `env:"ESSENTIAL_LARGE_ORDER_VARIANT_ID"`
	PremiumLargeOrderVariantID   string `env:"PREMIUM_LARGE_ORDER_VARIANT_ID"`
	PaymentPlanID                string `env:"PAYMENT_PLAN_ID"`
	DepositDueDays               int    `env:"DEPOSIT_DUE_DAYS" envDefault:"20" validate:"gt=0"`

	// Quote tokens bind a displayed quote to the checkout that confirms it.
	QuoteTokenSecret string        `env:"QUOTE_TOKEN_SECRET,required" validate:"required,min=32"`
	QuoteTokenTTL    time.Duration `env:"QUOTE_TOKEN_TTL" envDefault:"30m"`

	CacheProvider         string        `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string        `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`
	CatalogCacheTTL       time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	// Sales notifications for custom-quote requests.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	SalesEmail   string `env:"SALES_EMAIL" validate:"omitempty,email"`
	FromEmail    string `env:"FROM_EMAIL" validate:"omitempty,email"`

	SentryDSN string `env:"SENTRY_DSN"`

	BaseURL   string     `env:"BASE_URL" validate:"omitempty,url"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	hasResendKey := strings.TrimSpace(c.ResendAPIKey) != ""
	hasSalesEmail := strings.TrimSpace(c.SalesEmail) != ""
	if hasResendKey != hasSalesEmail {
		return fmt.Errorf("RESEND_API_KEY and SALES_EMAIL must be set together")
	}
	if hasResendKey && strings.TrimSpace(c.FromEmail) == "" {
		return fmt.Errorf("FROM_EMAIL is required when sales notifications are enabled")
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Hostname() == "" {
			return fmt.Errorf("BASE_URL must be a valid absolute URL")
		}
		if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
			return fmt.Errorf("BASE_URL must use https outside local development")
		}
	}

	if c.CheckoutProvider == "stripe" && baseURL == "" {
		return fmt.Errorf("BASE_URL is required when the stripe checkout provider is enabled")
	}

	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
