package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/lmittmann/tint"

	"github.com/quotedeskapp/quotedesk/internal/cache"
	"github.com/quotedeskapp/quotedesk/internal/catalog"
	"github.com/quotedeskapp/quotedesk/internal/commerce"
	"github.com/quotedeskapp/quotedesk/internal/config"
	"github.com/quotedeskapp/quotedesk/internal/email"
	"github.com/quotedeskapp/quotedesk/internal/handlers"
	"github.com/quotedeskapp/quotedesk/internal/logging"
	"github.com/quotedeskapp/quotedesk/internal/observability"
	"github.com/quotedeskapp/quotedesk/internal/quotetoken"
	"github.com/quotedeskapp/quotedesk/internal/services"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers

	sentryEnabled bool
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	sentryEnabled := strings.TrimSpace(cfg.SentryDSN) != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:           cfg.SentryDSN,
			EnableLogs:    true,
			EnableTracing: true,
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
	}

	logger := newLogger(cfg, sentryEnabled)

	if cfg.StorefrontDomain != "" {
		observability.AddTracePropagationTarget(cfg.StorefrontDomain)
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	commerceCfg := commerce.Config{
		CatalogProvider:      cfg.CatalogProvider,
		CheckoutProvider:     cfg.CheckoutProvider,
		StorefrontDomain:     cfg.StorefrontDomain,
		StorefrontToken:      cfg.StorefrontToken,
		StorefrontCollection: cfg.StorefrontCollection,
		StaticCatalogPath:    cfg.StaticCatalogPath,
		StripeSecretKey:      cfg.StripeSecretKey,
		BaseURL:              cfg.BaseURL,
	}

	catalogSource, err := commerce.NewCatalogSource(commerceCfg, logger.With("component", "catalog_source"))
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize catalog source: %w", err)
	}
	checkoutCreator, err := commerce.NewCheckoutCreator(commerceCfg, logger.With("component", "checkout_creator"))
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize checkout creator: %w", err)
	}

	signer, err := quotetoken.NewSigner(cfg.QuoteTokenSecret, cfg.QuoteTokenTTL)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize quote token signer: %w", err)
	}

	classifier := catalog.NewClassifier(catalog.PriceBands{
		StarterMaxCents:   cfg.StarterPriceBandCents,
		EssentialMaxCents: cfg.EssentialPriceBandCents,
	})
	resolver := catalog.NewResolver(classifier, catalog.ResolverConfig{
		LargeOrderSeats:   cfg.LargeOrderSeats,
		LargeOrderVariant: largeOrderVariants(cfg),
	})
	quoteCfg := catalog.QuoteConfig{
		PerSeatRateCents: cfg.PerSeatRateCents,
		LargeOrderSeats:  cfg.LargeOrderSeats,
		DepositDueDays:   cfg.DepositDueDays,
	}

	sender := email.NewSender(email.Config{
		ResendAPIKey: cfg.ResendAPIKey,
		From:         cfg.FromEmail,
	})

	cacheKey := cache.CatalogKey(cfg.CatalogProvider, cfg.StorefrontCollection)
	pricingService := services.NewPricingService(
		catalogSource,
		cacheProvider,
		cacheKey,
		cfg.CatalogCacheTTL,
		classifier,
		quoteCfg,
		signer,
		logger.With("component", "pricing_service"),
	)
	checkoutService := services.NewCheckoutService(
		pricingService,
		checkoutCreator,
		resolver,
		signer,
		sender,
		cfg.SalesEmail,
		cfg.PaymentPlanID,
		logger.With("component", "checkout_service"),
	)

	h, err := handlers.New(handlers.Dependencies{
		Config:          cfg,
		PricingService:  pricingService,
		CheckoutService: checkoutService,
		Logger:          logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		CacheProvider: cacheProvider,
		Handlers:      h,
		sentryEnabled: sentryEnabled,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

func largeOrderVariants(cfg *config.Config) map[catalog.TierLabel]string {
	variants := map[catalog.TierLabel]string{}
	if cfg.StarterLargeOrderVariantID != "" {
		variants[catalog.TierStarter] = cfg.StarterLargeOrderVariantID
	}
	if cfg.EssentialLargeOrderVariantID != "" {
		variants[catalog.TierEssential] = cfg.EssentialLargeOrderVariantID
	}
	if cfg.PremiumLargeOrderVariantID != "" {
		variants[catalog.TierPremium] = cfg.PremiumLargeOrderVariantID
	}
	return variants
}

func newLogger(cfg *config.Config, sentryEnabled bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		})
	}

	if sentryEnabled {
		sentryHandler := sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		}.NewSentryHandler(context.Background())
		return slog.New(logging.MultiHandler(handler, sentryHandler))
	}

	return slog.New(handler)
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
