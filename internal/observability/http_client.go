package observability

import (
	"net/http"
	"sync"
	"time"

	sentryhttpclient "github.com/getsentry/sentry-go/httpclient"
)

var (
	targetsMu               sync.Mutex
	tracePropagationTargets = []string{
		"api.stripe.com",
	}
)

// AddTracePropagationTarget registers an outbound host (the storefront
// domain) for trace propagation. Called once during wiring.
func AddTracePropagationTarget(host string) {
	if host == "" {
		return
	}
	targetsMu.Lock()
	defer targetsMu.Unlock()
	tracePropagationTargets = append(tracePropagationTargets, host)
}

func WrapRoundTripper(base http.RoundTripper) http.RoundTripper {
	targetsMu.Lock()
	targets := append([]string(nil), tracePropagationTargets...)
	targetsMu.Unlock()
	return sentryhttpclient.NewSentryRoundTripper(
		base,
		sentryhttpclient.WithTracePropagationTargets(targets),
	)
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{
		Transport: WrapRoundTripper(http.DefaultTransport),
	}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return client
}
