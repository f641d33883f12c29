// Package quotetoken signs quotes so the checkout that confirms a quote
// cannot drift from the price that was displayed.
package quotetoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quotedeskapp/quotedesk/internal/catalog"
)

var (
	ErrInvalidToken = errors.New("invalid quote token")
	ErrQuoteChanged = errors.New("quote no longer matches")
)

const minSecretLength = 32

type Claims struct {
	TierID      string `json:"tier_id"`
	Seats       int    `json:"seats"`
	TotalCents  int64  `json:"total_cents"`
	CustomQuote bool   `json:"custom_quote"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HMAC-signed quote tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("quote token secret must be at least %d bytes", minSecretLength)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *Signer) Sign(quote catalog.Quote) (string, error) {
	now := s.now()
	claims := Claims{
		TierID:      quote.TierID,
		Seats:       quote.Seats,
		TotalCents:  quote.TotalCents,
		CustomQuote: quote.CustomQuote,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign quote token: %w", err)
	}
	return signed, nil
}

func (s *Signer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyMatches verifies the token and checks that it still describes the
// recomputed quote.
func (s *Signer) VerifyMatches(token string, quote catalog.Quote) error {
	claims, err := s.Verify(token)
	if err != nil {
		return err
	}
	if claims.TierID != quote.TierID || claims.Seats != quote.Seats {
		return fmt.Errorf("%w: selection differs", ErrQuoteChanged)
	}
	if claims.CustomQuote != quote.CustomQuote || claims.TotalCents != quote.TotalCents {
		return fmt.Errorf("%w: price differs", ErrQuoteChanged)
	}
	return nil
}
