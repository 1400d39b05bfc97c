// Package tokens issues and verifies the decision links embedded in reviewer
// emails. A token is scoped to one case and one action, expires, and can be
// redeemed exactly once, so a forwarded or replayed link cannot alter a case.
package tokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "clearway/pkg/domain"
	dErrors "clearway/pkg/domain-errors"
)

const issuer = "clearway"

// Claims are the JWT claims carried by a decision token.
type Claims struct {
	CaseID string `json:"case_id"`
	Action string `json:"action"`
	jwt.RegisteredClaims
}

// UsageStore records redeemed token IDs so each token is honored once.
// MarkUsed must be atomic: the first call for a jti succeeds, every later
// call reports already-used.
type UsageStore interface {
	MarkUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// Service signs and verifies decision tokens with a shared HMAC key.
type Service struct {
	signingKey []byte
	ttl        time.Duration
	used       UsageStore
}

// New creates a token service. The TTL bounds both the token expiry and how
// long redeemed IDs are remembered.
func New(signingKey string, ttl time.Duration, used UsageStore) *Service {
	if signingKey == "" {
		panic("tokens.New: signing key is required")
	}
	if used == nil {
		panic("tokens.New: usage store is required")
	}
	return &Service{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		used:       used,
	}
}

// Issue creates a signed token authorizing one action on one case.
func (s *Service) Issue(caseID id.CaseID, action string) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		CaseID: caseID.String(),
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        hex.EncodeToString(b),
		},
	})

	return token.SignedString(s.signingKey)
}

// Verify checks signature, expiry and scope, then burns the token. The
// single-use mark happens last so a token rejected for scope or expiry can
// still be diagnosed without being consumed.
func (s *Service) Verify(ctx context.Context, tokenString string, caseID id.CaseID, action string) error {
	if tokenString == "" {
		return dErrors.New(dErrors.CodeTokenInvalid, "decision token missing")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dErrors.New(dErrors.CodeTokenInvalid, "decision token expired")
		}
		return dErrors.New(dErrors.CodeTokenInvalid, "decision token invalid")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return dErrors.New(dErrors.CodeTokenInvalid, "decision token invalid")
	}

	if claims.CaseID != caseID.String() {
		return dErrors.New(dErrors.CodeTokenInvalid, "decision token issued for another case")
	}
	if claims.Action != action {
		return dErrors.New(dErrors.CodeTokenInvalid, "decision token issued for another action")
	}

	first, err := s.used.MarkUsed(ctx, claims.ID, s.ttl)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record token use")
	}
	if !first {
		return dErrors.New(dErrors.CodeTokenUsed, "decision token already used")
	}

	return nil
}
