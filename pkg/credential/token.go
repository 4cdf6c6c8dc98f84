package credential

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims mirrors the claims the booking API puts in its session tokens.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var ErrOpaqueToken = errors.New("token is not a JWT")

// Inspect decodes the claims of a JWT without verifying its signature.
// The server verifies; the client only needs to know who is signed in and until when.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrOpaqueToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

type expiringStore struct {
	Store
	now func() time.Time
}

// WithExpiry clears and hides a JWT whose exp claim has passed. Opaque tokens pass through.
func WithExpiry(store Store, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &expiringStore{Store: store, now: now}
}

func (s *expiringStore) Get() (string, bool) {
	token, ok := s.Store.Get()
	if !ok {
		return "", false
	}
	claims, err := Inspect(token)
	if err != nil {
		return token, true
	}
	if claims.ExpiresAt != nil && !s.now().Before(claims.ExpiresAt.Time) {
		_ = s.Store.Clear()
		return "", false
	}
	return token, true
}
