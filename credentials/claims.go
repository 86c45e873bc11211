package credentials

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is what the CLI can read from an access token without the signing
// key.
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	gojwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
	AltID  string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// ParseClaims decodes token without verifying it. The user ID comes from
// userId, id or sub, in that order.
func ParseClaims(token string) (*Claims, error) {
	var tc tokenClaims
	if _, _, err := gojwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return nil, fmt.Errorf("credentials: parse token: %w", err)
	}

	c := &Claims{Email: tc.Email}
	switch {
	case tc.UserID != "":
		c.UserID = tc.UserID
	case tc.AltID != "":
		c.UserID = tc.AltID
	default:
		c.UserID = tc.Subject
	}
	if tc.IssuedAt != nil {
		c.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the token has an expiry at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Remaining is the time left before expiry, zero when expired or unknown.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt.IsZero() || c.Expired(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
