package testutil

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// sessionClaims is the access token body the fake backend signs. UserID is
// carried as userId, the way the real API does.
type sessionClaims struct {
	gojwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newIssuer(ttl time.Duration) *issuer {
	return &issuer{secret: []byte(uuid.NewString()), ttl: ttl, now: time.Now}
}

func (i *issuer) access(u *user) (string, error) {
	now := i.now()
	claims := sessionClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: u.ID,
		Email:  u.Email,
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("testutil: sign token: %w", err)
	}
	return signed, nil
}

// refresh tokens are opaque; the backend keeps track of them itself.
func (i *issuer) refresh() string {
	return "rt-" + uuid.NewString()
}

func (i *issuer) verify(token string) (*sessionClaims, error) {
	var claims sessionClaims
	parsed, err := gojwt.ParseWithClaims(token, &claims, func(t *gojwt.Token) (any, error) {
		if t.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return i.secret, nil
	}, gojwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("testutil: hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
