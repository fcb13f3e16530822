// Package tokens issues and verifies the signed session tokens handed out at
// login. Tokens are stateless: expiry is their only lifecycle bound.
package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = 60 * time.Minute

var ErrUnauthenticated = errors.New("unauthenticated")

type Config struct {
	Secret    []byte
	Algorithm string
	TTL       time.Duration
}

type AccessClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("tokens: empty signing secret")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("tokens: unsupported signing algorithm %q", alg)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Issuer{secret: secret, method: method, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the issuer reading time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

func (i *Issuer) Issue(userID uint) (string, error) {
	return i.IssueWithTTL(userID, i.ttl)
}

func (i *Issuer) IssueWithTTL(userID uint, ttl time.Duration) (string, error) {
	now := i.now()
	claims := AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

func (i *Issuer) Verify(tokenStr string) (uint, error) {
	if tokenStr == "" {
		return 0, fmt.Errorf("empty token: %w", ErrUnauthenticated)
	}

	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !tkn.Valid {
		return 0, fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	}
	if claims.UserID == 0 {
		return 0, fmt.Errorf("token has no user_id: %w", ErrUnauthenticated)
	}

	return claims.UserID, nil
}

// FromHeader extracts the token from an "Authorization: Bearer <token>" value.
func FromHeader(value string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("missing bearer scheme: %w", ErrUnauthenticated)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("empty bearer token: %w", ErrUnauthenticated)
	}
	return token, nil
}
