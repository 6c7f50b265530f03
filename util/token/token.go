// Package token issues and verifies the signed bearer tokens shared by the
// auth and logbook services. A token is an HS256 JWT:
// base64(header) "." base64(claims) "." base64(HMAC-SHA256(secret, header "." claims)).
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissing = errors.New("no token provided")
	ErrInvalid = errors.New("invalid or expired token")
	ErrSecret  = errors.New("token secret is empty")
)

// Claims is the payload carried by a token.
type Claims struct {
	UserID string `json:"userId"`
	Rgno   int64  `json:"rgno"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs tokens with a fixed secret and lifetime.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. ttl is the distance between iat and exp.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue builds and signs a claim set for the given user.
func (i *Issuer) Issue(userID string, rgno int64, role string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrSecret
	}
	now := i.now().Truncate(time.Second)
	claims := Claims{
		UserID: userID,
		Rgno:   rgno,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks structure, signature and expiry, and returns the claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrSecret
	}
	if tokenString == "" {
		return nil, ErrMissing
	}
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		// exp is in whole seconds and stays valid through that second.
		jwt.WithLeeway(time.Second),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(i.now),
	)
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// FromHeader extracts the token from an "Authorization: Bearer <token>" value.
func FromHeader(value string) (string, error) {
	if value == "" {
		return "", ErrMissing
	}
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMissing
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", ErrMissing
	}
	return tok, nil
}
