// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/profilely/internal/common"
)

// Tokens signs and verifies HMAC JWTs whose subject is the account email.
// Only the configured algorithm is accepted on the way back in.
type Tokens struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens for one of HS256, HS384 or HS512.
func NewTokens(secret []byte, algorithm string, ttl time.Duration) (*Tokens, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty secret")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	return &Tokens{secret: secret, method: method, ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime used by Issue.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for subject valid for the configured TTL.
func (t *Tokens) Issue(subject string) (string, error) {
	return t.IssueFor(subject, t.ttl)
}

// IssueFor signs a token for subject valid for ttl.
func (t *Tokens) IssueFor(subject string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(t.method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(t.now().Add(ttl)),
	})
	return token.SignedString(t.secret)
}

// Verify returns the subject of a valid token. Every failure, whatever the
// cause, is common.ErrInvalidCredential.
func (t *Tokens) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidCredential
	}
	return claims.Subject, nil
}
