// Package session issues and checks opaque login sessions. Tokens are
// random, stored server side, and carried in a cookie signed with an
// HMAC so a client cannot mint or alter one.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const tokenPrefix = "sess-smla-"

var (
	ErrNoSession = errors.New("no active session")
	ErrBadCookie = errors.New("malformed or tampered session cookie")
)

type Store interface {
	Close() error

	Create(ctx context.Context, username string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 18)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

// Codec signs tokens for transport in a cookie and verifies them on the
// way back in. The secret comes from config, never from a literal.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) sign(token string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// Encode produces the cookie value: the token followed by its signature.
func (c *Codec) Encode(token string) string {
	return token + "." + c.sign(token)
}

// Decode verifies a cookie value and returns the embedded token.
func (c *Codec) Decode(value string) (string, error) {
	idx := strings.LastIndex(value, ".")
	if idx <= 0 || idx == len(value)-1 {
		return "", ErrBadCookie
	}

	token, sig := value[:idx], value[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(c.sign(token))) {
		return "", ErrBadCookie
	}
	return token, nil
}
