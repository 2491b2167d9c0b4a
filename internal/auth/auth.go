package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// SecretHeaders are the headers probed for the shared secret, in order.
var SecretHeaders = []string{
	"X-Sentry-Token",
	"X-Sentry-Signature",
	"X-Sentry-Secret",
}

var (
	ErrMissingSecret = errors.New("Missing Sentry secret header.") // nolint:staticcheck
	ErrInvalidSecret = errors.New("Invalid Sentry secret.")        // nolint:staticcheck
)

// Verify checks the shared secret sent by Sentry. An empty secret accepts every request.
func Verify(secret string, h http.Header) error {
	if secret == "" {
		return nil
	}

	token := headerToken(h)
	if token == "" {
		return ErrMissingSecret
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		return ErrInvalidSecret
	}
	return nil
}

// headerToken returns the first non-empty value of SecretHeaders.
func headerToken(h http.Header) string {
	for _, name := range SecretHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}
