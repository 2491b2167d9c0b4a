package azure

import (
	"net/http"
	"strings"
)

// AuthFunc applies authentication to an outgoing request.
type AuthFunc func(r *http.Request)

// NewPATAuth authenticates with a personal access token: basic auth with an empty username.
func NewPATAuth(pat string) AuthFunc {
	pat = strings.TrimSpace(pat)
	return func(r *http.Request) {
		r.SetBasicAuth("", pat)
	}
}
