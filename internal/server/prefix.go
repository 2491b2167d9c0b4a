package server

import "net/http"

// mountUnderPrefix serves h below prefix with the prefix stripped.
// Requests outside the prefix get 404.
func mountUnderPrefix(h http.Handler, prefix string) http.Handler {
	if prefix == "" {
		return h
	}
	mux := http.NewServeMux()
	mux.Handle(prefix+"/", http.StripPrefix(prefix, h))
	return mux
}
