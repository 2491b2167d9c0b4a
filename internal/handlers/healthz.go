package handlers

import "net/http"

// Healthz reports liveness. It does not check Azure DevOps.
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	}
}
