package handler

import "net/http"

// Live serves GET /live for liveness probes.
func Live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
