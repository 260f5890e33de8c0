package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.vocdoni.io/dvote/log"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// preflightHandler answers every OPTIONS request with an empty 200 response.
// allowAnyOrigin has already set the CORS headers.
func preflightHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.WriteHeader(http.StatusOK)
}

// logStep logs one step of a request with the handler step prefix.
func logStep(step string, keyvalues ...any) {
	log.Infow(logPrefix+step, keyvalues...)
}

// requestID returns the identifier chi's RequestID middleware assigned to r.
func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
