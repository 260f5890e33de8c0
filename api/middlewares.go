package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/tipchef/backend/errors"
	"go.vocdoni.io/dvote/log"
)

// allowAnyOrigin attaches the permissive CORS headers to every response, also
// to requests without an Origin header that the cors middleware leaves alone.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Access-Control-Allow-Origin") == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Headers", strings.ToLower(strings.Join(corsAllowedHeaders, ", ")))
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a handler panic into the uniform JSON error response.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			log.Errorw(fmt.Errorf("%v", rvr), "panic serving "+r.Method+" "+r.URL.Path+"\n"+string(debug.Stack()))
			errors.ErrGenericInternalServerError.Write(w)
		}()
		next.ServeHTTP(w, r)
	})
}
