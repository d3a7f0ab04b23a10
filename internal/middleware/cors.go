package middleware

import (
	"net/http"
)

const (
	HeaderOrigin        = "Origin"
	HeaderVary          = "Vary"
	HeaderAllowOrigin   = "Access-Control-Allow-Origin"
	HeaderAllowMethods  = "Access-Control-Allow-Methods"
	HeaderAllowHeaders  = "Access-Control-Allow-Headers"
	HeaderAllowCreds    = "Access-Control-Allow-Credentials"
	HeaderMaxAge        = "Access-Control-Max-Age"
	HeaderRequestMethod = "Access-Control-Request-Method"
	HeaderRequestHeader = "Access-Control-Request-Headers"

	AllowedMethods  = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"
	preflightMaxAge = "600"
)

// CORS permits any cross-origin caller, credentials included. A request that
// carries an Origin gets it echoed back instead of the wildcard.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get(HeaderOrigin)
		if origin == "" {
			w.Header().Set(HeaderAllowOrigin, "*")
		} else {
			w.Header().Set(HeaderAllowOrigin, origin)
			w.Header().Set(HeaderAllowCreds, "true")
			w.Header().Add(HeaderVary, HeaderOrigin)
		}

		if r.Method == http.MethodOptions && r.Header.Get(HeaderRequestMethod) != "" {
			w.Header().Set(HeaderAllowMethods, AllowedMethods)
			if reqHeaders := r.Header.Get(HeaderRequestHeader); reqHeaders != "" {
				w.Header().Set(HeaderAllowHeaders, reqHeaders)
			}
			w.Header().Set(HeaderMaxAge, preflightMaxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
