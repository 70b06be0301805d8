package http

import (
	"net/http"

	"github.com/rs/cors"
)

// WithCORS lets browser clients on another origin call the API. An empty
// allowedOrigin accepts any origin.
func WithCORS(next http.Handler, allowedOrigin string) http.Handler {
	opts := cors.Options{
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}
	if allowedOrigin == "" {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = []string{allowedOrigin}
	}
	return cors.New(opts).Handler(next)
}
