package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Cors allows browser clients served from allowedOrigins to read the API.
// With no origins every cross-origin request is refused.
func Cors(allowedOrigins ...string) mux.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", DefaultRequestIDHeader},
		ExposedHeaders:   []string{DefaultRequestIDHeader, "X-Trace-Id"},
		AllowCredentials: true,
	})
	return c.Handler
}
