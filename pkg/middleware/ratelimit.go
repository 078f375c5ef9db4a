package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/vfg2006/venue-analytics-api/pkg/apiErrors"
)

// RateLimit limita requisições por IP numa janela de um minuto. Zero ou negativo desativa o limite.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			apiErrors.WriteError(w, apiErrors.ErrRateLimited, "Muitas requisições, tente novamente em instantes", nil)
		}),
	)
}
