package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders adiciona os headers de segurança padrão às respostas
func SecureHeaders(isDevelopment bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      isDevelopment,
	}).Handler
}
