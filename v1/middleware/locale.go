package middleware

import (
	"net/http"

	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
)

// LocaleMiddleware negotiates the request locale and stores it in the context
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.FromRequest(r)
		w.Header().Set("Content-Language", string(locale))
		next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), locale)))
	})
}
