package middleware

import (
	"net/http"

	"github.com/tuanvumaihuynh/catalog-admin/pkg/correlationid"
)

// CorrelationID reuses the caller's correlation id or creates one, stores it
// in the request context and echoes it in the response headers.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(correlationid.Header)
			if id == "" {
				id = correlationid.New()
			}

			w.Header().Set(correlationid.Header, id)
			next.ServeHTTP(w, r.WithContext(correlationid.NewContext(r.Context(), id)))
		})
	}
}
