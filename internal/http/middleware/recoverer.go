package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/tuanvumaihuynh/catalog-admin/internal/http/apierr"
)

// APIPrefix marks the JSON routes. Everything else is an HTML page.
const APIPrefix = "/api/"

// Recoverer turns a handler panic into a 500. API callers get the JSON error
// body, browsers get a plain text page.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	errorBody, err := json.Marshal(apierr.InternalServerErr)
	if err != nil {
		panic(err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler { //nolint:errorlint
					// client went away, let net/http abort the response
					panic(rvr)
				}

				log.ErrorContext(r.Context(), "panic",
					slog.Any("recover", rvr),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}

				if wantsJSON(r) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					//nolint:errcheck
					w.Write(errorBody)
					return
				}

				http.Error(w, apierr.InternalServerErr.Message, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, APIPrefix) ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
