package middleware

import (
	"context"
	"net/http"
	"strings"
)

// MethodOverrideField is the form field HTML forms use to send PUT and DELETE.
const MethodOverrideField = "_method"

type overriddenKey struct{}

// MethodOverride replaces the method of a POST form request with the method
// named by its _method field. Only PUT, PATCH and DELETE are accepted.
func MethodOverride() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || !isForm(r) {
				next.ServeHTTP(w, r)
				return
			}

			method := strings.ToUpper(r.PostFormValue(MethodOverrideField))
			switch method {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r = r.WithContext(context.WithValue(r.Context(), overriddenKey{}, r.Method))
				r.Method = method
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IsMethodOverridden reports whether the request method came from a form field.
func IsMethodOverridden(r *http.Request) bool {
	_, ok := r.Context().Value(overriddenKey{}).(string)
	return ok
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
