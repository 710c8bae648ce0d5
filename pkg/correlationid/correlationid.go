// Package correlationid carries a request correlation id through contexts,
// HTTP headers and Kafka record headers.
package correlationid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the header name used to propagate the correlation id.
const Header = "X-Correlation-ID"

type ctxKey struct{}

// New generates a new correlation id.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
