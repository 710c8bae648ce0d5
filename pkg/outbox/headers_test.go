package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/catalog-admin/pkg/correlationid"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "corr-1")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "corr-1", headers[correlationid.Header])

	rec := &kgo.Record{}
	for k, v := range headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	restored := outbox.ExtractContextFromHeaders(context.Background(), outbox.RecordHeaders(rec))
	id, ok := correlationid.FromContext(restored)
	require.True(t, ok)
	assert.Equal(t, "corr-1", id)
}

func TestExtractWithoutCorrelationID(t *testing.T) {
	ctx := outbox.ExtractContextFromHeaders(context.Background(), map[string]string{})
	_, ok := correlationid.FromContext(ctx)
	assert.False(t, ok)
}
