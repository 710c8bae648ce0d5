package correlationid_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-admin/pkg/correlationid"
)

func TestContext(t *testing.T) {
	_, ok := correlationid.FromContext(context.Background())
	assert.False(t, ok)

	ctx := correlationid.NewContext(context.Background(), "abc")
	id, ok := correlationid.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = correlationid.FromContext(correlationid.NewContext(context.Background(), ""))
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	id := correlationid.New()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
