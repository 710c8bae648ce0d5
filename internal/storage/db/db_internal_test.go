package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsQueryCanceled(t *testing.T) {
	canceled := &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}

	assert.True(t, IsQueryCanceled(fmt.Errorf("list products: %w", canceled)))
	assert.False(t, IsQueryCanceled(&pgconn.PgError{Code: "22003"}))
	assert.False(t, IsQueryCanceled(errors.New("connection reset")))
	assert.False(t, IsQueryCanceled(nil))
}

func TestTxWrapperWithTx(t *testing.T) {
	var tx pgx.Tx
	outer := &txWrapper{tx: tx}

	var inner DB
	err := outer.WithTx(context.Background(), func(db DB) error {
		inner = db
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, outer, inner)

	boom := errors.New("boom")
	assert.ErrorIs(t, outer.WithTx(context.Background(), func(DB) error { return boom }), boom)
}
