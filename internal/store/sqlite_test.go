package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	body := json.RawMessage(`{"run_id":"r1","counts":{"classified":3}}`)
	require.NoError(t, st.Save(ctx, "run:r1", body))

	loaded, err := st.Load(ctx, "run:r1")
	require.NoError(t, err)
	assert.JSONEq(t, string(body), string(loaded))
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "run:r1", json.RawMessage(`{"v":1}`)))
	require.NoError(t, st.Save(ctx, "run:r1", json.RawMessage(`{"v":2}`)))

	loaded, err := st.Load(ctx, "run:r1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(loaded))
}

func TestSQLiteLoadMissing(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Load(context.Background(), "run:absent")
	assert.ErrorIs(t, err, ErrNotFound)
}
