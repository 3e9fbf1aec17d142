package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"totem/internal/tabletconfig/store"
	"totem/pkg/platform/sentinel"
)

func newSQLite(t *testing.T) *store.SQLite {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := store.NewSQLite(db)
	require.NoError(t, err)
	return st
}

func TestSQLiteRoundTrip(t *testing.T) {
	st := newSQLite(t)
	ctx := context.Background()

	_, err := st.Get(ctx, "stand_name")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, st.Set(ctx, "stand_name", "the one"))
	v, err := st.Get(ctx, "stand_name")
	require.NoError(t, err)
	assert.Equal(t, "the one", v)

	require.NoError(t, st.Set(ctx, "stand_name", "skyline"))
	v, err = st.Get(ctx, "stand_name")
	require.NoError(t, err)
	assert.Equal(t, "skyline", v, "set overwrites existing keys")
}

func TestMemoryMatchesSQLiteContract(t *testing.T) {
	for name, st := range map[string]store.Store{
		"memory": store.NewMemory(),
		"sqlite": newSQLite(t),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := st.Get(ctx, "missing")
			assert.ErrorIs(t, err, sentinel.ErrNotFound)

			require.NoError(t, st.Set(ctx, "k", "v"))
			v, err := st.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v", v)
		})
	}
}
