package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		db, err := Open(Config{Path: filepath.Join(t.TempDir(), "radar.db")})
		require.NoError(t, err)
		st := New(db)
		t.Cleanup(func() { _ = st.Close() })
		return st
	})
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radar.db")

	db, err := Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
