package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ukemeny/internal/database"
)

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	db, err := database.NewDB(filepath.Join(dir, "test.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db.SQL)
	h := GetSysHealth(context.Background(), store, dir)
	assert.True(t, h.Healthy())
	require.NotNil(t, h.Catalog)
	assert.Equal(t, 10, h.Catalog.Categories)
	assert.Zero(t, h.Catalog.Recipes)
	assert.NotEqual(t, "0 B", h.DataDiskSize)

	require.NoError(t, db.Close())
	h = GetSysHealth(context.Background(), store, dir)
	assert.False(t, h.Healthy())
	assert.Nil(t, h.Catalog)
}

func TestCalculateDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0o644))
	assert.Equal(t, "100 B", calculateDirSize(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), make([]byte, 2048), 0o644))
	assert.Equal(t, "2.1 KB", calculateDirSize(dir))
}
