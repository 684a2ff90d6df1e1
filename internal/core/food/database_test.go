package food

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	db, err := Load(
		filepath.Join("testdata", "foods.json"),
		filepath.Join("testdata", "trash.json"),
		0.3,
	)
	require.NoError(t, err)

	assert.Len(t, db.Foods, 3)
	assert.Len(t, db.Trash, 2)

	// 載入後索引立即可用
	r := NewResolver(db)
	result, ok := r.Resolve("cola")
	require.True(t, ok)
	assert.Equal(t, VerdictTrash, result.Verdict)
	assert.Equal(t, "soda", result.TrashItem.Name)
	assert.Equal(t, "sparkling water with lemon", result.TrashItem.Swap)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(
		filepath.Join("testdata", "nonexistent.json"),
		filepath.Join("testdata", "trash.json"),
		0.3,
	)
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	db, err := Load(
		filepath.Join("testdata", "foods.json"),
		filepath.Join("testdata", "trash.json"),
		0.3,
	)
	require.NoError(t, err)

	counts := db.Categories()
	assert.Equal(t, 2, counts["fruit"])
	assert.Equal(t, 1, counts["fish"])
	assert.Equal(t, 2, counts["ultra-processed"])
}

func TestByCategory(t *testing.T) {
	db, err := Load(
		filepath.Join("testdata", "foods.json"),
		filepath.Join("testdata", "trash.json"),
		0.3,
	)
	require.NoError(t, err)

	entries := db.ByCategory("fruit")
	require.Len(t, entries, 2)
	// 依分數由高到低
	assert.Equal(t, "apple", entries[0].Name)
	assert.Equal(t, "banana", entries[1].Name)

	mixed := db.ByCategory("ultra-processed")
	require.Len(t, mixed, 2)
	assert.Equal(t, VerdictTrash, mixed[0].Verdict)

	assert.Empty(t, db.ByCategory("no-such-category"))
}
