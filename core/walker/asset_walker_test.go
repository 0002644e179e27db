package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/weexscan/core/models"
)

func TestAssetWalker_Walk(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"main.js":                 "abc",
		"chunks/vendor.js":        "abcdef",
		"main.js.map":             "{}",
		"node_modules/x/index.js": "skip",
		".git/HEAD":               "skip",
	}
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	assets, err := NewAssetWalker().Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []models.Asset{
		{Name: "chunks/vendor.js", Size: 6},
		{Name: "main.js", Size: 3},
		{Name: "main.js.map", Size: 2},
	}, assets)
}

func TestAssetWalker_Exclude(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "legacy"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "legacy", "old.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("x"), 0o644))

	assets, err := NewAssetWalker("legacy").Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []models.Asset{{Name: "app.js", Size: 1}}, assets)
}

func TestAssetWalker_Missing(t *testing.T) {
	_, err := NewAssetWalker().Walk(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.js")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewAssetWalker().Walk(file)
	assert.ErrorContains(t, err, "not a directory")
}
