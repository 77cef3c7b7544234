package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/metadata"
)

func TestParseManifestPopulatesFields(t *testing.T) {
	dir := t.TempDir()
	content := "[OBJECT:MODULE]\n" +
		"[ID:dwarf_mod]\n" +
		"[NUMERIC_VERSION:5]\n" +
		"[DISPLAYED_VERSION:1.0.5]\n" +
		"[EARLIEST_COMPATIBLE_NUMERIC_VERSION:1]\n" +
		"[EARLIEST_COMPATIBLE_DISPLAYED_VERSION:1.0.0]\n" +
		"[NAME:Dwarf Mod]\n" +
		"[AUTHOR:Urist]\n" +
		"[REQUIRES_ID:other_mod]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(content), 0o644))

	info, err := ParseManifest(dir, metadata.LocationVanilla, ParseManifestOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "dwarf_mod", info.Identifier)
	assert.Equal(t, 5, info.NumericVersion)
	assert.Equal(t, "Dwarf Mod", info.Name)
	require.Len(t, info.Requires, 1)
	assert.Equal(t, "other_mod", info.Requires[0])
	assert.NotEmpty(t, info.ObjectID, "expected a derived module object id")
}

func TestDiscoverFindsModuleDirectories(t *testing.T) {
	root := t.TempDir()
	modDir := filepath.Join(root, "mod_a")
	require.NoError(t, os.MkdirAll(modDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(modDir, ManifestFileName), []byte("[OBJECT:MODULE]\n"), 0o644))
	nonModDir := filepath.Join(root, "not_a_mod")
	require.NoError(t, os.MkdirAll(nonModDir, 0o755))

	found, err := Discover([]string{root}, metadata.LocationVanilla, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, modDir, found[0])
}
