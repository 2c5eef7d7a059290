package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")

	doc := sampleDocument()
	require.NoError(t, WriteFile(path, doc))

	parsed, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
}

func TestWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")

	require.NoError(t, WriteFile(path, sampleDocument()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "schema.json", entries[0].Name())
}

func TestWriteFile_OverwritesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")

	// Pre-existing content is fully replaced, not appended to
	require.NoError(t, os.WriteFile(path, []byte(`{"stale": true}`), 0o644))
	require.NoError(t, WriteFile(path, sampleDocument()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestWriteFile_IndentedOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")

	require.NoError(t, WriteFile(path, sampleDocument()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
