package sidetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLoaderLoadsEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mygame.json"),
		[]byte(`{"name":"My Game","link":"http://example.com","api":"D3D11"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("noop"), 0o644))

	table, err := DirLoader{Dir: dir}.Load()
	require.NoError(t, err)

	require.Contains(t, table, "mygame")
	assert.Equal(t, "My Game", table["mygame"].Name)
	assert.Equal(t, "D3D11", table["mygame"].API)
	assert.Len(t, table, 1)
}

func TestDirLoaderMissingDirIsNotAnError(t *testing.T) {
	table, err := DirLoader{Dir: "/no/such/directory"}.Load()
	require.NoError(t, err)
	assert.Empty(t, table)
}
