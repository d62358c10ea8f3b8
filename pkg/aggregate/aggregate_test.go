package aggregate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wintersnowfall/tracestats/pkg/classify"
)

func TestDeriveBinaryName(t *testing.T) {
	assert.Equal(t, "Game", DeriveBinaryName("Game"))
	assert.Equal(t, "GAME", DeriveBinaryName("GAME_EXE_COPY"))
	assert.Equal(t, "mygame", DeriveBinaryName("mygame___"))
	assert.Equal(t, "plainbinary", DeriveBinaryName("plainbinary"))
}

func TestResolveNameAndLink(t *testing.T) {
	assert.Equal(t, "override", ResolveName("override", "sidetable", "binary"))
	assert.Equal(t, "sidetable", ResolveName("", "sidetable", "binary"))
	assert.Equal(t, "binary", ResolveName("", "", "binary"))

	assert.Nil(t, ResolveLink("", ""))
	assert.Equal(t, "http://a", *ResolveLink("http://a", "http://b"))
	assert.Equal(t, "http://b", *ResolveLink("", "http://b"))
}

func TestBuildResultOmitsEmptyCategories(t *testing.T) {
	state := classify.ParseState{
		RenderStates: classify.Counter{"D3DRS_LIGHTING": 1},
	}

	result := BuildResult("game", "Game", nil, &state)
	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded, "render_states")
	assert.NotContains(t, decoded, "lock_flags")
	assert.NotContains(t, decoded, "link")
}

func TestMarshalJSONSortsKeysAlphabetically(t *testing.T) {
	state := classify.ParseState{
		RenderStates: classify.Counter{"D3DRS_LIGHTING": 1},
		APICalls:     classify.Counter{"SetRenderState": 1},
	}

	result := BuildResult("game", "Game", nil, &state)
	data, err := json.Marshal(result)
	require.NoError(t, err)

	assert.True(t, indexOf(string(data), "api_calls") < indexOf(string(data), "binary_name"))
	assert.True(t, indexOf(string(data), "binary_name") < indexOf(string(data), `"name"`))
	assert.True(t, indexOf(string(data), `"name"`) < indexOf(string(data), "render_states"))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func TestWriteBacksUpExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tracestats":[]}`), 0o644))

	var doc ExportDoc
	doc.Append(BuildResult("game", "Game", nil, &classify.ParseState{}))
	require.NoError(t, Write(path, doc))

	_, err := os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestWriteDoesNotHTMLEscape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	var doc ExportDoc
	state := classify.ParseState{
		PresentParameters: classify.Counter{"BackBufferFormat = A<B&C>D": 1},
	}
	doc.Append(BuildResult("game", "Game", nil, &state))
	require.NoError(t, Write(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "A<B&C>D")
	assert.NotContains(t, string(data), "\\u003c")
	assert.NotContains(t, string(data), "\\u0026")
}

func TestJoinConcatenatesInSortedFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"),
		[]byte(`{"tracestats":[{"binary_name":"b","name":"b"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"),
		[]byte(`{"tracestats":[{"binary_name":"a","name":"a"}]}`), 0o644))

	joined, err := Join(dir)
	require.NoError(t, err)
	require.Len(t, joined.Results, 2)

	data, err := json.Marshal(joined)
	require.NoError(t, err)
	assert.True(t, indexOf(string(data), `"binary_name":"a"`) < indexOf(string(data), `"binary_name":"b"`))
}
