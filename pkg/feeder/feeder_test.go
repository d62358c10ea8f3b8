package feeder

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, f *Feeder, input string) []LineChunk {
	t.Helper()
	out := make(chan LineChunk, 16)
	err := f.Run(context.Background(), strings.NewReader(input), out)
	require.NoError(t, err)

	var chunks []LineChunk
	for c := range out {
		chunks = append(chunks, c)
	}
	return chunks
}

func TestRunFlushesPartialChunkOnEOF(t *testing.T) {
	f := &Feeder{ChunkLines: 3}
	chunks := collect(t, f, "a\nb\nc\nd\ne\n")

	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"a", "b", "c"}, chunks[0].Lines)
	assert.Equal(t, []string{"d", "e"}, chunks[1].Lines)
}

func TestRunExactMultipleProducesNoEmptyTrailingChunk(t *testing.T) {
	f := &Feeder{ChunkLines: 2}
	chunks := collect(t, f, "a\nb\nc\nd\n")

	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"a", "b"}, chunks[0].Lines)
	assert.Equal(t, []string{"c", "d"}, chunks[1].Lines)
}

func TestRunHandlesFinalLineWithoutTrailingNewline(t *testing.T) {
	f := &Feeder{ChunkLines: 10}
	chunks := collect(t, f, "a\nb")

	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"a", "b"}, chunks[0].Lines)
}

func TestRunUsesDefaultChunkSizeWhenUnset(t *testing.T) {
	f := &Feeder{}
	chunks := collect(t, f, "only one line\n")

	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0].Lines, 1)
}

func TestRunEmptyInputProducesNoChunks(t *testing.T) {
	f := &Feeder{ChunkLines: 3}
	chunks := collect(t, f, "")

	assert.Empty(t, chunks)
}

func TestRunRespectsCancellation(t *testing.T) {
	f := &Feeder{ChunkLines: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan LineChunk)
	err := f.Run(ctx, strings.NewReader("a\nb\nc\n"), out)
	assert.Error(t, err)
}
