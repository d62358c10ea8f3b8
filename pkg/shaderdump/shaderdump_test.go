package shaderdump

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wintersnowfall/tracestats/pkg/tracer"
)

func TestBatchSplitsIntoBoundedChunks(t *testing.T) {
	indices := make([]int64, 25000)
	for i := range indices {
		indices[i] = int64(i)
	}

	batches := Batch(indices)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], maxBatchSize)
	assert.Len(t, batches[1], maxBatchSize)
	assert.Len(t, batches[2], 5000)
}

func TestBatchEmptyInputProducesNoBatches(t *testing.T) {
	assert.Nil(t, Batch(nil))
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "1,2,3", formatRange([]int64{1, 2, 3}))
}

func TestDumpBatchesInvokesDriverPerBatch(t *testing.T) {
	d, err := tracer.New(context.Background(), tracer.Options{ApitracePath: "../tracer/testdata/mock-apitrace.sh"})
	require.NoError(t, err)

	r := &Runner{Driver: d}
	err = r.DumpBatches(context.Background(), "fixture.trace", Batch([]int64{1, 2, 3}))
	assert.NoError(t, err)
}
