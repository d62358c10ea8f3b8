// Package shaderdump implements the secondary shader-blob dump pass: a
// second invocation of the tracer restricted to the call indices recorded
// during classification, so the disassembly the first pass couldn't see
// (pFunction/pShaderBytecode present only as an opaque blob) can still be
// produced as a side artifact. Decoding the blob itself is the tracer's
// job, named out of scope in spec.md §1.
package shaderdump

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/wintersnowfall/tracestats/pkg/tracer"
)

// maxBatchSize bounds how many call indices go into one "--calls" range,
// since apitrace's argument length has a practical ceiling.
const maxBatchSize = 10000

// Batch splits indices into chunks of at most maxBatchSize, preserving
// order.
func Batch(indices []int64) [][]int64 {
	if len(indices) == 0 {
		return nil
	}
	var batches [][]int64
	for len(indices) > 0 {
		n := maxBatchSize
		if n > len(indices) {
			n = len(indices)
		}
		batches = append(batches, indices[:n])
		indices = indices[n:]
	}
	return batches
}

// Runner re-invokes a tracer.Driver once per batch.
type Runner struct {
	Driver *tracer.Driver
}

// DumpBatches runs one apitrace dump per batch against tracePath,
// discarding output: this pass exists only to make the tracer emit
// shader disassembly as a side effect, not to be read back here.
func (r *Runner) DumpBatches(ctx context.Context, tracePath string, batches [][]int64) error {
	for i, batch := range batches {
		callRange := formatRange(batch)
		klog.V(1).Infof("shader dump batch %d/%d (%d calls) for %s", i+1, len(batches), len(batch), tracePath)

		session, err := r.Driver.DumpCalls(ctx, tracePath, callRange)
		if err != nil {
			return fmt.Errorf("shader dump batch %d: %w", i+1, err)
		}
		if _, err := io.Copy(io.Discard, session.Stdout); err != nil {
			return fmt.Errorf("shader dump batch %d: drain stdout: %w", i+1, err)
		}
		if err := <-session.ExitChannel; err != nil {
			return fmt.Errorf("shader dump batch %d: %w", i+1, err)
		}
	}
	return nil
}

func formatRange(indices []int64) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.FormatInt(idx, 10)
	}
	return strings.Join(parts, ",")
}
