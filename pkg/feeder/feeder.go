// Package feeder reads a tracer's standard output line-by-line and groups
// it into fixed-size chunks for the classifier, the producer half of the
// producer/consumer pipeline.
package feeder

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// DefaultChunkLines is the default chunk size, chosen so that ~10 queued
// chunks bound memory to a few hundred MB regardless of trace size.
const DefaultChunkLines = 100000

// LineChunk is an ordered batch of raw output lines, the unit of
// producer-to-consumer transfer.
type LineChunk struct {
	Lines []string
}

// Feeder reads from one tracer's stdout and publishes LineChunks.
type Feeder struct {
	// ChunkLines overrides DefaultChunkLines when positive.
	ChunkLines int
}

// Run reads r line by line until EOF (or ctx is cancelled), sending
// LineChunks to out. It flushes any pending partial chunk on a clean EOF
// and always closes out before returning, so the consumer can range over
// it to detect end-of-stream. A non-EOF read error is returned to the
// caller as a fatal-per-trace condition.
func (f *Feeder) Run(ctx context.Context, r io.Reader, out chan<- LineChunk) error {
	chunkLines := f.ChunkLines
	if chunkLines <= 0 {
		chunkLines = DefaultChunkLines
	}
	defer close(out)

	reader := bufio.NewReaderSize(r, 64*1024)
	pending := make([]string, 0, chunkLines)

	for {
		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 {
			pending = append(pending, strings.TrimRight(string(raw), "\r\n"))
			if len(pending) >= chunkLines {
				if !publish(ctx, out, pending) {
					return ctx.Err()
				}
				pending = make([]string, 0, chunkLines)
			}
		}

		if err != nil {
			if err == io.EOF {
				if len(pending) > 0 {
					publish(ctx, out, pending)
				}
				return nil
			}
			return err
		}
	}
}

// publish blocking-puts chunk onto out, honoring cancellation. Returns
// false iff ctx was cancelled before the send completed.
func publish(ctx context.Context, out chan<- LineChunk, lines []string) bool {
	chunk := LineChunk{Lines: lines}
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
