// Package job orchestrates one TraceJob end to end: resolve/decompress
// input, drive the tracer, feed chunks to the classifier on a bounded
// queue, and hand the finished ParseState to the aggregator. It owns the
// producer/consumer wiring spec.md §5 describes.
package job

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/apimachinery/pkg/util/clock"

	"github.com/wintersnowfall/tracestats/pkg/aggregate"
	"github.com/wintersnowfall/tracestats/pkg/applog"
	"github.com/wintersnowfall/tracestats/pkg/classify"
	"github.com/wintersnowfall/tracestats/pkg/feeder"
	"github.com/wintersnowfall/tracestats/pkg/metrics"
	"github.com/wintersnowfall/tracestats/pkg/sidetable"
	"github.com/wintersnowfall/tracestats/pkg/tracer"
)

const (
	defaultQueueCapacity = 10
	defaultPollInterval  = 5 * time.Second
)

// TraceJob describes one input trace to process.
type TraceJob struct {
	InputPath    string
	NameOverride string
	LinkOverride string
	SkipAPIs     map[string]bool
	ShaderDump   bool
}

// Outcome is the result of running one TraceJob.
type Outcome struct {
	Result            aggregate.TraceResult
	Skipped           bool
	ShaderDumpIndices []int64
}

// Runner wires the Tracer Driver, Line Feeder, Chunk Classifier, and
// Aggregator for a sequence of TraceJobs.
type Runner struct {
	Tracer    *tracer.Driver
	SideTable sidetable.Table
	Metrics   *metrics.Metrics

	// QueueCapacity bounds the chunk channel; defaults to 10.
	QueueCapacity int
	// Clock drives the consumer's poll timeout; defaults to the real
	// clock. Tests inject a fake clock for determinism.
	Clock clock.Clock
	// PollInterval is the consumer's shutdown-observation period;
	// defaults to 5 seconds.
	PollInterval time.Duration
	// Cancelled is polled by the consumer loop head once per
	// PollInterval; nil means the run can never be cancelled this way.
	// Set by a signal handler in cmd/tracestats.
	Cancelled *int32
}

// Run executes one TraceJob to completion.
func (r *Runner) Run(ctx context.Context, job TraceJob) (Outcome, error) {
	resolvedPath, cleanup, err := tracer.ResolveInput(job.InputPath)
	if err != nil {
		return Outcome{}, err
	}
	defer cleanup()

	stem := tracer.BinaryStem(job.InputPath)
	entry := r.SideTable[stem]

	opts := classify.Options{
		KnownAPI:      entry.API,
		BinaryNameRaw: stem,
		SkipAPIs:      job.SkipAPIs,
		ShaderDump:    job.ShaderDump,
	}

	session, err := r.Tracer.Dump(ctx, resolvedPath)
	if err != nil {
		return Outcome{}, err
	}

	queueCapacity := r.QueueCapacity
	if queueCapacity <= 0 {
		queueCapacity = defaultQueueCapacity
	}
	chunks := make(chan feeder.LineChunk, queueCapacity)

	var feedErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f := &feeder.Feeder{}
		feedErr = f.Run(ctx, session.Stdout, chunks)
	}()

	var state classify.ParseState
	r.consume(ctx, chunks, &state, opts)
	wg.Wait()

	if exitErr := <-session.ExitChannel; exitErr != nil {
		return Outcome{}, fmt.Errorf("%w: %v", tracer.ErrInvocationFailed, exitErr)
	}
	if feedErr != nil {
		return Outcome{}, feedErr
	}

	for _, w := range state.Warnings() {
		applog.Warn("%s: %s (trace=%s)", w.Kind, w.Msg, job.InputPath)
		if r.Metrics != nil {
			r.Metrics.ParserWarningsTotal.WithLabelValues(w.Kind).Inc()
		}
	}

	if state.APISkip {
		if r.Metrics != nil {
			r.Metrics.TracesSkipped.Inc()
		}
		return Outcome{Skipped: true}, nil
	}

	binaryName := aggregate.DeriveBinaryName(stem)
	name := aggregate.ResolveName(job.NameOverride, entry.Name, binaryName)
	link := aggregate.ResolveLink(job.LinkOverride, entry.Link)
	result := aggregate.BuildResult(binaryName, name, link, &state)

	if r.Metrics != nil {
		r.Metrics.TracesProcessed.Inc()
	}

	return Outcome{Result: result, ShaderDumpIndices: state.ShaderDumpCallIndices}, nil
}

// consume is the bounded-queue consumer: it blocks on the chunk channel
// with a poll-interval timeout so it can observe cancellation between
// receives, and stops processing (while still draining, so the producer
// is never left blocked on a full channel) once ParseState.APISkip fires.
func (r *Runner) consume(ctx context.Context, chunks <-chan feeder.LineChunk, state *classify.ParseState, opts classify.Options) {
	cl := r.Clock
	if cl == nil {
		cl = clock.RealClock{}
	}
	interval := r.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := cl.NewTicker(interval)
	defer ticker.Stop()
	tick := ticker.C()

	draining := false
	for {
		select {
		case <-ctx.Done():
			return

		case chunk, ok := <-chunks:
			if !ok {
				return
			}
			if draining {
				continue
			}
			classify.ProcessLines(state, chunk.Lines, opts)
			if r.Metrics != nil {
				r.Metrics.ChunksQueued.Inc()
				r.Metrics.LinesProcessed.Add(float64(len(chunk.Lines)))
			}
			if state.APISkip {
				// Fast exit per spec.md §5, but keep draining remaining
				// chunks (without classifying them) instead of
				// abandoning the channel outright, so the feeder never
				// blocks forever on a full queue.
				draining = true
			}

		case <-tick:
			if r.cancelled() {
				return
			}
		}
	}
}

func (r *Runner) cancelled() bool {
	if r.Cancelled == nil {
		return false
	}
	return atomic.LoadInt32(r.Cancelled) != 0
}
