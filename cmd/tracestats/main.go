package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/wintersnowfall/tracestats/pkg/aggregate"
	"github.com/wintersnowfall/tracestats/pkg/applog"
	"github.com/wintersnowfall/tracestats/pkg/job"
	"github.com/wintersnowfall/tracestats/pkg/metrics"
	"github.com/wintersnowfall/tracestats/pkg/shaderdump"
	"github.com/wintersnowfall/tracestats/pkg/sidetable"
	"github.com/wintersnowfall/tracestats/pkg/tracer"
)

// Exit codes mirror spec.md §6 one-for-one.
const (
	exitOK = iota
	exitTracerNotFound
	exitTracerInvalidPath
	exitTracerVersionTooOld
	exitTracerVersionUnparsable
	exitTracerInvocationFailed
	exitDecompressFailed
	exitJoinParseFailure
)

var opts = struct {
	input                []string
	join                 bool
	output               string
	name                 string
	link                 string
	skip                 string
	dump                 bool
	apitracePath         string
	wine                 bool
	sideTableDir         string
	metricsListenAddress string
	verbosity            int
}{
	output: "tracestats.json",
}

func parseFlags() {
	pflag.StringArrayVarP(&opts.input, "input", "i", nil, "trace file(s) to process (.trace or .trace.zst)")
	pflag.BoolVar(&opts.join, "join", false, "join previously written per-trace JSON files instead of parsing traces")
	pflag.StringVarP(&opts.output, "output", "o", opts.output, "output JSON file path")
	pflag.StringVar(&opts.name, "name", "", "override the resolved trace name")
	pflag.StringVar(&opts.link, "link", "", "override the resolved trace link")
	pflag.StringVar(&opts.skip, "skip", "", "comma-separated list of APIs to skip (case-insensitive)")
	pflag.BoolVar(&opts.dump, "dump", false, "run the shader-blob dump side pass")
	pflag.StringVar(&opts.apitracePath, "apitrace", "", "explicit path to the apitrace executable (default: search PATH)")
	pflag.BoolVar(&opts.wine, "wine", false, "run apitrace through a Windows compatibility layer")
	pflag.StringVar(&opts.sideTableDir, "side-table", "", "directory of <binary_name>.json side-table entries")
	pflag.StringVar(&opts.metricsListenAddress, "metrics-listen-address", "", "address to serve Prometheus metrics on (default: disabled)")
	pflag.IntVarP(&opts.verbosity, "verbose", "v", 0, "log verbosity level")
	pflag.Parse()
}

// normalizeSkipAPIs turns the CLI's case-insensitive CSV list into the
// exact-cased set classify.Options expects, handling the one documented
// spelling normalization (D3D9EX -> D3D9Ex).
func normalizeSkipAPIs(csv string) map[string]bool {
	if csv == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, raw := range strings.Split(csv, ",") {
		api := strings.ToUpper(strings.TrimSpace(raw))
		if api == "" {
			continue
		}
		if api == "D3D9EX" {
			api = "D3D9Ex"
		}
		out[api] = true
	}
	return out
}

func main() {
	parseFlags()
	applog.Init(opts.verbosity)
	defer applog.Flush()

	if opts.join == (len(opts.input) > 0) {
		applog.Fatal("exactly one of --input or --join must be given")
	}

	var cancelled int32
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigChan
		applog.Warn("received signal %v, aborting in-flight trace then exiting", sig)
		atomic.StoreInt32(&cancelled, 1)
		cancel()
	}()

	if opts.join {
		os.Exit(runJoin())
	}
	os.Exit(runParse(ctx, &cancelled))
}

func runJoin() int {
	doc, err := aggregate.Join(filepath.Dir(opts.output))
	if err != nil {
		applog.Error("join failed: %v", err)
		return exitJoinParseFailure
	}
	if err := aggregate.Write(opts.output, doc); err != nil {
		applog.Error("writing joined output: %v", err)
		return exitJoinParseFailure
	}
	return exitOK
}

func runParse(ctx context.Context, cancelled *int32) int {
	driver, err := tracer.New(ctx, tracer.Options{ApitracePath: opts.apitracePath, UseWine: opts.wine})
	if err != nil {
		applog.Error("apitrace validation failed: %v", err)
		return exitCodeForTracerError(err)
	}

	var m *metrics.Metrics
	if opts.metricsListenAddress != "" {
		m = metrics.New(prometheus.DefaultRegisterer)
		metrics.Serve(opts.metricsListenAddress)
	}

	table, err := sidetable.DirLoader{Dir: opts.sideTableDir}.Load()
	if err != nil {
		applog.Fatal("loading side table: %v", err)
	}

	runner := &job.Runner{Tracer: driver, SideTable: table, Metrics: m, Cancelled: cancelled}
	skipAPIs := normalizeSkipAPIs(opts.skip)

	var doc aggregate.ExportDoc
	shaderRunner := &shaderdump.Runner{Driver: driver}

	// firstErrorCode carries the exit code of the first fatal-per-trace
	// error encountered; per spec.md §7 the run still attempts every
	// remaining input, but the process exit code reports that first
	// failure.
	firstErrorCode := exitOK

	for _, path := range opts.input {
		if atomic.LoadInt32(cancelled) != 0 {
			applog.Warn("cancellation requested, skipping remaining inputs")
			break
		}

		outcome, err := runner.Run(ctx, job.TraceJob{
			InputPath:    path,
			NameOverride: opts.name,
			LinkOverride: opts.link,
			SkipAPIs:     skipAPIs,
			ShaderDump:   opts.dump,
		})
		if err != nil {
			applog.Error("processing %s: %v", path, pkgerrors.Wrap(err, "trace job"))
			if firstErrorCode == exitOK {
				firstErrorCode = exitCodeForPerTraceError(err)
			}
			continue
		}
		if outcome.Skipped {
			continue
		}

		doc.Append(outcome.Result)
		if opts.dump && len(outcome.ShaderDumpIndices) > 0 {
			batches := shaderdump.Batch(outcome.ShaderDumpIndices)
			if err := shaderRunner.DumpBatches(ctx, path, batches); err != nil {
				applog.Warn("shader-blob dump pass failed for %s: %v", path, err)
			}
		}
	}

	if err := aggregate.Write(opts.output, doc); err != nil {
		applog.Error("writing output: %v", err)
	}
	return firstErrorCode
}

// exitCodeForTracerError maps a fatal-startup tracer resolution/validation
// error to its distinct exit code, per spec.md §6. The caller logs and
// terminates; this function only classifies.
func exitCodeForTracerError(err error) int {
	switch {
	case errors.Is(err, tracer.ErrNotFound):
		return exitTracerNotFound
	case errors.Is(err, tracer.ErrInvalidPath):
		return exitTracerInvalidPath
	case errors.Is(err, tracer.ErrVersionTooOld):
		return exitTracerVersionTooOld
	case errors.Is(err, tracer.ErrVersionUnparsable):
		return exitTracerVersionUnparsable
	default:
		return exitTracerInvocationFailed
	}
}

// exitCodeForPerTraceError maps a fatal-per-trace error (dump subprocess
// failure, decompression failure) to its exit code. The trace is already
// abandoned by the caller; this only decides what the process reports.
func exitCodeForPerTraceError(err error) int {
	switch {
	case errors.Is(err, tracer.ErrDecompressFailed):
		return exitDecompressFailed
	default:
		return exitTracerInvocationFailed
	}
}
