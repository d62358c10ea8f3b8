// Package applog is a thin wrapper around klog, the teacher's logging
// library, that names the three severities spec.md's error taxonomy
// requires: soft warnings go to the "secondary log stream" (klog's
// warning verbosity), fatal-per-trace events are errors, and
// fatal-startup events abort the process.
package applog

import (
	"flag"
	"strconv"

	"k8s.io/klog/v2"
)

// Init wires klog's verbosity flag and must be called once at startup
// before any other applog function.
func Init(verbosity int) {
	var flagset flag.FlagSet
	klog.InitFlags(&flagset)
	flagset.Set("v", strconv.Itoa(verbosity))
}

// Warn logs a soft, non-fatal event: non-monotonic call indices, unknown
// vendor-hack FOURCCs, api/side-table mismatches, undecodable shaders.
func Warn(format string, args ...interface{}) {
	klog.Warningf(format, args...)
}

// Error logs a fatal-per-trace event: the current trace is abandoned but
// the process continues with the next input.
func Error(format string, args ...interface{}) {
	klog.Errorf(format, args...)
}

// Fatal logs a fatal-startup event and terminates the process. Callers
// that need a specific exit code should use applog.Error and exit
// themselves; Fatal is reserved for conditions with no recovery path at
// all (mirrors klog.Fatalf's own os.Exit(255) semantics).
func Fatal(format string, args ...interface{}) {
	klog.Fatalf(format, args...)
}

// Flush flushes any buffered log entries; call before process exit.
func Flush() {
	klog.Flush()
}
