package main

import (
	"testing"

	"github.com/wintersnowfall/tracestats/pkg/tracer"
)

func TestNormalizeSkipAPIs(t *testing.T) {
	testCases := []struct {
		csv      string
		expected map[string]bool
	}{
		{"", nil},
		{"d3d9", map[string]bool{"D3D9": true}},
		{"D3D9EX", map[string]bool{"D3D9Ex": true}},
		{"d3d9ex,D3D11", map[string]bool{"D3D9Ex": true, "D3D11": true}},
		{" d3d7 , ,d3d8", map[string]bool{"D3D7": true, "D3D8": true}},
	}

	for _, tc := range testCases {
		got := normalizeSkipAPIs(tc.csv)
		if len(got) != len(tc.expected) {
			t.Errorf("normalizeSkipAPIs(%q) = %v, want %v", tc.csv, got, tc.expected)
			continue
		}
		for k := range tc.expected {
			if !got[k] {
				t.Errorf("normalizeSkipAPIs(%q) missing key %q", tc.csv, k)
			}
		}
	}
}

func TestExitCodeForTracerError(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{tracer.ErrNotFound, exitTracerNotFound},
		{tracer.ErrInvalidPath, exitTracerInvalidPath},
		{tracer.ErrVersionTooOld, exitTracerVersionTooOld},
		{tracer.ErrVersionUnparsable, exitTracerVersionUnparsable},
		{tracer.ErrInvocationFailed, exitTracerInvocationFailed},
	}

	for _, tc := range testCases {
		if got := exitCodeForTracerError(tc.err); got != tc.expected {
			t.Errorf("exitCodeForTracerError(%v) = %d, want %d", tc.err, got, tc.expected)
		}
	}
}

func TestExitCodeForPerTraceError(t *testing.T) {
	if got := exitCodeForPerTraceError(tracer.ErrDecompressFailed); got != exitDecompressFailed {
		t.Errorf("exitCodeForPerTraceError(ErrDecompressFailed) = %d, want %d", got, exitDecompressFailed)
	}
	if got := exitCodeForPerTraceError(tracer.ErrInvocationFailed); got != exitTracerInvocationFailed {
		t.Errorf("exitCodeForPerTraceError(ErrInvocationFailed) = %d, want %d", got, exitTracerInvocationFailed)
	}
}
