// Package tracer locates, validates, and invokes the external apitrace
// executable that produces the textual dumps the rest of the pipeline
// consumes.
package tracer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

const minVersion = 12.0

// Driver produces validated apitrace invocations for one tool run. It is
// resolved and validated once at startup; every TraceJob reuses it.
type Driver struct {
	path string
	wine string // resolved "wine" executable, empty when UseWine is false
}

// Options configures driver resolution.
type Options struct {
	// ApitracePath is the explicit path to the apitrace executable. Empty
	// means "search PATH".
	ApitracePath string
	// UseWine requests that apitrace be launched through a Windows
	// compatibility layer.
	UseWine bool
}

// New resolves the apitrace executable and validates its version. Any
// failure here is fatal-startup per spec.md §7.
func New(ctx context.Context, opts Options) (*Driver, error) {
	path, err := resolve(opts.ApitracePath)
	if err != nil {
		return nil, err
	}

	d := &Driver{path: path}
	if opts.UseWine {
		winePath, err := exec.LookPath("wine")
		if err != nil {
			return nil, fmt.Errorf("%w: wine: %v", ErrNotFound, err)
		}
		d.wine = winePath
	}

	if err := d.validate(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// resolve finds the apitrace binary: an explicit path must already exist
// as a regular file; an empty path is searched for on PATH.
func resolve(path string) (string, error) {
	if path == "" {
		found, err := exec.LookPath("apitrace")
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return found, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrInvalidPath, path)
	}
	return path, nil
}

// validate runs "apitrace version", requiring the first token to be
// "apitrace" and the second to parse as a number >= minVersion.
func (d *Driver) validate(ctx context.Context) error {
	cmd := d.command(ctx, "version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}

	fields := strings.Fields(out.String())
	if len(fields) < 2 || fields[0] != "apitrace" {
		return fmt.Errorf("%w: unexpected output %q", ErrVersionUnparsable, out.String())
	}

	version, err := parseVersion(fields[1])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVersionUnparsable, err)
	}
	if version < minVersion {
		return fmt.Errorf("%w: found %v", ErrVersionTooOld, version)
	}

	klog.V(2).Infof("validated apitrace %s at %s", fields[1], d.path)
	return nil
}

// parseVersion reduces a "12.1.0"-shaped string to its leading
// major.minor float so it can be compared against minVersion.
func parseVersion(s string) (float64, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return strconv.ParseFloat(s, 64)
	}
	return strconv.ParseFloat(parts[0]+"."+parts[1], 64)
}

// command builds an *exec.Cmd for the resolved apitrace binary, prefixed
// with wine when the driver was configured to use it.
func (d *Driver) command(ctx context.Context, args ...string) *exec.Cmd {
	if d.wine != "" {
		return exec.CommandContext(ctx, d.wine, append([]string{d.path}, args...)...)
	}
	return exec.CommandContext(ctx, d.path, args...)
}
