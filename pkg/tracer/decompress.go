package tracer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

// ResolveInput prepares path for dumping: a plain ".trace" file is
// returned unchanged with a no-op cleanup; a ".trace.zst" file is
// decompressed alongside itself via "zstd -d -f" and the cleanup func
// removes the decompressed copy.
func ResolveInput(path string) (resolved string, cleanup func(), err error) {
	if !strings.HasSuffix(path, ".zst") {
		return path, func() {}, nil
	}

	dest := strings.TrimSuffix(path, ".zst")
	cmd := exec.Command("zstd", "-d", "-f", path, "-o", dest)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", nil, fmt.Errorf("%w: %v: %s", ErrDecompressFailed, err, out)
	}

	cleanup = func() {
		if rmErr := os.Remove(dest); rmErr != nil && !os.IsNotExist(rmErr) {
			klog.Warningf("could not remove decompressed trace %s: %v", dest, rmErr)
		}
	}
	return dest, cleanup, nil
}

// BinaryStem derives the base filename with its extension(s) stripped,
// used by pkg/aggregate to compute binary_name. It lives here because it
// must agree with ResolveInput about what ".trace"/".trace.zst" mean.
func BinaryStem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".zst")
	base = strings.TrimSuffix(base, ".trace")
	return base
}
