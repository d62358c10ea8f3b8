// Package aggregate builds the final per-trace result structure from a
// drained classifier state and serializes the top-level export document.
package aggregate

import (
	"strings"

	"k8s.io/utils/ptr"
)

// DeriveBinaryName applies the two documented binary-name workarounds on
// top of an already trace/zst-extension-stripped stem: generic renamed
// "Game.exe"-style traces are truncated to their first 4 characters, and
// multi-edition/multi-API titles that suffix their binary with trailing
// underscores have those underscores stripped.
func DeriveBinaryName(stem string) string {
	switch {
	case len(stem) >= 4 && strings.HasPrefix(strings.ToUpper(stem), "GAME"):
		return stem[:4]
	case strings.HasSuffix(stem, "_"):
		return strings.TrimRight(stem, "_")
	default:
		return stem
	}
}

// ResolveName picks the TraceResult name: CLI override, then side-table
// lookup, then the binary name itself.
func ResolveName(override, sideTable, binaryName string) string {
	if override != "" {
		return override
	}
	if sideTable != "" {
		return sideTable
	}
	return binaryName
}

// ResolveLink picks the TraceResult link: CLI override, then side-table
// lookup, then omitted entirely.
func ResolveLink(override, sideTable string) *string {
	if override != "" {
		return ptr.To(override)
	}
	if sideTable != "" {
		return ptr.To(sideTable)
	}
	return nil
}
