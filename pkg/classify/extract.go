package classify

import "strings"

// findAfter locates anchor in line and returns the substring that starts
// right after it, or ok=false if the anchor isn't present. This mirrors
// the tracer script's "find the anchor, advance by its length" idiom used
// throughout the per-API extraction rules.
func findAfter(line, anchor string) (rest string, ok bool) {
	idx := strings.Index(line, anchor)
	if idx < 0 {
		return "", false
	}
	return line[idx+len(anchor):], true
}

// readUntil returns the prefix of s up to (not including) the first
// occurrence of terminator, trimmed of surrounding whitespace. If
// terminator never appears, the whole of s is used.
func readUntil(s, terminator string) string {
	if idx := strings.Index(s, terminator); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

// readUntilAny is readUntil but stops at whichever of the given
// terminators occurs first.
func readUntilAny(s string, terminators ...string) string {
	best := -1
	for _, t := range terminators {
		if idx := strings.Index(s, t); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	if best < 0 {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[:best])
}

// extractField runs the full anchor-then-terminator extraction in one
// call: find anchor in line, advance past it, read until terminator.
func extractField(line, anchor, terminator string) (string, bool) {
	rest, ok := findAfter(line, anchor)
	if !ok {
		return "", false
	}
	return readUntil(rest, terminator), true
}

// splitFlags splits a "A|B|C" flag expression on the pipe delimiter and
// trims each resulting token. Empty tokens are dropped.
func splitFlags(value string) []string {
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// addFlagsWithPrefix records into dst every flag token from value that
// starts with prefix, discarding the rest. Used by the Lock-flag and
// Usage-flag extraction rules to filter out spurious bits emitted by
// buggy titles.
func addFlagsWithPrefix(dst *Counter, value, prefix string) {
	for _, flag := range splitFlags(value) {
		if strings.HasPrefix(flag, prefix) {
			dst.add(flag)
		}
	}
}

// addAllFlags records every flag token from value into dst, unfiltered.
func addAllFlags(dst *Counter, value string) {
	for _, flag := range splitFlags(value) {
		dst.add(flag)
	}
}

// splitKeyValue splits "Key = Value" on the first occurrence of " = ".
func splitKeyValue(pair string) (key, value string, ok bool) {
	idx := strings.Index(pair, " = ")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(pair[:idx]), strings.TrimSpace(pair[idx+3:]), true
}
