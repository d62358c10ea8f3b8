package classify

import (
	"strconv"
	"strings"
)

// Options configures a classification run for one TraceJob.
type Options struct {
	// KnownAPI is the side table's pre-known API for this binary, if any.
	KnownAPI string
	// BinaryNameRaw is the untruncated binary name, used to look up
	// apiOverrides.
	BinaryNameRaw string
	// SkipAPIs is the user-supplied, already-normalized set of APIs to
	// skip (D3D9EX normalized to D3D9Ex upstream of this package).
	SkipAPIs map[string]bool
	// ShaderDump requests that shader-creation call indices be recorded
	// for the secondary shader-blob dump pass.
	ShaderDump bool
}

// ProcessLines classifies every line of a chunk against state, in order,
// mutating state in place. It returns early (without processing the
// remainder of the chunk) once state.APISkip is raised, matching the
// reference tool's fast-exit-on-skip behavior.
func ProcessLines(state *ParseState, lines []string, opts Options) {
	for _, raw := range lines {
		if state.APISkip {
			return
		}
		processLine(state, strings.TrimRight(raw, " \t\r\n"), opts)
	}
}

func processLine(s *ParseState, line string, opts Options) {
	if line == "" {
		return
	}
	if strings.HasPrefix(line, "//") {
		return
	}

	shaderLine := isShaderContinuationLine(line)

	var callIndex int64
	var rest string
	if !shaderLine {
		idx, tail, ok := splitCallLine(line)
		if !ok {
			return
		}
		callIndex = idx
		rest = tail

		if s.sawCallIndex && callIndex < s.lastCallIndex && !s.warnedOnDecrease {
			s.warn("non-monotonic", "call index decreased")
			s.warnedOnDecrease = true
		}
		s.lastCallIndex = callIndex
		s.sawCallIndex = true
	}

	if !shaderLine && !strings.Contains(line, "::") && !containsAny(line, baseCalls) {
		return
	}

	if s.API == "" && !shaderLine {
		detectAPI(s, rest, opts)
		if s.APISkip {
			return
		}
	}

	var call string
	if shaderLine {
		call = ""
	} else {
		call = rest
		if idx := strings.Index(call, "("); idx >= 0 {
			call = call[:idx]
		}
		s.APICalls.add(call)
	}

	if shaderLine {
		s.handleShaderContinuationLine(line)
		return
	}
	if isShaderCreateCall(call) {
		// Shader creation is mutually exclusive with the rest of the
		// per-family dispatch below, mirroring the classifier's elif
		// structure: a shader-creation line never also falls through to
		// the generic Create/Query/RasterizerState/BlendState rules.
		s.handleShaderCreateCall(shaderCallName(call), line, callIndex, opts.ShaderDump)
		return
	}

	switch s.API {
	case "D3D7":
		s.dispatchD3D7(call, line)
	case "D3D8", "D3D9", "D3D9Ex":
		s.dispatchD3D89(call, line)
	case "D3D10", "D3D11":
		s.dispatchD3D1011(call, line)
	}
}

// splitCallLine parses the "<N> rest…" shape of a numbered line, returning
// the call index and everything after the first whitespace run. ok=false
// means the line doesn't start with an integer and is unparseable.
func splitCallLine(line string) (index int64, rest string, ok bool) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) == 0 {
		return 0, "", false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return 0, "", false
	}
	if len(fields) == 1 {
		return n, "", true
	}
	return n, strings.TrimSpace(fields[1]), true
}

func containsAny(line string, substrs []string) bool {
	for _, s := range substrs {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

// detectAPI runs the one-time entrypoint detection on the first
// API-qualifying line: first entry table match wins, side-table/override
// cross-check is logged as warnings via ParseState, and, when no
// side-table API is known, the user's skip set is consulted immediately
// after.
func detectAPI(s *ParseState, rest string, opts Options) {
	for _, e := range entryCalls {
		if strings.Contains(rest, e.substr) {
			s.API = e.api

			if opts.KnownAPI != "" && opts.KnownAPI != s.API {
				override, hasOverride := apiOverrides[opts.BinaryNameRaw]
				switch {
				case !hasOverride:
					s.warn("api-mismatch", "side table API value is mismatched from trace")
				case override == opts.KnownAPI:
					s.warn("api-override", "known API value override detected")
				default:
					s.warn("api-override-mismatch", "unexpected API override value")
				}
			}
			break
		}
	}

	if opts.KnownAPI == "" && opts.SkipAPIs != nil && opts.SkipAPIs[s.API] {
		s.APISkip = true
	}
}

func isShaderCreateCall(call string) bool {
	return shaderCreateCalls[shaderCallName(call)]
}

// shaderCallName strips the interface-qualifier prefix (everything up to
// and including "::") off a call name, e.g.
// "IDirect3DDevice9::CreateVertexShader" -> "CreateVertexShader".
func shaderCallName(call string) string {
	if idx := strings.LastIndex(call, "::"); idx >= 0 {
		return call[idx+2:]
	}
	return call
}
