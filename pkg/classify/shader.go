package classify

import "strings"

const (
	shaderDumpSkipD3D89   = "pFunction = NULL"
	shaderDumpSkipD3D1011 = "pShaderBytecode = NULL"
	shaderNoDisasmD3D89   = "pFunction = blob"
	shaderNoDisasmD3D1011 = "pShaderBytecode = blob"
	shaderVersionLen      = 3 // "x_y"
)

var shaderCreateCalls = map[string]bool{
	"CreateVertexShader":  true,
	"CreatePixelShader":   true,
	"CreateComputeShader": true,
	"CreateDomainShader":  true,
	"CreateGeometryShader": true,
	"CreateHullShader":    true,
}

// isShaderContinuationLine reports whether a raw (non-call) line is a
// shader disassembly continuation: either generically indented, or
// starting directly with one of the six shader-model prefixes (some
// disassembly lines carry no leading whitespace at all).
func isShaderContinuationLine(line string) bool {
	if strings.HasPrefix(line, " ") {
		return true
	}
	for _, p := range shaderPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// handleShaderCreateCall runs the NEUTRAL-state half of the shader state
// machine: decide whether this call requests dump recording and whether
// the disassembly is expected to follow on the next line(s).
func (s *ParseState) handleShaderCreateCall(call, line string, callIndex int64, shaderDumpRequested bool) {
	isD3D89 := s.API == "D3D8" || s.API == "D3D9" || s.API == "D3D9Ex"

	skipMarker := shaderDumpSkipD3D1011
	noDisasmMarker := shaderNoDisasmD3D1011
	if isD3D89 {
		skipMarker = shaderDumpSkipD3D89
		noDisasmMarker = shaderNoDisasmD3D89
	}

	if call == "CreateVertexShader" && s.API == "D3D8" && strings.Contains(line, shaderDumpSkipD3D89) {
		// D3D8 FVF declaration: no bytecode at all, version is fixed.
		s.ShaderVersions.add("vs_fvf")
		return
	}

	hasBytecode := !strings.Contains(line, skipMarker)
	if shaderDumpRequested && hasBytecode {
		s.ShaderDumpCallIndices = append(s.ShaderDumpCallIndices, callIndex)
	}

	if !hasBytecode {
		return
	}

	if strings.Contains(line, noDisasmMarker) {
		s.warn("shader-blob", "shader bytecode present only as a blob, no disassembly follows")
		s.shaderCtx = shaderNeutral
		return
	}

	s.shaderCtx = shaderInCall
}

// handleShaderContinuationLine runs the IN_SHADER_CALL half: look for a
// shader-model token on the disassembly line and record its version.
func (s *ParseState) handleShaderContinuationLine(line string) {
	if s.shaderCtx != shaderInCall {
		return
	}

	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}

	for _, prefix := range shaderPrefixes {
		idx := strings.Index(line, prefix)
		if idx < 0 {
			continue
		}
		end := idx + len(prefix) + shaderVersionLen
		if end > len(line) {
			continue
		}
		token := line[idx:end]
		if strings.Count(token, "_") != 2 {
			continue
		}
		s.ShaderVersions.add(token)
		s.shaderCtx = shaderNeutral
		return
	}
	// No version token on this line: stay in shaderInCall, the version
	// may appear on a later disassembly line.
}
