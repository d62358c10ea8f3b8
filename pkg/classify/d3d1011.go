package classify

import "strings"

// dispatchD3D1011 applies the D3D10 / D3D11 extraction rules to a single
// already-classified call line.
func (s *ParseState) dispatchD3D1011(call, line string) {
	if strings.Contains(call, "CreateDevice") {
		s.extractDeviceFlagsAndFeatureLevels(line)
	}

	// CreateDeviceAndSwapChain must hit both the device-flags branch above
	// and this one, so this is a second independent check, not an else-if.
	if strings.Contains(call, "CreateSwapChain") || strings.Contains(call, "CreateDeviceAndSwapChain") {
		s.extractSwapchainParameters(line)
		return
	}

	switch {
	case strings.Contains(call, "::CreateQuery"):
		if v, ok := extractField(line, "Query = ", ","); ok {
			s.QueryTypes.add(v)
		}

	case strings.Contains(call, "::CreateRasterizerState"):
		s.extractRasterizerState(line)

	case strings.Contains(call, "::CreateBlendState"):
		s.extractBlendState(line)

	case strings.Contains(call, "::Create"):
		s.extractGenericCreateD3D1011(line)
	}
}

func (s *ParseState) extractDeviceFlagsAndFeatureLevels(line string) {
	if !strings.Contains(line, "Flags = 0x0") {
		if v, ok := extractField(line, "Flags = ", ","); ok {
			addAllFlags(&s.DeviceFlags, v)
		}
	}

	if strings.Contains(line, "pFeatureLevels = NULL") {
		return
	}
	if v, ok := extractField(line, "pFeatureLevels = {", "}"); ok {
		for _, fl := range strings.Split(v, ",") {
			s.FeatureLevels.add(strings.TrimSpace(fl))
		}
		return
	}
	if v, ok := extractField(line, "pFeatureLevels = &", ","); ok {
		s.FeatureLevels.add(v)
	}
}

func (s *ParseState) extractSwapchainParameters(line string) {
	if strings.Contains(line, "pDesc = NULL") || strings.Contains(line, "pSwapChainDesc = NULL") {
		return
	}

	startAnchor := "pSwapChainDesc = &{"
	if strings.Contains(line, "pDesc = &{") {
		startAnchor = "pDesc = &{"
	}
	endAnchor := "}, ppSwapChain ="
	if strings.Contains(line, "}, pFullscreenDesc =") {
		endAnchor = "}, pFullscreenDesc ="
	}

	body, ok := extractField(line, startAnchor, endAnchor)
	if !ok {
		return
	}
	// Flatten the nested SampleDesc braces into the same comma delimiter
	// used for the rest of the descriptor body.
	body = strings.NewReplacer("{", ",", "}", ",").Replace(body)

	for _, field := range strings.Split(body, ",") {
		key, value, ok := splitKeyValue(strings.TrimSpace(field))
		if !ok || !swapchainParametersCaptured[key] || value == "0x0" {
			continue
		}

		switch key {
		case "BufferUsage":
			addAllFlags(&s.SwapchainBufferUsage, value)
		case "Flags":
			addAllFlags(&s.SwapchainFlags, value)
		case "Count", "Quality":
			s.SwapchainParameters.add("SampleDesc " + key + " = " + value)
		default:
			s.SwapchainParameters.add(key + " = " + value)
		}
	}
}

func (s *ParseState) extractRasterizerState(line string) {
	v, ok := extractField(line, "pRasterizerDesc = &{", "}")
	if !ok {
		return
	}
	for _, field := range strings.Split(v, ",") {
		key, _, ok := splitKeyValue(strings.TrimSpace(field))
		if !ok || rasterizerStateSkipped[key] {
			continue
		}
		s.RasterizerStates.add(strings.TrimSpace(field))
	}
}

func (s *ParseState) extractBlendState(line string) {
	rest, ok := findAfter(line, "pBlendStateDesc = &{")
	if !ok {
		return
	}
	body := readUntilAny(rest, ", RenderTarget = ", ", BlendEnable = ")
	for _, field := range strings.Split(body, ",") {
		s.BlendStates.add(strings.TrimSpace(field))
	}
}

// extractGenericCreateD3D1011 mirrors the reference tool's D3D10/11
// generic-Create branch: Format (trailing '}' stripped), Usage (raw
// single value, recorded only when it does NOT contain "DXGI_USAGE_" —
// preserved exactly as the behavior was written, despite looking
// backwards), and BindFlags.
func (s *ParseState) extractGenericCreateD3D1011(line string) {
	if v, ok := extractField(line, "Format = ", ","); ok {
		s.Formats.add(strings.ReplaceAll(v, "}", ""))
	}
	if v, ok := extractField(line, "Usage = ", ","); ok {
		v = strings.ReplaceAll(v, "}", "")
		if !strings.Contains(v, "DXGI_USAGE_") {
			s.Usage.add(v)
		}
	}
	if !strings.Contains(line, "BindFlags = 0x0") {
		if v, ok := extractField(line, "BindFlags = ", ","); ok {
			addAllFlags(&s.BindFlags, v)
		}
	}
}
