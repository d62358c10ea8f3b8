package classify

import "strings"

// vendorHackRenderStateAnchors names the three SetRenderState values that
// may carry a vendor-hack integer in their Value field, alongside the
// literal line-anchor used to confirm which state is present.
var vendorHackRenderStateAnchors = map[string]string{
	"D3DRS_POINTSIZE":        "State = D3DRS_POINTSIZE,",
	"D3DRS_ADAPTIVETESS_X":   "State = D3DRS_ADAPTIVETESS_X,",
	"D3DRS_ADAPTIVETESS_Y":   "State = D3DRS_ADAPTIVETESS_Y,",
}

// dispatchD3D89 applies the D3D8 / D3D9 / D3D9Ex extraction rules to a
// single already-classified call line.
func (s *ParseState) dispatchD3D89(call, line string) {
	switch {
	case strings.Contains(call, "::CheckDeviceFormat"):
		s.extractCheckDeviceFormat(line)

	case strings.Contains(call, "::CreateDevice"):
		s.extractDeviceCreation(line)
		s.extractBehaviorFlags(line)
		s.extractPresentParameters(line)

	case strings.Contains(call, "::SetRenderState"):
		s.extractRenderState(line)

	case strings.Contains(call, "::GetInfo") && s.API == "D3D8":
		if v, ok := extractField(line, "DevInfoID = ", ","); ok {
			n, err := parseDecimalOrHex(v)
			name, known := d3d8QueryTypeNames[n]
			if err != nil || !known {
				name = "Unknown"
			}
			s.QueryTypes.add(name)
		}

	case strings.Contains(call, "::CreateQuery"):
		if v, ok := extractField(line, "Type = ", ","); ok {
			s.QueryTypes.add(v)
		}

	case strings.Contains(call, "::Lock"):
		if !strings.Contains(line, "Flags = 0x0") {
			if v, ok := extractField(line, "Flags = ", ")"); ok {
				addFlagsWithPrefix(&s.LockFlags, v, "D3DLOCK_")
			}
		}

	case strings.Contains(call, "::Create"):
		s.extractGenericCreate(line)
	}
}

func (s *ParseState) extractCheckDeviceFormat(line string) {
	v, ok := extractField(line, "CheckFormat = ", ")")
	if !ok {
		return
	}
	if !isPureDecimal(v) {
		return
	}
	if name, found := vendorHackValues[v]; found {
		s.VendorHackChecks.add("CheckFormat = " + name)
		return
	}
	n, err := parseDecimalOrHex(v)
	if err != nil || n <= 0 {
		return
	}
	decoded, ok := decodeFourCC(n)
	if !ok {
		return
	}
	if isAlnum(strings.TrimSpace(decoded)) && !knownFourCCFormats[decoded] {
		s.warn("unknown-fourcc", "CheckDeviceFormat saw unexpected FOURCC-shaped value: "+decoded)
	}
}

func (s *ParseState) extractDeviceCreation(line string) {
	if v, ok := extractField(line, "DeviceType = ", ","); ok {
		s.DeviceTypes.add(v)
	}
}

func (s *ParseState) extractBehaviorFlags(line string) {
	if v, ok := extractField(line, "BehaviorFlags = ", ","); ok {
		addAllFlags(&s.BehaviorFlags, v)
	}
}

func (s *ParseState) extractPresentParameters(line string) {
	if strings.Contains(line, "pPresentationParameters = ?") {
		return
	}
	body, ok := findAfter(line, "pPresentationParameters = &{")
	if !ok {
		return
	}
	body = readUntil(body, "}")

	if !strings.Contains(body, ", Flags = 0x0") {
		if v, ok := findAfter(body, ", Flags = "); ok {
			addFlagsWithPrefix(&s.PresentParameterFlags, readUntil(v, ","), "")
		}
	}

	for _, pair := range strings.Split(body, ",") {
		pair = strings.TrimSpace(pair)
		key, value, ok := splitKeyValue(pair)
		if !ok || presentParametersSkipped[key] {
			continue
		}
		s.PresentParameters.add(key + " = " + value)
	}
}

func (s *ParseState) extractRenderState(line string) {
	v, ok := extractField(line, "State = ", ",")
	if !ok {
		return
	}
	if !renderStateSkipped[v] {
		s.RenderStates.add(v)
	}

	anchor, tracked := vendorHackRenderStateAnchors[v]
	if !tracked {
		return
	}
	raw, ok := extractField(line, "Value = ", ")")
	if !ok {
		return
	}
	if name, found := s.lookupVendorHackValue(raw, anchor, line); found {
		s.VendorHacks.add(v + " = " + name)
	}
}

// extractGenericCreate runs the three field extractions shared by every
// D3D8/9/9Ex "Create…" call that isn't already handled by a more specific
// rule above: Format, Usage, Pool.
func (s *ParseState) extractGenericCreate(line string) {
	if v, ok := extractField(line, "Format = ", ","); ok {
		s.Formats.add(v)
	}
	if !strings.Contains(line, "Flags = 0x0") {
		if v, ok := findAfter(line, "Usage = "); ok {
			value := readUntilAny(v, ",", ")")
			addFlagsWithPrefix(&s.Usage, value, "D3DUSAGE_")
		}
	}
	if v, ok := extractField(line, "Pool = ", ","); ok {
		s.Pools.add(v)
	}
}
