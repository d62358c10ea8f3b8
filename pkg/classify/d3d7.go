package classify

import "strings"

// dispatchD3D7 applies the DDRAW7/D3D7 extraction rules to a single
// already-classified call line.
func (s *ParseState) dispatchD3D7(call, line string) {
	switch {
	case strings.Contains(call, "IDirectDraw7::SetCooperativeLevel"):
		if v, ok := extractField(line, "dwFlags = ", ")"); ok {
			addAllFlags(&s.CooperativeLevelFlags, v)
		}

	case strings.Contains(call, "IDirectDraw7::CreateSurface"):
		if !strings.Contains(line, "dwCaps = 0x0") {
			if v, ok := extractField(line, "dwCaps = ", ","); ok {
				addAllFlags(&s.SurfaceCaps, v)
			}
		}
		if !strings.Contains(line, "dwCaps2 = 0x0") {
			if v, ok := extractField(line, "dwCaps2 = ", ","); ok {
				addAllFlags(&s.SurfaceCaps, v)
			}
		}

	case strings.Contains(call, "IDirect3D7::CreateVertexBuffer"):
		if !strings.Contains(line, "dwCaps = 0x0") {
			if v, ok := extractField(line, "dwCaps = ", ","); ok {
				if n, err := parseIntLoose(v); err == nil {
					if n&d3dVBCapsSystemMemory != 0 {
						s.VertexBufferCaps.add("D3DVBCAPS_SYSTEMMEMORY")
					}
					if n&d3dVBCapsWriteOnly != 0 {
						s.VertexBufferCaps.add("D3DVBCAPS_WRITEONLY")
					}
					if n&d3dVBCapsOptimized != 0 {
						s.VertexBufferCaps.add("D3DVBCAPS_OPTIMIZED")
					}
					if n&d3dVBCapsDoNotClip != 0 {
						s.VertexBufferCaps.add("D3DVBCAPS_DONOTCLIP")
					}
				}
			}
		}

	case strings.Contains(call, "IDirectDrawSurface7::Flip"):
		if !strings.Contains(line, "dwFlags = 0x0") {
			if v, ok := extractField(line, "dwFlags = ", ")"); ok {
				addAllFlags(&s.FlipFlags, v)
			}
		}

	case strings.Contains(call, "IDirectDrawSurface7::Lock"), strings.Contains(call, "IDirect3DVertexBuffer7::Lock"):
		if !strings.Contains(line, "dwFlags = 0x0") {
			if v, ok := extractLastD3D7LockFlags(line); ok {
				addFlagsWithPrefix(&s.LockFlags, v, "DDLOCK_")
			}
		}

	case strings.Contains(call, "IDirect3DDevice7::SetRenderState"):
		if v, ok := findAfter(line, "D3DRENDERSTATE_"); ok {
			name := readUntil(v, ",")
			s.RenderStates.add("D3DRENDERSTATE_" + name)
		}

	case strings.Contains(call, "IDirect3D7::CreateDevice"):
		if v, ok := extractField(line, "rclsid = ", ","); ok {
			s.DeviceTypes.add(v)
		}
	}
}

// extractLastD3D7LockFlags reads the rightmost "dwFlags = …," pair on a
// surface/buffer Lock line: surface locks carry two such pairs (one for
// the rect, one for the lock itself) and only the final one is the flag
// set we want.
func extractLastD3D7LockFlags(line string) (string, bool) {
	anchor := "dwFlags = "
	last := strings.LastIndex(line, anchor)
	if last < 0 {
		return "", false
	}
	rest := line[last+len(anchor):]
	return readUntil(rest, ","), true
}

func parseIntLoose(s string) (int64, error) {
	return parseDecimalOrHex(strings.TrimSpace(s))
}
