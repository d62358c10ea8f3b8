package classify

// entryCall pairs an API entrypoint substring with the API family it
// identifies. Order matters: the first matching entry wins, which is why
// Direct3DCreate9Ex must be checked before Direct3DCreate9.
type entryCall struct {
	substr string
	api    string
}

// entryCalls is searched in order on the first API-qualifying line of a
// trace. D3D9Ex must precede D3D9 or every D3D9Ex trace would be
// misdetected as plain D3D9.
var entryCalls = []entryCall{
	{"DirectDrawCreateEx", "D3D7"},
	{"Direct3DCreate8", "D3D8"},
	{"Direct3DCreate9Ex", "D3D9Ex"},
	{"Direct3DCreate9", "D3D9"},
	{"D3D10CreateDeviceAndSwapChain1", "D3D10"},
	{"D3D10CreateDevice1", "D3D10"},
	{"D3D10CreateDeviceAndSwapChain", "D3D10"},
	{"D3D10CreateDevice", "D3D10"},
	{"D3D10CoreCreateDevice", "D3D10"},
	{"D3D11CreateDeviceAndSwapChain", "D3D11"},
	{"D3D11CreateDevice", "D3D11"},
	{"D3D11CoreCreateDevice", "D3D11"},
}

// baseCalls widens entryCalls with non-entrypoint substrings that still
// mark a line as API-qualifying (DXGI factory creation never establishes
// an API family on its own, but its presence means the line is a real
// call and not noise).
var baseCalls = buildBaseCalls()

func buildBaseCalls() []string {
	calls := make([]string, 0, len(entryCalls)+4)
	for _, e := range entryCalls {
		calls = append(calls, e.substr)
	}
	calls = append(calls,
		"DirectDrawEnumerateExA",
		"CreateDXGIFactory",
		"CreateDXGIFactory1",
		"CreateDXGIFactory2",
	)
	return calls
}

// apiOverrides maps a binary's raw (pre-truncation) name to the API family
// it is known to actually use, for traces whose detected entrypoint API
// disagrees with the side table's pre-known value for an understood
// reason (engine quirks, not detection bugs).
var apiOverrides = map[string]string{
	"wargame_":    "D3D9Ex",
	"xrEngine___": "D3D10",
	"RebelGalaxy": "D3D11",
}

// vendorHackValues maps the decimal-string representation of a D3D
// integer parameter to the vendor-hack name it encodes. These are either
// real FOURCCs or plain sentinel integers that driver vendors repurposed
// as an out-of-band signal.
var vendorHackValues = map[string]string{
	"1515406674": "RESZ",
	"2141212672": "RESZ_ENABLE",
	"1414745673": "INST",
	"827142721":  "A2M1",
	"810365505":  "A2M0",
	"1112945234": "R2VB",
	"1414415683": "CENT",
	"1093815368": "HL2A",
	"826953539":  "COJ1",
	"808931924":  "TR70",
	"1162692948": "TIME",
	"1282302283": "KanL",
	"1129272385": "ATOC",
	"1094800211": "SSAA",
	"1297108803": "COPM",
	"1111774798": "NVDB",
}

// knownFourCCFormats whitelists FOURCC decodes that are real pixel formats
// rather than a vendor hack, so they don't trigger a spurious warning.
var knownFourCCFormats = map[string]bool{
	"EXT1": true, "FXT1": true, "GXT1": true, "HXT1": true,
	"AL16": true, "AR16": true, " R16": true, " L16": true,
	"DAA1": true, "DAA8": true, "DAOP": true, "DAOT": true,
}

// pointsizeHackLow/High bound the undocumented ATI/AMD range used to
// enable/disable and configure vendor-specific behavior through the
// D3DRS_POINTSIZE render state.
const (
	pointsizeHackLow  = 2141192192
	pointsizeHackHigh = 2141257728
)

// d3d8QueryTypeNames decodes the DevInfoID integer passed to
// IDirect3DDevice8::GetInfo; these values aren't documented in any D3D8
// header.
var d3d8QueryTypeNames = map[int64]string{
	1: "D3DDEVINFOID_TEXTUREMANAGER",
	2: "D3DDEVINFOID_D3DTEXTUREMANAGER",
	3: "D3DDEVINFOID_TEXTURING",
	4: "D3DDEVINFOID_VCACHE",
	5: "D3DDEVINFOID_RESOURCEMANAGER",
	6: "D3DDEVINFOID_VERTEXSTATS",
}

// D3D7 vertex buffer capability bitmasks. apitrace does not decode these
// on its own, so the bit tests are done here.
const (
	d3dVBCapsSystemMemory = 0x00000800
	d3dVBCapsWriteOnly    = 0x00010000
	d3dVBCapsOptimized    = 0x80000000
	d3dVBCapsDoNotClip    = 0x00000001
)

// renderStateSkipped lists SetRenderState values that are known-bad
// garbage from buggy titles (Force Unleashed sets -1, Gun Metal sets the
// undefined value 99) and are intentionally dropped rather than recorded.
var renderStateSkipped = map[string]bool{
	"-1": true,
	"99": true,
}

// swapchainParametersCaptured is the set of swap-chain descriptor
// keys worth recording; everything else in the descriptor body is noise.
var swapchainParametersCaptured = map[string]bool{
	"AlphaMode": true, "BufferCount": true, "BufferUsage": true,
	"Flags": true, "Format": true, "ScanlineOrdering": true,
	"Quality": true, "Count": true, "Scaling": true,
	"Stereo": true, "SwapEffect": true,
}

// presentParametersSkipped lists D3DPRESENT_PARAMETERS fields that carry
// no statistical interest (window geometry, handles, refresh rate).
var presentParametersSkipped = map[string]bool{
	"Flags": true, "BackBufferWidth": true, "BackBufferHeight": true,
	"hDeviceWindow": true, "Windowed": true, "FullScreen_RefreshRateInHz": true,
}

// rasterizerStateSkipped lists D3D10/11 rasterizer descriptor fields that
// are numeric tuning knobs rather than discrete states worth counting.
var rasterizerStateSkipped = map[string]bool{
	"DepthBias": true, "DepthBiasClamp": true, "SlopeScaledDepthBias": true,
}

// shaderPrefixes are the six HLSL shader-model prefixes recognized on a
// shader-disassembly continuation line.
var shaderPrefixes = []string{"vs_", "ps_", "cs_", "ds_", "gs_", "hs_"}
