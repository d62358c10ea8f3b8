// Package classify implements the trace-dump line classifier: the
// consumer half of the producer/consumer pipeline that turns raw apitrace
// text lines into per-trace call-frequency counters.
package classify

// shaderState is the two-state machine tracking whether the next
// non-blank line is expected to be a shader disassembly continuation.
type shaderState int

const (
	shaderNeutral shaderState = iota
	shaderInCall
)

// Counter is a frequency map from a stringified key to a strictly
// positive occurrence count. It is never initialized eagerly: a nil map
// means "never observed" and is omitted from JSON output.
type Counter map[string]int

func (c *Counter) add(key string) {
	if key == "" {
		return
	}
	if *c == nil {
		*c = make(Counter)
	}
	(*c)[key]++
}

// ParseState is the per-trace classifier state. It is a plain value type:
// a new TraceJob gets a zero ParseState, never a re-zeroed shared one, and
// it is mutated only by the single consumer goroutine that owns it for
// the lifetime of that job.
type ParseState struct {
	API            string
	APISkip        bool
	lastCallIndex  int64
	sawCallIndex   bool
	warnedOnDecrease bool

	shaderCtx shaderState

	APICalls               Counter
	VendorHackChecks       Counter
	DeviceTypes            Counter
	BehaviorFlags          Counter
	PresentParameters      Counter
	PresentParameterFlags  Counter
	RenderStates           Counter
	QueryTypes             Counter
	LockFlags              Counter
	ShaderVersions         Counter
	Formats                Counter
	VendorHacks            Counter
	Pools                  Counter
	DeviceFlags            Counter
	SwapchainParameters    Counter
	SwapchainBufferUsage   Counter
	SwapchainFlags         Counter
	FeatureLevels          Counter
	RasterizerStates       Counter
	BlendStates            Counter
	Usage                  Counter
	BindFlags              Counter
	CooperativeLevelFlags  Counter
	FlipFlags              Counter
	SurfaceCaps            Counter
	VertexBufferCaps       Counter

	// ShaderDumpCallIndices accumulates call indices for the optional
	// shader-blob dump secondary pass (pkg/shaderdump), only populated
	// when the job requested it.
	ShaderDumpCallIndices []int64

	warnings []Warning
}

// Warning is a soft, non-fatal event surfaced during classification:
// non-monotonic call indices, API/side-table mismatches, undecodable
// vendor-hack-shaped integers, and the like. The classifier never aborts
// on these; it records them for the caller to log.
type Warning struct {
	Kind string
	Msg  string
}

func (s *ParseState) warn(kind, msg string) {
	s.warnings = append(s.warnings, Warning{Kind: kind, Msg: msg})
}

// Warnings returns the warnings accumulated so far. The slice is owned by
// the caller after return; ParseState keeps appending to its own backing
// array independently.
func (s *ParseState) Warnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}
