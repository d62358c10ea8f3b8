package aggregate

import (
	"encoding/json"

	"github.com/wintersnowfall/tracestats/pkg/classify"
)

// categoryField binds one JSON category key to the ParseState field that
// feeds it. Declared in the same order as spec.md's data model table
// purely for readability; actual JSON key order is alphabetical (see
// TraceResult.MarshalJSON).
type categoryField struct {
	key string
	get func(*classify.ParseState) classify.Counter
}

var categoryFields = []categoryField{
	{"api_calls", func(s *classify.ParseState) classify.Counter { return s.APICalls }},
	{"vendor_hack_checks", func(s *classify.ParseState) classify.Counter { return s.VendorHackChecks }},
	{"device_types", func(s *classify.ParseState) classify.Counter { return s.DeviceTypes }},
	{"behavior_flags", func(s *classify.ParseState) classify.Counter { return s.BehaviorFlags }},
	{"present_parameters", func(s *classify.ParseState) classify.Counter { return s.PresentParameters }},
	{"present_parameter_flags", func(s *classify.ParseState) classify.Counter { return s.PresentParameterFlags }},
	{"render_states", func(s *classify.ParseState) classify.Counter { return s.RenderStates }},
	{"query_types", func(s *classify.ParseState) classify.Counter { return s.QueryTypes }},
	{"lock_flags", func(s *classify.ParseState) classify.Counter { return s.LockFlags }},
	{"shader_versions", func(s *classify.ParseState) classify.Counter { return s.ShaderVersions }},
	{"formats", func(s *classify.ParseState) classify.Counter { return s.Formats }},
	{"vendor_hacks", func(s *classify.ParseState) classify.Counter { return s.VendorHacks }},
	{"pools", func(s *classify.ParseState) classify.Counter { return s.Pools }},
	{"device_flags", func(s *classify.ParseState) classify.Counter { return s.DeviceFlags }},
	{"swapchain_parameters", func(s *classify.ParseState) classify.Counter { return s.SwapchainParameters }},
	{"swapchain_buffer_usage", func(s *classify.ParseState) classify.Counter { return s.SwapchainBufferUsage }},
	{"swapchain_flags", func(s *classify.ParseState) classify.Counter { return s.SwapchainFlags }},
	{"feature_levels", func(s *classify.ParseState) classify.Counter { return s.FeatureLevels }},
	{"rastizer_states", func(s *classify.ParseState) classify.Counter { return s.RasterizerStates }},
	{"blend_states", func(s *classify.ParseState) classify.Counter { return s.BlendStates }},
	{"usage", func(s *classify.ParseState) classify.Counter { return s.Usage }},
	{"bind_flags", func(s *classify.ParseState) classify.Counter { return s.BindFlags }},
	{"cooperative_level_flags", func(s *classify.ParseState) classify.Counter { return s.CooperativeLevelFlags }},
	{"flip_flags", func(s *classify.ParseState) classify.Counter { return s.FlipFlags }},
	{"surface_caps", func(s *classify.ParseState) classify.Counter { return s.SurfaceCaps }},
	{"vertex_buffer_caps", func(s *classify.ParseState) classify.Counter { return s.VertexBufferCaps }},
}

// TraceResult is one trace's finalized, immutable summary.
type TraceResult struct {
	BinaryName string
	Name       string
	Link       *string

	categories map[string]classify.Counter
}

// BuildResult assembles a TraceResult from a drained ParseState, omitting
// any category whose counter never received an entry.
func BuildResult(binaryName, name string, link *string, state *classify.ParseState) TraceResult {
	categories := make(map[string]classify.Counter, len(categoryFields))
	for _, f := range categoryFields {
		if c := f.get(state); len(c) > 0 {
			categories[f.key] = c
		}
	}
	return TraceResult{
		BinaryName: binaryName,
		Name:       name,
		Link:       link,
		categories: categories,
	}
}

// MarshalJSON renders the fixed top-level fields plus every present
// category as one flat object. Building it as a map rather than a struct
// is deliberate: encoding/json sorts map keys alphabetically, which is
// exactly the serialization order spec.md requires, without hand-rolling
// a key-order comparator.
func (r TraceResult) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(r.categories)+3)
	obj["binary_name"] = r.BinaryName
	obj["name"] = r.Name
	if r.Link != nil {
		obj["link"] = *r.Link
	}
	for key, counter := range r.categories {
		obj[key] = counter
	}
	return json.Marshal(obj)
}
