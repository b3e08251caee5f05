package form

// State tracks the processing metadata of one form through a single
// build/submit cycle: build info, submitted values, field errors, and
// lifecycle flags. The build pipeline owns it; event consumers treat it as
// an opaque read-only handle.
type State struct {
	buildInfo map[string]any
	values    map[string]any
	errors    map[string]string
	submitted bool
	rebuild   bool
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		buildInfo: make(map[string]any),
		values:    make(map[string]any),
		errors:    make(map[string]string),
	}
}

// BuildInfo returns the build-info mapping. It carries keys like "form_id",
// "base_form_id", and "form_build_id", stamped by the builder.
func (s *State) BuildInfo() map[string]any {
	if s.buildInfo == nil {
		s.buildInfo = make(map[string]any)
	}
	return s.buildInfo
}

// SetBuildInfo stores value under key in the build-info mapping.
func (s *State) SetBuildInfo(key string, value any) *State {
	s.BuildInfo()[key] = value
	return s
}

// BaseFormID returns the "base_form_id" build-info entry. ok is false when
// the key is absent or not a string.
func (s *State) BaseFormID() (string, bool) {
	id, ok := s.BuildInfo()["base_form_id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// BuildID returns the "form_build_id" build-info entry, or "".
func (s *State) BuildID() string {
	id, _ := s.BuildInfo()["form_build_id"].(string)
	return id
}

// ─── Submitted values ─────────────────────────────────────────────────────────

// SetValue records a submitted value for an element key.
func (s *State) SetValue(key string, value any) *State {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = value
	return s
}

// Value returns the submitted value for key, or nil.
func (s *State) Value(key string) any {
	return s.values[key]
}

// Values returns the full submitted-values mapping.
func (s *State) Values() map[string]any {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return s.values
}

// ─── Errors ───────────────────────────────────────────────────────────────────

// SetError records a validation error against an element key. The first
// error per key wins.
func (s *State) SetError(key, message string) *State {
	if s.errors == nil {
		s.errors = make(map[string]string)
	}
	if _, exists := s.errors[key]; !exists {
		s.errors[key] = message
	}
	return s
}

// Errors returns the element-keyed validation error map.
func (s *State) Errors() map[string]string {
	if s.errors == nil {
		s.errors = make(map[string]string)
	}
	return s.errors
}

// HasErrors reports whether any validation error was recorded.
func (s *State) HasErrors() bool { return len(s.errors) > 0 }

// ─── Lifecycle flags ──────────────────────────────────────────────────────────

// MarkSubmitted flags the form as submitted.
func (s *State) MarkSubmitted() *State {
	s.submitted = true
	return s
}

// Submitted reports whether the form was submitted.
func (s *State) Submitted() bool { return s.submitted }

// SetRebuild asks the pipeline to rebuild the form after processing
// (multi-step forms).
func (s *State) SetRebuild(rebuild bool) *State {
	s.rebuild = rebuild
	return s
}

// Rebuild reports whether a rebuild was requested.
func (s *State) Rebuild() bool { return s.rebuild }
