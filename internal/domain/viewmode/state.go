package viewmode

// View is the current drill-down: empty for the overview, otherwise a
// sector slug.
type View string

// Overview is the landing view.
const Overview View = ""

// State is the explicit UI state passed down by callers. Transitions return
// a new value and never touch data.
type State struct {
	Mode Mode `json:"mode"`
	View View `json:"view"`
}

// NewState starts at the overview of mode m. Unknown modes fall back to
// Public.
func NewState(m Mode) State {
	if !m.Valid() {
		m = Public
	}
	return State{Mode: m, View: Overview}
}

// WithMode switches mode, keeping the current view.
func (s State) WithMode(m Mode) (State, error) {
	if !m.Valid() {
		return s, ErrUnknownViewMode
	}
	s.Mode = m
	return s, nil
}

// WithView drills into v, or back to the overview when v is empty.
func (s State) WithView(v View) State {
	s.View = v
	return s
}

// Config returns the configuration of the current mode.
func (s State) Config() (Config, error) { return Lookup(s.Mode) }
