package session

import (
	"github.com/goccy/go-json"

	"scinput/internal/core"
)

// Snapshot is a read-only copy of the session state for rendering. Only the
// fields of the active mode are filled.
type Snapshot struct {
	Phase   Phase    `json:"phase"`
	Mode    ModeKind `json:"mode"`
	Busy    bool     `json:"busy"`
	Failure *Failure `json:"failure,omitempty"`

	// Notice confirms the last successful commit or reset.
	Notice  string   `json:"notice,omitempty"`
	Prompt  string   `json:"prompt"`
	Actions []Action `json:"actions"`

	// List mode. Selection is what Confirm would commit.
	Candidates []core.Track `json:"candidates,omitempty"`
	Slots      []*int64     `json:"slots,omitempty"`
	Selection  []core.Track `json:"selection,omitempty"`

	// Resolve mode.
	Queries []string `json:"queries,omitempty"`

	// Mixed mode.
	Mixed      []core.Track `json:"mixed,omitempty"`
	PickerOpen bool         `json:"picker_open,omitempty"`
	Picker     []core.Track `json:"picker,omitempty"`

	RawResponses []json.RawMessage `json:"raw_responses,omitempty"`
}

// Action is a control the editor form offers in the current mode.
type Action struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:  s.phase,
		Mode:   s.mode.Kind(),
		Busy:   s.busy,
		Notice: s.notice,
	}
	if s.failure != nil {
		f := *s.failure
		snap.Failure = &f
	}

	switch m := s.mode.clone().(type) {
	case *ListMode:
		snap.Candidates = m.candidates
		snap.Slots = m.slots
		snap.Selection = m.selection()
	case *ResolveMode:
		snap.Queries = m.queries
	case *MixedMode:
		snap.Mixed = m.tracks
		snap.PickerOpen = m.pickerOpen
		if m.pickerOpen {
			snap.Picker = m.uploads
		}
	}

	snap.Prompt, snap.Actions = s.controls(snap.Mode, snap.PickerOpen)

	if len(s.raw) > 0 {
		snap.RawResponses = append([]json.RawMessage(nil), s.raw...)
	}
	return snap
}

// controls returns the localized prompt and actions of a mode. Callers hold s.mu.
func (s *Session) controls(kind ModeKind, pickerOpen bool) (string, []Action) {
	var names []string
	prompt := "prompt.select_track"
	switch kind {
	case ModeList:
		names = []string{"fetch_uploads", "add_track"}
	case ModeResolve:
		prompt = "prompt.resolve_url"
		names = []string{"add_track"}
	case ModeMixed:
		if !pickerOpen {
			prompt = "prompt.resolve_url"
		}
		names = []string{"fetch_uploads", "add_url"}
	}
	names = append(names, "confirm", "reset")

	actions := make([]Action, 0, len(names))
	for _, name := range names {
		actions = append(actions, Action{Name: name, Label: s.localizer.T("button." + name)})
	}
	return s.localizer.T(prompt), actions
}
