package session

import (
	"scinput/internal/core"
)

// ModeKind names a selection mode.
type ModeKind string

const (
	// ModeList picks tracks from the user's uploads, one per slot.
	ModeList ModeKind = "list"
	// ModeResolve resolves one or more URLs and commits the result directly.
	ModeResolve ModeKind = "resolve"
	// ModeMixed collects tracks from uploads and URLs into one list.
	ModeMixed ModeKind = "mixed"
)

// Valid reports whether k is a known mode.
func (k ModeKind) Valid() bool {
	switch k {
	case ModeList, ModeResolve, ModeMixed:
		return true
	}
	return false
}

// Mode is the accumulator of one selection mode. It is one of *ListMode,
// *ResolveMode or *MixedMode.
type Mode interface {
	Kind() ModeKind
	clone() Mode
}

// ListMode holds the fetched uploads and the slot selections over them.
type ListMode struct {
	candidates []core.Track
	// slots hold chosen track ids; nil is an empty slot.
	slots []*int64
}

func (m *ListMode) Kind() ModeKind { return ModeList }

func (m *ListMode) clone() Mode {
	out := &ListMode{
		candidates: append([]core.Track(nil), m.candidates...),
		slots:      make([]*int64, len(m.slots)),
	}
	for i, id := range m.slots {
		if id != nil {
			v := *id
			out.slots[i] = &v
		}
	}
	return out
}

func (m *ListMode) candidate(id int64) (core.Track, bool) {
	for _, t := range m.candidates {
		if t.ID == id {
			return t, true
		}
	}
	return core.Track{}, false
}

// selection maps every filled slot to its candidate, in slot order. Duplicate
// selections are kept.
func (m *ListMode) selection() []core.Track {
	var out []core.Track
	for _, id := range m.slots {
		if id == nil {
			continue
		}
		if t, ok := m.candidate(*id); ok {
			out = append(out, t)
		}
	}
	return out
}

// ResolveMode holds the query inputs.
type ResolveMode struct {
	queries []string
}

func (m *ResolveMode) Kind() ModeKind { return ModeResolve }

func (m *ResolveMode) clone() Mode {
	return &ResolveMode{queries: append([]string(nil), m.queries...)}
}

// MixedMode holds the accumulated list and the upload cache behind the picker.
type MixedMode struct {
	tracks        []core.Track
	uploads       []core.Track
	uploadsLoaded bool
	pickerOpen    bool
}

func (m *MixedMode) Kind() ModeKind { return ModeMixed }

func (m *MixedMode) clone() Mode {
	return &MixedMode{
		tracks:        append([]core.Track(nil), m.tracks...),
		uploads:       append([]core.Track(nil), m.uploads...),
		uploadsLoaded: m.uploadsLoaded,
		pickerOpen:    m.pickerOpen,
	}
}

func (m *MixedMode) upload(id int64) (core.Track, bool) {
	for _, t := range m.uploads {
		if t.ID == id {
			return t, true
		}
	}
	return core.Track{}, false
}

func newMode(kind ModeKind) Mode {
	switch kind {
	case ModeResolve:
		return &ResolveMode{queries: []string{""}}
	case ModeMixed:
		return &MixedMode{}
	default:
		return &ListMode{}
	}
}
