package field

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"scinput/internal/core"
	"scinput/internal/i18n"
	"scinput/internal/store"
)

type failingStore struct {
	store.DocumentStore
}

func (failingStore) Put(context.Context, string, core.SoundcloudData) error {
	return errors.New("disk full")
}

func TestBinding_SetUnset(t *testing.T) {
	st := store.NewMemoryStore()
	binding := NewBinding(st, "doc-1", zap.NewNop())
	ctx := context.Background()

	if err := binding.Set(ctx, core.NewSoundcloudData([]core.Track{{ID: 1}})); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := st.Get(ctx, "doc-1")
	if err != nil || len(got.Tracks) != 1 {
		t.Fatalf("stored value = %+v, %v, expected one track", got, err)
	}

	if err := binding.Unset(ctx); err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	if _, err := st.Get(ctx, "doc-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after Unset error = %v, expected ErrNotFound", err)
	}
}

func TestBinding_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data core.SoundcloudData
	}{
		{name: "Empty track list", data: core.NewSoundcloudData(nil)},
		{name: "Wrong type", data: core.SoundcloudData{Type: "youtube", Tracks: []core.Track{{ID: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			binding := NewBinding(st, "doc", zap.NewNop())

			if err := binding.Set(context.Background(), tt.data); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Set() error = %v, expected ErrInvalidValue", err)
			}
			if _, err := st.Get(context.Background(), "doc"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Get() error = %v, expected ErrNotFound after an invalid value", err)
			}
		})
	}
}

func TestBinding_StoreError(t *testing.T) {
	binding := NewBinding(failingStore{}, "doc", zap.NewNop())

	err := binding.Set(context.Background(), core.NewSoundcloudData([]core.Track{{ID: 1}}))
	if err == nil {
		t.Fatal("Set() error = nil, expected the store error")
	}
}

func TestPreviewArtwork(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "Large variant",
			url:      "https://i1.sndcdn.com/artworks-000-abc-large.jpg",
			expected: "https://i1.sndcdn.com/artworks-000-abc-t200x200.jpg",
		},
		{
			name:     "Other variant untouched",
			url:      "https://i1.sndcdn.com/artworks-000-abc-t500x500.jpg",
			expected: "https://i1.sndcdn.com/artworks-000-abc-t500x500.jpg",
		},
		{
			name:     "Empty",
			url:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviewArtwork(tt.url); got != tt.expected {
				t.Errorf("PreviewArtwork() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestDetail(t *testing.T) {
	duration := int64(215000)
	streamable := true
	track := core.Track{
		ID:         123,
		Title:      "Song",
		Duration:   &duration,
		Streamable: &streamable,
		Genre:      "House",
		ArtworkURL: "https://i1.sndcdn.com/a-large.jpg",
	}

	detail := Detail(i18n.NewLocalizer("en"), track)

	if detail.ArtworkURL != "https://i1.sndcdn.com/a-t200x200.jpg" {
		t.Errorf("ArtworkURL = %q, expected the preview variant", detail.ArtworkURL)
	}

	rows := make(map[string]string, len(detail.Rows))
	for _, row := range detail.Rows {
		rows[row.Label] = row.Value
	}

	expected := map[string]string{
		"Track ID":          "123",
		"Duration":          "215000",
		"Streamable":        "true",
		"Genre":             "House",
		"Playback Count":    "",
		"Favoritings Count": "",
		"License":           "",
	}
	for label, want := range expected {
		got, ok := rows[label]
		if !ok {
			t.Errorf("row %q missing", label)
			continue
		}
		if got != want {
			t.Errorf("row %q = %q, expected %q", label, got, want)
		}
	}
}

func TestRender_German(t *testing.T) {
	view := Render(i18n.NewLocalizer("de"), core.NewSoundcloudData([]core.Track{{ID: 1}, {ID: 2}}))

	if view.Type != core.TypeSoundcloud || len(view.Tracks) != 2 {
		t.Fatalf("Render() = %+v, expected two tracks", view)
	}
	if view.Tracks[0].Rows[1].Label != "Track-ID" {
		t.Errorf("label = %q, expected German label", view.Tracks[0].Rows[1].Label)
	}
}
