package field

import (
	"strconv"
	"strings"

	"scinput/internal/core"
	"scinput/internal/i18n"
)

const (
	artworkLarge   = "-large"
	artworkPreview = "-t200x200"
)

// Row is one labelled, read-only value of the detail view.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TrackDetail is the read-only view of a stored track.
type TrackDetail struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	Rows       []Row  `json:"rows"`
}

// View is the read-only view of a stored field value.
type View struct {
	Type   string        `json:"_type"`
	Tracks []TrackDetail `json:"tracks"`
}

// Render builds the view of every track of data.
func Render(l *i18n.Localizer, data core.SoundcloudData) View {
	view := View{Type: data.Type, Tracks: make([]TrackDetail, 0, len(data.Tracks))}
	for _, t := range data.Tracks {
		view.Tracks = append(view.Tracks, Detail(l, t))
	}
	return view
}

// PreviewArtwork swaps the "large" artwork variant for the 200x200 one.
func PreviewArtwork(artworkURL string) string {
	return strings.Replace(artworkURL, artworkLarge, artworkPreview, 1)
}

// Detail renders a track. Absent values are shown as empty strings.
func Detail(l *i18n.Localizer, t core.Track) TrackDetail {
	return TrackDetail{
		ID:         t.ID,
		Title:      t.Title,
		ArtworkURL: PreviewArtwork(t.ArtworkURL),
		Rows: []Row{
			{Label: l.T("label.title"), Value: t.Title},
			{Label: l.T("label.track_id"), Value: strconv.FormatInt(t.ID, 10)},
			{Label: l.T("label.created_at"), Value: t.CreatedAt},
			{Label: l.T("label.duration"), Value: formatInt(t.Duration)},
			{Label: l.T("label.tag_list"), Value: t.TagList},
			{Label: l.T("label.streamable"), Value: formatBool(t.Streamable)},
			{Label: l.T("label.genre"), Value: t.Genre},
			{Label: l.T("label.description"), Value: t.Description},
			{Label: l.T("label.license"), Value: t.License},
			{Label: l.T("label.uri"), Value: t.URI},
			{Label: l.T("label.stream_url"), Value: t.StreamURL},
			{Label: l.T("label.playback_count"), Value: formatInt(t.PlaybackCount)},
			{Label: l.T("label.favoritings_count"), Value: formatInt(t.FavoritingsCount)},
		},
	}
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
