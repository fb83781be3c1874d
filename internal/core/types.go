package core

import (
	"context"

	"github.com/goccy/go-json"
)

// TypeSoundcloud is the type discriminator of a committed field value.
const TypeSoundcloud = "soundcloud"

// Credentials identify the SoundCloud app and the account whose uploads are listed.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserID       string
}

// Complete reports whether every credential is present.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.UserID != ""
}

// Missing returns the names of the absent credentials.
func (c Credentials) Missing() []string {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.UserID == "" {
		missing = append(missing, "user_id")
	}
	return missing
}

// Track is one SoundCloud audio item. Only ID is guaranteed; everything else
// is passed through from the upstream response as-is.
type Track struct {
	ID               int64   `json:"id"`
	Kind             string  `json:"kind,omitempty"`
	Title            string  `json:"title,omitempty"`
	ReleaseDate      *string `json:"release_date,omitempty"`
	CreatedAt        string  `json:"created_at,omitempty"`
	Duration         *int64  `json:"duration,omitempty"`
	TagList          string  `json:"tag_list,omitempty"`
	Streamable       *bool   `json:"streamable,omitempty"`
	PurchaseURL      string  `json:"purchase_url,omitempty"`
	Genre            string  `json:"genre,omitempty"`
	Description      string  `json:"description,omitempty"`
	ReleaseYear      *int    `json:"release_year,omitempty"`
	ReleaseMonth     *int    `json:"release_month,omitempty"`
	ReleaseDay       *int    `json:"release_day,omitempty"`
	License          string  `json:"license,omitempty"`
	URI              string  `json:"uri,omitempty"`
	PermalinkURL     string  `json:"permalink_url,omitempty"`
	User             *User   `json:"user,omitempty"`
	ArtworkURL       string  `json:"artwork_url,omitempty"`
	WaveformURL      string  `json:"waveform_url,omitempty"`
	StreamURL        string  `json:"stream_url,omitempty"`
	PlaybackCount    *int64  `json:"playback_count,omitempty"`
	FavoritingsCount *int64  `json:"favoritings_count,omitempty"`
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
}

// SoundcloudData is the value committed to a document field.
type SoundcloudData struct {
	Type   string  `json:"_type"`
	Tracks []Track `json:"tracks"`
}

// NewSoundcloudData copies tracks into a new field value.
func NewSoundcloudData(tracks []Track) SoundcloudData {
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return SoundcloudData{Type: TypeSoundcloud, Tracks: out}
}

// Resolution is the outcome of resolving one query.
type Resolution struct {
	Query  string
	Tracks []Track
	// Raw is the unmodified response body, kept for diagnostics.
	Raw json.RawMessage
}

// SoundCloudAPI is the upstream surface a selection session drives.
type SoundCloudAPI interface {
	AcquireToken(ctx context.Context, creds Credentials) (string, error)
	ListUploads(ctx context.Context, token, userID string) ([]Track, error)
	Resolve(ctx context.Context, token, query string) (*Resolution, error)
}

// FieldSink receives committed values on behalf of the host document.
type FieldSink interface {
	Set(ctx context.Context, data SoundcloudData) error
	Unset(ctx context.Context) error
}
