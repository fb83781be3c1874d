package soundcloud

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"scinput/internal/core"
)

var ErrMalformedResponse = errors.New("malformed response body")

// Normalize extracts the ordered track list from a SoundCloud response. The first
// matching shape wins:
//
//	{"kind":"track", ...}                 -> the object itself
//	{"kind":"playlist","tracks":[...]}    -> tracks
//	{"collection":[...]}                  -> collection
//	[...]                                 -> the array
//
// Any other shape yields an empty, non-nil list. List elements without a
// numeric id are dropped; optional fields of the wrong type are left unset.
func Normalize(body []byte) ([]core.Track, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	root := gjson.ParseBytes(body)

	if root.IsObject() {
		kind := root.Get("kind")
		if kind.Type == gjson.String && kind.Str == "track" {
			track, err := decodeTrack(root)
			if err != nil {
				return nil, fmt.Errorf("failed to decode track: %w", err)
			}
			return []core.Track{track}, nil
		}

		if tracks := root.Get("tracks"); kind.Str == "playlist" && tracks.IsArray() {
			return decodeTracks(tracks), nil
		}

		if collection := root.Get("collection"); collection.IsArray() {
			return decodeTracks(collection), nil
		}
	}

	if root.IsArray() {
		return decodeTracks(root), nil
	}

	return []core.Track{}, nil
}

func decodeTracks(list gjson.Result) []core.Track {
	items := list.Array()
	tracks := make([]core.Track, 0, len(items))
	for _, item := range items {
		track, err := decodeTrack(item)
		if err != nil {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// decodeTrack decodes one track object. A numeric id is required. When the
// object does not fit core.Track exactly, each field is extracted on its own.
func decodeTrack(item gjson.Result) (core.Track, error) {
	if !item.IsObject() || item.Get("id").Type != gjson.Number {
		return core.Track{}, fmt.Errorf("%w: track without a numeric id", ErrMalformedResponse)
	}

	var track core.Track
	if err := json.Unmarshal([]byte(item.Raw), &track); err == nil {
		return track, nil
	}

	return core.Track{
		ID:               item.Get("id").Int(),
		Kind:             stringField(item.Get("kind")),
		Title:            stringField(item.Get("title")),
		ReleaseDate:      stringPtr(item.Get("release_date")),
		CreatedAt:        stringField(item.Get("created_at")),
		Duration:         int64Ptr(item.Get("duration")),
		TagList:          stringField(item.Get("tag_list")),
		Streamable:       boolPtr(item.Get("streamable")),
		PurchaseURL:      stringField(item.Get("purchase_url")),
		Genre:            stringField(item.Get("genre")),
		Description:      stringField(item.Get("description")),
		ReleaseYear:      intPtr(item.Get("release_year")),
		ReleaseMonth:     intPtr(item.Get("release_month")),
		ReleaseDay:       intPtr(item.Get("release_day")),
		License:          stringField(item.Get("license")),
		URI:              stringField(item.Get("uri")),
		PermalinkURL:     stringField(item.Get("permalink_url")),
		User:             userField(item.Get("user")),
		ArtworkURL:       stringField(item.Get("artwork_url")),
		WaveformURL:      stringField(item.Get("waveform_url")),
		StreamURL:        stringField(item.Get("stream_url")),
		PlaybackCount:    int64Ptr(item.Get("playback_count")),
		FavoritingsCount: int64Ptr(item.Get("favoritings_count")),
	}, nil
}

func stringField(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return ""
}

func stringPtr(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}

// int64Ptr accepts JSON numbers and numeric strings.
func int64Ptr(r gjson.Result) *int64 {
	switch r.Type {
	case gjson.Number:
		v := r.Int()
		return &v
	case gjson.String:
		v, err := strconv.ParseInt(r.Str, 10, 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}

func intPtr(r gjson.Result) *int {
	v := int64Ptr(r)
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func boolPtr(r gjson.Result) *bool {
	if r.Type != gjson.True && r.Type != gjson.False {
		return nil
	}
	b := r.Bool()
	return &b
}

func userField(r gjson.Result) *core.User {
	if !r.IsObject() {
		return nil
	}
	user := &core.User{
		Username:     stringField(r.Get("username")),
		PermalinkURL: stringField(r.Get("permalink_url")),
	}
	if id := int64Ptr(r.Get("id")); id != nil {
		user.ID = *id
	}
	return user
}
