package soundcloud

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"go.uber.org/zap"

	"scinput/internal/core"
)

// releaseDateLayouts are the formats SoundCloud has used for release_date.
var releaseDateLayouts = []string{
	time.RFC3339,
	"2006/01/02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ListUploads returns the playable uploads of userID, newest release first.
func (c *Client) ListUploads(ctx context.Context, token, userID string) ([]core.Track, error) {
	reqURL := fmt.Sprintf("%s/users/%s/tracks?access=playable&limit=%d",
		c.apiURL, url.PathEscape(userID), UploadsLimit)

	status, body, err := c.get(ctx, token, EndpointUploads, acceptJSON, reqURL)
	if err != nil {
		return nil, &core.Error{Kind: core.KindUploadFetchFailed, StatusCode: status, Err: err}
	}

	if !isSuccess(status) {
		return nil, &core.Error{
			Kind:       core.KindUploadFetchFailed,
			StatusCode: status,
			Message:    apiErrorMessage(body),
		}
	}

	tracks, err := Normalize(body)
	if err != nil {
		return nil, &core.Error{Kind: core.KindUploadFetchFailed, StatusCode: status, Err: err}
	}

	SortByReleaseDate(tracks)

	c.logger.Debug("Listed uploads",
		zap.String("user_id", userID),
		zap.Int("count", len(tracks)))
	return tracks, nil
}

// SortByReleaseDate orders tracks by release date, newest first. Tracks without a
// parseable date count as the zero time and end up last. The sort is stable.
func SortByReleaseDate(tracks []core.Track) {
	slices.SortStableFunc(tracks, func(a, b core.Track) int {
		return ReleaseTime(b).Compare(ReleaseTime(a))
	})
}

// ReleaseTime parses the track's release date, returning the zero time when absent.
func ReleaseTime(track core.Track) time.Time {
	if track.ReleaseDate == nil || *track.ReleaseDate == "" {
		return time.Time{}
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, *track.ReleaseDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
