package soundcloud

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"scinput/internal/core"
)

func strPtr(s string) *string { return &s }

func TestListUploads_RequestShape(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := upstream.client()

	if _, err := c.ListUploads(context.Background(), "tok-123", "42"); err != nil {
		t.Fatalf("ListUploads() error = %v", err)
	}

	req := upstream.requests[0]
	if req.URL.Path != "/users/42/tracks" {
		t.Errorf("path = %q, expected /users/42/tracks", req.URL.Path)
	}
	if got := req.URL.Query().Get("access"); got != "playable" {
		t.Errorf("access = %q, expected playable", got)
	}
	if got := req.URL.Query().Get("limit"); got != "50" {
		t.Errorf("limit = %q, expected 50", got)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer tok-123" {
		t.Errorf("Authorization = %q, expected bearer token", got)
	}
}

func TestListUploads_SortedByReleaseDate(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.uploadsBody = `[
		{"id":1,"release_date":"2019-05-01T00:00:00Z"},
		{"id":2},
		{"id":3,"release_date":"2021-01-01T00:00:00Z"},
		{"id":4,"release_date":"2020-06-15T00:00:00Z"}
	]`
	c := upstream.client()

	tracks, err := c.ListUploads(context.Background(), "tok", "42")
	if err != nil {
		t.Fatalf("ListUploads() error = %v", err)
	}

	expected := []int64{3, 4, 1, 2}
	for i, id := range expected {
		if tracks[i].ID != id {
			t.Errorf("tracks[%d].ID = %d, expected %d", i, tracks[i].ID, id)
		}
	}
}

func TestListUploads_Errors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
		expectCause     bool
	}{
		{
			name:            "API error message",
			status:          http.StatusUnauthorized,
			body:            `{"errors":[{"error_message":"401 - Unauthorized"}]}`,
			expectedMessage: "401 - Unauthorized",
		},
		{
			name:   "Error without message",
			status: http.StatusInternalServerError,
			body:   `{"errors":[]}`,
		},
		{
			name:   "Non-JSON error body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
		},
		{
			name:        "Malformed success body",
			status:      http.StatusOK,
			body:        `[{"id":1},`,
			expectCause: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newFakeUpstream(t)
			upstream.uploadsStatus = tt.status
			upstream.uploadsBody = tt.body
			c := upstream.client()

			_, err := c.ListUploads(context.Background(), "tok", "42")
			if !errors.Is(err, core.ErrUploadFetchFailed) {
				t.Fatalf("ListUploads() error = %v, expected UploadFetchFailed", err)
			}

			var coreErr *core.Error
			errors.As(err, &coreErr)
			if coreErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, expected %d", coreErr.StatusCode, tt.status)
			}
			if coreErr.Message != tt.expectedMessage {
				t.Errorf("Message = %q, expected %q", coreErr.Message, tt.expectedMessage)
			}
			if (coreErr.Err != nil) != tt.expectCause {
				t.Errorf("Err = %v, expected cause present = %v", coreErr.Err, tt.expectCause)
			}
		})
	}
}

func TestSortByReleaseDate(t *testing.T) {
	tests := []struct {
		name     string
		tracks   []core.Track
		expected []int64
	}{
		{
			name: "Descending",
			tracks: []core.Track{
				{ID: 1, ReleaseDate: strPtr("2001-01-01T00:00:00Z")},
				{ID: 2, ReleaseDate: strPtr("2003-01-01T00:00:00Z")},
				{ID: 3, ReleaseDate: strPtr("2002-01-01T00:00:00Z")},
			},
			expected: []int64{2, 3, 1},
		},
		{
			name: "Absent and unparseable dates last, stable",
			tracks: []core.Track{
				{ID: 1},
				{ID: 2, ReleaseDate: strPtr("not a date")},
				{ID: 3, ReleaseDate: strPtr("2010-01-01T00:00:00Z")},
				{ID: 4, ReleaseDate: strPtr("")},
			},
			expected: []int64{3, 1, 2, 4},
		},
		{
			name: "Equal dates keep input order",
			tracks: []core.Track{
				{ID: 5, ReleaseDate: strPtr("2015-03-01")},
				{ID: 6, ReleaseDate: strPtr("2015-03-01T00:00:00Z")},
				{ID: 7, ReleaseDate: strPtr("2015/03/01 00:00:00 +0000")},
			},
			expected: []int64{5, 6, 7},
		},
		{
			name:     "Empty",
			tracks:   []core.Track{},
			expected: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortByReleaseDate(tt.tracks)

			for i, id := range tt.expected {
				if tt.tracks[i].ID != id {
					t.Errorf("tracks[%d].ID = %d, expected %d", i, tt.tracks[i].ID, id)
				}
			}

			for i := 1; i < len(tt.tracks); i++ {
				if ReleaseTime(tt.tracks[i]).After(ReleaseTime(tt.tracks[i-1])) {
					t.Errorf("release dates not non-increasing at index %d", i)
				}
			}
		})
	}
}
