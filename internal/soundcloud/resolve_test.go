package soundcloud

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"scinput/internal/core"
)

func TestResolve_Shapes(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.resolve["https://soundcloud.com/a/track"] = fakeResponse{
		status: http.StatusOK,
		body:   `{"kind":"track","id":1}`,
	}
	upstream.resolve["https://soundcloud.com/a/sets/mix"] = fakeResponse{
		status: http.StatusOK,
		body:   `{"kind":"playlist","tracks":[{"id":2},{"id":3},{"id":4}]}`,
	}
	c := upstream.client()

	res, err := c.Resolve(context.Background(), "tok", "https://soundcloud.com/a/sets/mix")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Tracks) != 3 {
		t.Errorf("len(Tracks) = %d, expected 3", len(res.Tracks))
	}
	if string(res.Raw) == "" {
		t.Error("Raw = empty, expected the response body")
	}
	if res.Query != "https://soundcloud.com/a/sets/mix" {
		t.Errorf("Query = %q, expected the input query", res.Query)
	}

	req := upstream.requests[0]
	if got := req.Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Authorization = %q, expected bearer token", got)
	}
	if got := req.URL.RawQuery; got != "url=https%3A%2F%2Fsoundcloud.com%2Fa%2Fsets%2Fmix" {
		t.Errorf("RawQuery = %q, expected the escaped url parameter", got)
	}
}

func TestResolve_Failure(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := upstream.client()

	_, err := c.Resolve(context.Background(), "tok", "https://soundcloud.com/missing")
	if !errors.Is(err, core.ErrResolveFailed) {
		t.Fatalf("Resolve() error = %v, expected ResolveFailed", err)
	}

	var coreErr *core.Error
	errors.As(err, &coreErr)
	if coreErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, expected 404", coreErr.StatusCode)
	}
	if coreErr.Query != "https://soundcloud.com/missing" {
		t.Errorf("Query = %q, expected the failing query", coreErr.Query)
	}
}

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{query: "https://soundcloud.com/a b", expected: "https%3A%2F%2Fsoundcloud.com%2Fa%20b"},
		{query: "daft punk", expected: "daft%20punk"},
		{query: "a&b=c", expected: "a%26b%3Dc"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := EscapeQuery(tt.query); got != tt.expected {
				t.Errorf("EscapeQuery(%q) = %q, expected %q", tt.query, got, tt.expected)
			}
		})
	}
}

// stubResolver returns canned results per query and counts calls.
type stubResolver struct {
	results map[string][]core.Track
	errs    map[string]error
	calls   []string
}

func (s *stubResolver) Resolve(_ context.Context, _ string, query string) (*core.Resolution, error) {
	s.calls = append(s.calls, query)
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return &core.Resolution{Query: query, Tracks: s.results[query]}, nil
}

func TestResolveAll(t *testing.T) {
	resolver := &stubResolver{
		results: map[string][]core.Track{
			"a": {{ID: 1}},
			"b": {{ID: 2}, {ID: 3}, {ID: 4}},
		},
	}

	agg, err := ResolveAll(context.Background(), resolver, "tok", []string{" a ", "", "   ", "b"})
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}

	expected := []int64{1, 2, 3, 4}
	if len(agg.Tracks) != len(expected) {
		t.Fatalf("len(Tracks) = %d, expected %d", len(agg.Tracks), len(expected))
	}
	for i, id := range expected {
		if agg.Tracks[i].ID != id {
			t.Errorf("Tracks[%d].ID = %d, expected %d", i, agg.Tracks[i].ID, id)
		}
	}

	if len(resolver.calls) != 2 || resolver.calls[0] != "a" || resolver.calls[1] != "b" {
		t.Errorf("calls = %v, expected [a b] in order with trimmed input", resolver.calls)
	}
}

func TestResolveAll_PartialFailure(t *testing.T) {
	resolver := &stubResolver{
		results: map[string][]core.Track{
			"good":  {{ID: 1}, {ID: 2}},
			"empty": {},
		},
		errs: map[string]error{
			"bad": &core.Error{Kind: core.KindResolveFailed, StatusCode: http.StatusNotFound, Query: "bad"},
		},
	}

	agg, err := ResolveAll(context.Background(), resolver, "tok", []string{"bad", "good", "empty"})
	if err == nil {
		t.Fatal("ResolveAll() error = nil, expected joined warnings")
	}
	if !errors.Is(err, core.ErrResolveFailed) {
		t.Errorf("error = %v, expected to contain ResolveFailed", err)
	}
	if !errors.Is(err, core.ErrNoTracksFound) {
		t.Errorf("error = %v, expected to contain NoTracksFound for the empty query", err)
	}

	if len(agg.Tracks) != 2 {
		t.Errorf("len(Tracks) = %d, expected the good query's tracks", len(agg.Tracks))
	}
	if len(agg.Failures) != 2 || agg.Failures[0].Query != "bad" || agg.Failures[1].Query != "empty" {
		t.Errorf("Failures = %v, expected bad and empty in order", agg.Failures)
	}
	if len(resolver.calls) != 3 {
		t.Errorf("calls = %v, expected processing to continue after a failure", resolver.calls)
	}
}

func TestResolveAll_AllBlank(t *testing.T) {
	resolver := &stubResolver{}

	agg, err := ResolveAll(context.Background(), resolver, "tok", []string{"", "  ", "\t"})
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(resolver.calls) != 0 {
		t.Errorf("calls = %v, expected no requests", resolver.calls)
	}
	if len(agg.Tracks) != 0 || len(agg.Queries) != 0 {
		t.Errorf("aggregate = %+v, expected empty", agg)
	}
}

func TestCleanQueries_NormalizesUnicode(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	cleaned := CleanQueries([]string{" cafe\u0301 "})
	if len(cleaned) != 1 || cleaned[0] != "caf\u00e9" {
		t.Errorf("CleanQueries() = %q, expected NFC-composed, trimmed query", cleaned)
	}
}
