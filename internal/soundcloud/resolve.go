package soundcloud

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"scinput/internal/core"
	"scinput/pkg/musiclink"
)

// Resolver resolves a single query. *Client implements it.
type Resolver interface {
	Resolve(ctx context.Context, token, query string) (*core.Resolution, error)
}

// QueryError is the failure of one query within a multi-query resolution.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Aggregate is the combined result of ResolveAll.
type Aggregate struct {
	// Queries are the cleaned, non-blank queries in input order.
	Queries     []string
	Tracks      []core.Track
	Resolutions []*core.Resolution
	Failures    []*QueryError
}

// EscapeQuery percent-encodes query the way it appears in the resolve URL.
func EscapeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// Resolve resolves a SoundCloud URL (track, playlist, user) into tracks.
func (c *Client) Resolve(ctx context.Context, token, query string) (*core.Resolution, error) {
	reqURL := c.apiURL + "/resolve?url=" + EscapeQuery(query)

	c.logger.Debug("Resolving query",
		zap.String("query", query),
		zap.String("query_kind", musiclink.Classify(query).String()))

	status, body, err := c.get(ctx, token, EndpointResolve, acceptJSONCharset, reqURL)
	if err != nil {
		return nil, &core.Error{Kind: core.KindResolveFailed, StatusCode: status, Query: query, Err: err}
	}

	if !isSuccess(status) {
		return nil, &core.Error{
			Kind:       core.KindResolveFailed,
			StatusCode: status,
			Query:      query,
			Message:    apiErrorMessage(body),
		}
	}

	tracks, err := Normalize(body)
	if err != nil {
		return nil, &core.Error{Kind: core.KindResolveFailed, StatusCode: status, Query: query, Err: err}
	}

	return &core.Resolution{Query: query, Tracks: tracks, Raw: body}, nil
}

// CleanQueries trims and NFC-normalizes queries, dropping blank ones.
func CleanQueries(queries []string) []string {
	cleaned := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(norm.NFC.String(q))
		if q == "" {
			continue
		}
		cleaned = append(cleaned, q)
	}
	return cleaned
}

// ResolveAll resolves every non-blank query in order and concatenates the tracks.
// A failing query, or one that yields no tracks, is recorded as a *QueryError and
// processing continues. The returned error joins those failures and is nil when
// every query produced tracks. Blank input performs no request.
func ResolveAll(ctx context.Context, r Resolver, token string, queries []string) (*Aggregate, error) {
	agg := &Aggregate{
		Queries: CleanQueries(queries),
		Tracks:  []core.Track{},
	}

	var errs []error
	for _, q := range agg.Queries {
		res, err := r.Resolve(ctx, token, q)
		if err == nil && len(res.Tracks) == 0 {
			err = &core.Error{Kind: core.KindNoTracksFound, Query: q}
		}
		if res != nil {
			agg.Resolutions = append(agg.Resolutions, res)
		}
		if err != nil {
			qerr := &QueryError{Query: q, Err: err}
			agg.Failures = append(agg.Failures, qerr)
			errs = append(errs, qerr)
			continue
		}
		agg.Tracks = append(agg.Tracks, res.Tracks...)
	}

	return agg, errors.Join(errs...)
}
