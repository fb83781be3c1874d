// Package soundcloud talks to the SoundCloud public API: client-credentials tokens,
// user upload listings and URL resolution, all normalized into core.Track values.
package soundcloud

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"scinput/internal/core"
)

const (
	// UploadsLimit is the page size of the upload listing.
	UploadsLimit = 50
	// maxResponseSize bounds how much of an upstream body is read.
	maxResponseSize = 10 << 20
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow.
	maxHTTPRedirects = 3

	acceptJSON        = "application/json"
	acceptJSONCharset = "application/json; charset=utf-8"
)

// Endpoint labels used for logging and metrics.
const (
	EndpointToken   = "token"
	EndpointUploads = "uploads"
	EndpointResolve = "resolve"
)

var (
	// ErrTooManyRedirects is returned when too many redirects are encountered.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Recorder observes every upstream request.
type Recorder interface {
	RecordUpstreamRequest(endpoint string, statusCode int, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordUpstreamRequest(string, int, time.Duration) {}

// Client implements core.SoundCloudAPI.
type Client struct {
	apiURL   string
	tokenURL string
	http     *http.Client
	logger   *zap.Logger
	recorder Recorder
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithRecorder reports request outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

var _ core.SoundCloudAPI = (*Client)(nil)

func NewClient(config *core.SoundCloudConfig, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		apiURL:   strings.TrimRight(config.APIURL, "/"),
		tokenURL: config.TokenURL,
		http:     newHTTPClient(),
		logger:   logger,
		recorder: nopRecorder{},
	}
	if c.apiURL == "" {
		c.apiURL = core.DefaultAPIURL
	}
	if c.tokenURL == "" {
		c.tokenURL = core.DefaultTokenURL
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newHTTPClient creates an HTTP client with redirect validation. No timeout is set,
// callers bound requests through their context.
func newHTTPClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}
