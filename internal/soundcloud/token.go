package soundcloud

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"scinput/internal/core"
)

// AcquireToken exchanges the client credentials for a bearer token. Tokens are
// never cached, each call performs a fresh exchange.
func (c *Client) AcquireToken(ctx context.Context, creds core.Credentials) (string, error) {
	if !creds.Complete() {
		return "", &core.Error{
			Kind:    core.KindMissingConfiguration,
			Message: "missing " + strings.Join(creds.Missing(), ", "),
		}
	}

	cfg := clientcredentials.Config{
		ClientID:       creds.ClientID,
		ClientSecret:   creds.ClientSecret,
		TokenURL:       c.tokenURL,
		EndpointParams: url.Values{"userId": {creds.UserID}},
		AuthStyle:      oauth2.AuthStyleInParams,
	}

	transport := &tokenTransport{base: c.http.Transport}
	httpClient := *c.http
	httpClient.Transport = transport
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &httpClient)

	start := time.Now()
	token, err := cfg.Token(ctx)
	c.recorder.RecordUpstreamRequest(EndpointToken, transport.status, time.Since(start))

	if err != nil {
		tokenErr := &core.Error{Kind: core.KindTokenAcquisitionFailed, Err: err}

		var retrieveErr *oauth2.RetrieveError
		switch {
		case errors.As(err, &retrieveErr):
			if retrieveErr.Response != nil {
				tokenErr.StatusCode = retrieveErr.Response.StatusCode
			}
			tokenErr.Message = retrieveErr.ErrorCode
			tokenErr.Err = nil
		case transport.status != 0:
			// A response arrived but carried no usable access_token.
			tokenErr.StatusCode = transport.status
			tokenErr.Err = nil
		}

		c.logger.Debug("Token request failed",
			zap.Int("status", tokenErr.StatusCode),
			zap.String("error_code", tokenErr.Message),
			zap.Error(err))
		return "", tokenErr
	}

	c.logger.Debug("Token acquired", zap.Duration("duration", time.Since(start)))
	return token.AccessToken, nil
}

// tokenTransport sets the Accept header of the token request and remembers the
// status of the last response.
type tokenTransport struct {
	base   http.RoundTripper
	status int
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	req.Header.Set("Accept", acceptJSONCharset)

	resp, err := base.RoundTrip(req)
	if resp != nil {
		t.status = resp.StatusCode
	}
	return resp, err
}
