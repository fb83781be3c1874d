package soundcloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// get performs a bearer-authorized GET and returns the status and body.
// A non-2xx status is not an error here.
func (c *Client) get(ctx context.Context, token, endpoint, accept, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.recorder.RecordUpstreamRequest(endpoint, 0, time.Since(start))
		c.logger.Debug("Upstream request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return 0, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	duration := time.Since(start)
	c.recorder.RecordUpstreamRequest(endpoint, resp.StatusCode, duration)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("Upstream request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", duration))

	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// apiErrorMessage extracts errors[0].error_message from an error body.
func apiErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "errors.0.error_message").String()
}
