package soundcloud

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"scinput/internal/core"
)

func TestAcquireToken_Success(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := upstream.client()

	token, err := c.AcquireToken(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("AcquireToken() error = %v", err)
	}
	if token != "tok-123" {
		t.Errorf("AcquireToken() = %q, expected %q", token, "tok-123")
	}

	if upstream.requestCount() != 1 {
		t.Fatalf("requestCount = %d, expected 1", upstream.requestCount())
	}

	form := upstream.forms[0]
	expectedForm := map[string]string{
		"client_id":     "cid",
		"client_secret": "secret",
		"userId":        "42",
		"grant_type":    "client_credentials",
	}
	for key, want := range expectedForm {
		if got := form.Get(key); got != want {
			t.Errorf("form[%s] = %q, expected %q", key, got, want)
		}
	}

	if got := upstream.requests[0].Header.Get("Accept"); got != "application/json; charset=utf-8" {
		t.Errorf("Accept header = %q, expected JSON with charset", got)
	}
	if auth := upstream.requests[0].Header.Get("Authorization"); auth != "" {
		t.Errorf("Authorization header = %q, expected credentials in the form body only", auth)
	}
}

func TestAcquireToken_NotCached(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := upstream.client()

	for i := 0; i < 2; i++ {
		if _, err := c.AcquireToken(context.Background(), testCreds); err != nil {
			t.Fatalf("AcquireToken() error = %v", err)
		}
	}

	if upstream.requestCount() != 2 {
		t.Errorf("requestCount = %d, expected a fresh token request per call", upstream.requestCount())
	}
}

func TestAcquireToken_Failures(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "Invalid client",
			status:          http.StatusUnauthorized,
			body:            `{"error":"invalid_client"}`,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "invalid_client",
		},
		{
			name:           "Server error without body",
			status:         http.StatusInternalServerError,
			body:           `{}`,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Success status without access token",
			status:         http.StatusOK,
			body:           `{"token_type":"bearer"}`,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newFakeUpstream(t)
			upstream.tokenStatus = tt.status
			upstream.tokenBody = tt.body
			c := upstream.client()

			_, err := c.AcquireToken(context.Background(), testCreds)
			if !errors.Is(err, core.ErrTokenAcquisitionFailed) {
				t.Fatalf("AcquireToken() error = %v, expected TokenAcquisitionFailed", err)
			}

			var coreErr *core.Error
			if !errors.As(err, &coreErr) {
				t.Fatalf("AcquireToken() error = %T, expected *core.Error", err)
			}
			if coreErr.StatusCode != tt.expectedStatus {
				t.Errorf("StatusCode = %d, expected %d", coreErr.StatusCode, tt.expectedStatus)
			}
			if coreErr.Message != tt.expectedMessage {
				t.Errorf("Message = %q, expected %q", coreErr.Message, tt.expectedMessage)
			}
		})
	}
}

func TestAcquireToken_TransportError(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := upstream.client()
	upstream.server.Close()

	_, err := c.AcquireToken(context.Background(), testCreds)
	if !errors.Is(err, core.ErrTokenAcquisitionFailed) {
		t.Fatalf("AcquireToken() error = %v, expected TokenAcquisitionFailed", err)
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) && coreErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, expected 0 without a response", coreErr.StatusCode)
	}
}

func TestAcquireToken_MissingCredentials(t *testing.T) {
	upstream := newFakeUpstream(t)
	c := upstream.client()

	_, err := c.AcquireToken(context.Background(), core.Credentials{ClientID: "cid", UserID: "42"})
	if !errors.Is(err, core.ErrMissingConfiguration) {
		t.Errorf("AcquireToken() error = %v, expected MissingConfiguration", err)
	}
	if upstream.requestCount() != 0 {
		t.Errorf("requestCount = %d, expected no request", upstream.requestCount())
	}
}
