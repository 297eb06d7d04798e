// Package client performs the plugin's outbound HTTP JSON calls.
// Every call is a single GET with its own timeout budget; a one-shot
// job plugin leaves retries to the scheduler that invoked it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pixlcore/xyplug-weather/internal/observability"
)

// ErrTimeout marks a request aborted by its timeout budget.
var ErrTimeout = errors.New("request timed out")

// StatusError reports a non-2xx response status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}

// Fetcher issues outbound JSON requests. The correlation ID is
// attached to every request so upstream logs can be tied back to one
// plugin invocation.
type Fetcher struct {
	httpClient    *http.Client
	correlationID string
}

// New creates a Fetcher. The zero timeout on the underlying client is
// intentional: each call carries its own context deadline.
func New(correlationID string) *Fetcher {
	return &Fetcher{
		httpClient:    &http.Client{},
		correlationID: correlationID,
	}
}

// FetchJSON performs one GET against rawURL, bounded by timeout, and
// decodes the body into v. endpoint is a stable label for metrics.
// A deadline abort surfaces as ErrTimeout, a non-2xx status as
// *StatusError; anything else propagates wrapped. Exactly one attempt.
func (f *Fetcher) FetchJSON(ctx context.Context, endpoint, rawURL string, timeout time.Duration, v any) error {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		f.record(endpoint, "error", start, fmt.Errorf("build request: %w", err))
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.correlationID != "" {
		req.Header.Set("X-Correlation-ID", f.correlationID)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrTimeout, timeout)
		} else {
			err = fmt.Errorf("http request failed: %w", err)
		}
		f.record(endpoint, "error", start, err)
		return err
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := &StatusError{Code: resp.StatusCode}
		f.record(endpoint, status, start, err)
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("read response body: %w", err)
		f.record(endpoint, status, start, err)
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		err = fmt.Errorf("parse response: %w", err)
		f.record(endpoint, status, start, err)
		return err
	}

	f.record(endpoint, status, start, nil)
	return nil
}

func (f *Fetcher) record(endpoint, status string, start time.Time, err error) {
	observability.APICallsTotal.WithLabelValues(endpoint, status).Inc()
	observability.APIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.APIErrorsTotal.WithLabelValues(endpoint, string(CategorizeError(err))).Inc()
	}
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
