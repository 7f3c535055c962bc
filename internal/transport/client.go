// Package transport provides the HTTP plumbing shared by branch middleware
// clients: API-key authentication, JSON request/response handling, and a
// bounded fixed-backoff retry policy for transport-level failures.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dakkemarket/branchsync/pkg/constants"
	"github.com/dakkemarket/branchsync/pkg/errors"
)

// Client performs HTTP calls against one branch middleware service. Each call
// is stateless: the middleware re-resolves its own database connection per
// request, so the client never caches anything beyond the HTTP connection
// pool.
type Client struct {
	http   *http.Client
	auth   Authenticator
	apiKey string
	retry  RetryPolicy
}

// New creates a transport client with the given API key and retry policy.
func New(apiKey string, timeout time.Duration, retry RetryPolicy) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		auth:   &HeaderAuth{},
		apiKey: apiKey,
		retry:  retry.normalize(),
	}
}

// Get performs an unauthenticated GET with its own timeout, bypassing the
// retry policy. Used for the liveness probe, where a single failed attempt is
// itself the answer.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, classify(err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do on close failure
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// PostJSON performs an authenticated POST, retrying transport-level failures
// per the retry policy, and decodes the JSON response body into target. A
// response from the server, success or error, is decoded and returned without
// retrying; the middleware's envelope fields carry the verdict. The last
// observed transport error is returned once attempts are exhausted.
func (c *Client) PostJSON(ctx context.Context, url string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewValidationError("body", body, "not encodable as JSON")
	}

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.retry.Sleep(ctx, c.retry.Backoff); err != nil {
				return errors.ErrCanceled
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		c.auth.Apply(req, c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return errors.ErrCanceled
			}
			lastErr = classify(err)
			continue
		}

		return decode(resp, url, target)
	}
	return lastErr
}

// decode reads the response body and unmarshals it into target. Any JSON body
// is decoded regardless of HTTP status: the middleware reports failures inside
// its envelope. A body that is not valid JSON becomes an APIError.
func decode(resp *http.Response, url string, target any) error {
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do on close failure

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &errors.APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   url,
			Err:        err,
		}
	}
	return nil
}

// classify maps transport errors onto the package's sentinel errors so
// callers can distinguish timeouts from unreachable hosts.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &wrapped{msg: err.Error(), sentinel: errors.ErrTimeout}
	}
	return &wrapped{msg: err.Error(), sentinel: errors.ErrBranchUnavailable}
}

// wrapped attaches a sentinel to a transport error message.
type wrapped struct {
	msg      string
	sentinel error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Is(target error) bool {
	return target == w.sentinel
}
