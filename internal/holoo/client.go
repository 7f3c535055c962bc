// Package holoo implements the typed client for a branch's Holoo middleware
// service. One client is bound to one branch's credentials; every call is
// stateless and carries the branch's database connection parameters in the
// request body.
//
// All failures are converted into typed results at this boundary: health
// probes yield a HealthStatus, fetches yield an error distinct from an empty
// result, and batch updates yield a per-item summary. Nothing panics past
// this package.
package holoo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dakkemarket/branchsync/internal/transport"
	"github.com/dakkemarket/branchsync/pkg/apply"
	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/catalog"
	"github.com/dakkemarket/branchsync/pkg/constants"
	"github.com/dakkemarket/branchsync/pkg/errors"
	"github.com/dakkemarket/branchsync/pkg/logging"
)

// Client talks to one branch's middleware endpoint.
type Client struct {
	branch      *branches.Branch
	transport   *transport.Client
	pingTimeout time.Duration
	logger      *zerolog.Logger
}

// NewClient creates a client bound to one branch's credentials.
func NewClient(b *branches.Branch, apiKey string, timeout time.Duration, retry transport.RetryPolicy) *Client {
	return &Client{
		branch:      b,
		transport:   transport.New(apiKey, timeout, retry),
		pingTimeout: constants.PingTimeout,
		logger:      logging.Default(),
	}
}

// WithLogger sets the client's logger.
func (c *Client) WithLogger(logger *zerolog.Logger) *Client {
	c.logger = logger
	return c
}

// WithPingTimeout overrides the liveness probe timeout.
func (c *Client) WithPingTimeout(d time.Duration) *Client {
	c.pingTimeout = d
	return c
}

func (c *Client) url(endpoint string) string {
	return c.branch.BaseURL() + endpoint
}

func (c *Client) params() dbParams {
	return dbParams{
		Server:   c.branch.Address,
		Database: c.branch.Database,
		Username: c.branch.User,
		Password: c.branch.Password,
	}
}

// CheckHealth probes the branch and returns its typed health state. The
// decision table is fixed and ordered: unauthenticated reachability first,
// authenticated database connectivity second.
//
//	ping fails to connect or times out  -> OFFLINE
//	ping answers with a non-200         -> API_DOWN
//	check/db transport failure          -> API_DOWN
//	check/db DB_AUTH_ERROR|DB_NOT_FOUND -> AUTH_ERROR
//	check/db any other failure          -> API_DOWN
//	check/db success                    -> CONNECTED
func (c *Client) CheckHealth(ctx context.Context) branches.HealthStatus {
	status, err := c.transport.Get(ctx, c.url("/ping"), c.pingTimeout)
	if err != nil {
		return branches.StatusOffline
	}
	if status != http.StatusOK {
		return branches.StatusAPIDown
	}

	var resp checkDBResponse
	if err := c.transport.PostJSON(ctx, c.url("/check/db"), c.params(), &resp); err != nil {
		return branches.StatusAPIDown
	}
	if !resp.Success {
		switch resp.Status {
		case StatusDBAuthError, StatusDBNotFound:
			return branches.StatusAuthError
		default:
			return branches.StatusAPIDown
		}
	}
	return branches.StatusConnected
}

// Articles fetches the branch's article snapshot. The returned error is
// distinct from an empty result: zero articles with a nil error means the
// branch genuinely has none matching the filter.
func (c *Client) Articles(ctx context.Context, search string, limit int) ([]catalog.Article, error) {
	if limit <= 0 {
		limit = constants.DefaultFetchLimit
	}

	req := articlesRequest{dbParams: c.params(), Search: search, Limit: limit}
	var resp articlesResponse
	if err := c.transport.PostJSON(ctx, c.url("/articles"), req, &resp); err != nil {
		return nil, errors.NewSyncError(c.branch.Name, nil, err)
	}
	if !resp.Success {
		return nil, c.apiError("/articles", resp.envelope)
	}

	c.logger.Debug().
		Str("branch", c.branch.Name).
		Int("count", resp.Count).
		Int("total", resp.Total).
		Msg("Fetched articles")
	return resp.Data, nil
}

// Article fetches a single article by code.
func (c *Client) Article(ctx context.Context, code string) (*catalog.Article, error) {
	var resp articleResponse
	if err := c.transport.PostJSON(ctx, c.url("/article/"+code), c.params(), &resp); err != nil {
		return nil, errors.NewSyncError(c.branch.Name, []string{code}, err)
	}
	if !resp.Success {
		if resp.ErrorCode == "NOT_FOUND" {
			return nil, errors.ErrNotFound
		}
		return nil, c.apiError("/article/"+code, resp.envelope)
	}
	return &resp.Data, nil
}

// Groups fetches the branch's product groups.
func (c *Client) Groups(ctx context.Context) ([]catalog.Group, error) {
	var resp groupsResponse
	if err := c.transport.PostJSON(ctx, c.url("/groups"), c.params(), &resp); err != nil {
		return nil, errors.NewSyncError(c.branch.Name, nil, err)
	}
	if !resp.Success {
		return nil, c.apiError("/groups", resp.envelope)
	}
	return resp.Data, nil
}

// UpdateArticle updates a single article's editable fields.
func (c *Client) UpdateArticle(ctx context.Context, code string, name *string, price *float64, groupCode *string) error {
	req := updateRequest{dbParams: c.params(), Name: name, Price: price, GroupCode: groupCode}
	var resp updateResponse
	endpoint := fmt.Sprintf("/article/%s/update", code)
	if err := c.transport.PostJSON(ctx, c.url(endpoint), req, &resp); err != nil {
		return errors.NewSyncError(c.branch.Name, []string{code}, err)
	}
	if !resp.Success {
		if resp.ErrorCode == "NOT_FOUND" {
			return errors.ErrNotFound
		}
		return c.apiError(endpoint, resp.envelope)
	}
	return nil
}

// BatchUpdate dispatches all items for this branch in one call and returns
// the server-reported per-item outcome. It implements apply.Updater. An
// outright call failure (retries exhausted) fails the entire batch.
func (c *Client) BatchUpdate(ctx context.Context, items []apply.Item) (apply.Summary, error) {
	req := batchUpdateRequest{dbParams: c.params(), Items: make([]batchItem, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, batchItem{
			Code:      item.Code,
			Name:      item.Name,
			Price:     item.Price,
			GroupCode: item.GroupCode,
		})
	}

	var resp batchUpdateResponse
	if err := c.transport.PostJSON(ctx, c.url("/batch/update"), req, &resp); err != nil {
		return apply.Summary{}, errors.NewSyncError(c.branch.Name, codes(items), err)
	}
	if !resp.Success {
		return apply.Summary{}, c.apiError("/batch/update", resp.envelope)
	}

	return apply.Summary{
		Total:        resp.Summary.Total,
		SuccessCount: resp.Summary.SuccessCount,
		FailedCount:  resp.Summary.FailedCount,
	}, nil
}

// apiError converts a middleware error envelope into a typed error.
func (c *Client) apiError(endpoint string, env envelope) error {
	if env.ErrorCode == "INVALID_API_KEY" {
		return &errors.AuthenticationError{
			Branch:  c.branch.Name,
			Method:  "api_key",
			Message: env.Error,
		}
	}
	return &errors.APIError{
		Branch:    c.branch.Name,
		ErrorCode: env.ErrorCode,
		Message:   env.Error,
		Endpoint:  endpoint,
	}
}

func codes(items []apply.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Code)
	}
	return out
}
