package holoo

import "github.com/dakkemarket/branchsync/pkg/catalog"

// Database probe statuses reported by POST /check/db.
const (
	StatusDBConnected       = "DB_CONNECTED"
	StatusDBAuthError       = "DB_AUTH_ERROR"
	StatusDBNotFound        = "DB_NOT_FOUND"
	StatusDBConnectionError = "DB_CONNECTION_ERROR"
	StatusDBParamMissing    = "DB_PARAM_MISSING"
)

// envelope carries the common response fields every middleware endpoint
// reports. Endpoint-specific responses embed it.
type envelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// dbParams are the database connection facts carried in every authenticated
// request body. The middleware is stateless per call and re-resolves its own
// database connection each time.
type dbParams struct {
	Server   string `json:"server"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// checkDBResponse is the response of POST /check/db.
type checkDBResponse struct {
	envelope
	Status string `json:"status"`
}

// articlesRequest is the body of POST /articles.
type articlesRequest struct {
	dbParams
	Search string `json:"search"`
	Limit  int    `json:"limit"`
}

// articlesResponse is the response of POST /articles.
type articlesResponse struct {
	envelope
	Data  []catalog.Article `json:"data"`
	Total int               `json:"total"`
	Count int               `json:"count"`
}

// articleResponse is the response of POST /article/{code}.
type articleResponse struct {
	envelope
	Data catalog.Article `json:"data"`
}

// groupsResponse is the response of POST /groups.
type groupsResponse struct {
	envelope
	Data  []catalog.Group `json:"data"`
	Count int             `json:"count"`
}

// updateRequest is the body of POST /article/{code}/update. Only fields being
// changed are present.
type updateRequest struct {
	dbParams
	Name      *string  `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	GroupCode *string  `json:"group_code,omitempty"`
}

// updateResponse is the response of POST /article/{code}/update.
type updateResponse struct {
	envelope
	Code          string   `json:"code"`
	UpdatedFields []string `json:"updated_fields"`
	AffectedRows  int      `json:"affected_rows"`
}

// batchUpdateRequest is the body of POST /batch/update.
type batchUpdateRequest struct {
	dbParams
	Items []batchItem `json:"items"`
}

// batchItem is one article update inside a batch, carrying only the fields
// being changed.
type batchItem struct {
	Code      string   `json:"code"`
	Name      *string  `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	GroupCode *string  `json:"group_code,omitempty"`
}

// batchUpdateResponse is the response of POST /batch/update.
type batchUpdateResponse struct {
	envelope
	Results struct {
		Success []batchOutcome `json:"success"`
		Failed  []batchOutcome `json:"failed"`
	} `json:"results"`
	Summary struct {
		Total        int `json:"total"`
		SuccessCount int `json:"success_count"`
		FailedCount  int `json:"failed_count"`
	} `json:"summary"`
}

// batchOutcome is the middleware's per-item verdict inside a batch response.
type batchOutcome struct {
	Code    string   `json:"code"`
	Updated []string `json:"updated,omitempty"`
	Error   string   `json:"error,omitempty"`
}
