package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/models"
	"github.com/noah-isme/sma-adp-console/pkg/config"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
	"github.com/noah-isme/sma-adp-console/pkg/middleware/requestid"
)

const maxErrorBody = 64 << 10

// BackendClient talks to the records REST API.
type BackendClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewBackendClient constructs a client for cfg.BaseURL.
func NewBackendClient(cfg config.BackendConfig, logger *zap.Logger) *BackendClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackendClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// errorBody is the backend failure envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs one request and decodes a 2xx body into dest. Failures map
// to the console error taxonomy; nothing is retried.
func (c *BackendClient) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header(), id)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("backend unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		unreachable := appErrors.FromStatus(0, "")
		unreachable.Err = err
		return unreachable
	}
	defer resp.Body.Close()

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "malformed response from server")
	}
	return nil
}

// statusError maps a non-2xx response. Only bad requests surface the
// server's own message; other statuses use the fixed console wording.
func (c *BackendClient) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := ""
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
		var body errorBody
		if json.Unmarshal(raw, &body) == nil {
			message = body.Error
			if message == "" {
				message = body.Message
			}
		}
	}
	appErr := appErrors.FromStatus(resp.StatusCode, message)
	appErr.Err = fmt.Errorf("backend status %d", resp.StatusCode)
	return appErr
}

// ResourceClient is the typed REST collaborator for one resource.
type ResourceClient[T any] struct {
	backend  *BackendClient
	resource models.Resource
	// searchPath, when set, serves list requests that carry filters.
	searchPath string
}

// NewResourceClient binds backend to resource.
func NewResourceClient[T any](backend *BackendClient, resource models.Resource) *ResourceClient[T] {
	rc := &ResourceClient[T]{backend: backend, resource: resource}
	if resource == models.ResourceStudents {
		rc.searchPath = "/students/search"
	}
	return rc
}

// Resource names the bound resource.
func (r *ResourceClient[T]) Resource() models.Resource {
	return r.resource
}

func (r *ResourceClient[T]) collection() string {
	return "/" + string(r.resource)
}

func (r *ResourceClient[T]) item(id string) string {
	return r.collection() + "/" + url.PathEscape(id)
}

// List fetches one page. Empty filters are never sent.
func (r *ResourceClient[T]) List(ctx context.Context, descriptor models.FilterDescriptor) (*models.ListResponse[T], error) {
	path := r.collection()
	if r.searchPath != "" && len(descriptor.Filters) > 0 {
		path = r.searchPath
	}
	var out models.ListResponse[T]
	if err := r.backend.do(ctx, http.MethodGet, path, descriptor.Values(), nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	if out.Pagination.Limit == 0 {
		out.Pagination.Limit = descriptor.Limit
	}
	if out.Pagination.Page == 0 {
		out.Pagination.Page = descriptor.Page
	}
	return &out, nil
}

// Get fetches a single record.
func (r *ResourceClient[T]) Get(ctx context.Context, id string) (*T, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "")
	}
	var out models.RecordResponse[T]
	if err := r.backend.do(ctx, http.MethodGet, r.item(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Save creates the record when id is empty and updates it otherwise.
func (r *ResourceClient[T]) Save(ctx context.Context, id string, payload map[string]interface{}) (*T, error) {
	method, path := http.MethodPost, r.collection()
	if id != "" {
		method, path = http.MethodPut, r.item(id)
	}
	var out models.RecordResponse[T]
	if err := r.backend.do(ctx, method, path, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Delete removes a record.
func (r *ResourceClient[T]) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrNotFound, "")
	}
	return r.backend.do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

// statsBody accepts the overview either at the top level or under data.
type statsBody struct {
	Overview map[string]interface{} `json:"overview"`
	Data     *struct {
		Overview map[string]interface{} `json:"overview"`
	} `json:"data"`
}

// Stats reads total<Resource>/active<Resource> from the stats overview.
func (r *ResourceClient[T]) Stats(ctx context.Context) (models.StatsOverview, error) {
	var body statsBody
	if err := r.backend.do(ctx, http.MethodGet, r.collection()+"/stats", nil, nil, &body); err != nil {
		return models.StatsOverview{}, err
	}
	overview := body.Overview
	if overview == nil && body.Data != nil {
		overview = body.Data.Overview
	}
	if overview == nil {
		return models.StatsOverview{}, appErrors.Clone(appErrors.ErrServer, "stats overview missing from response")
	}
	suffix := strings.ToUpper(string(r.resource[:1])) + string(r.resource[1:])
	return models.StatsOverview{
		Total:  cast.ToInt(overview["total"+suffix]),
		Active: cast.ToInt(overview["active"+suffix]),
	}, nil
}

// Ping reports whether the backend answers at all. Any status below 500
// counts as reachable; the base path itself may well be a 404.
func (c *BackendClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		unreachable := appErrors.FromStatus(0, "")
		unreachable.Err = err
		return unreachable
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return appErrors.FromStatus(resp.StatusCode, "")
	}
	return nil
}
