package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/models"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// listSource is the fetch/delete collaborator of a list screen.
type listSource[T any] interface {
	List(ctx context.Context, descriptor models.FilterDescriptor) (*models.ListResponse[T], error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// Notifier delivers user feedback.
type Notifier interface {
	Notify(ctx context.Context, notice models.Notice)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(ctx context.Context, notice models.Notice)

func (f NotifyFunc) Notify(ctx context.Context, notice models.Notice) { f(ctx, notice) }

// AlwaysConfirm answers yes; used when confirmation already happened upstream.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) bool { return true })

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, models.Notice) {}

// ResourceListConfig tunes one list controller.
type ResourceListConfig struct {
	PageSize       int
	SearchKey      string
	ConfirmMessage string
	CacheTTL       time.Duration
}

// ResourceListParams groups constructor dependencies.
type ResourceListParams[T any] struct {
	Resource   models.Resource
	Source     listSource[T]
	Decorate   func(T) T
	Confirmer  Confirmer
	Notifier   Notifier
	Pagination *PaginationCalculator
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     ResourceListConfig
}

// ListViewModel is the published state of a list screen.
type ListViewModel[T any] struct {
	Resource   models.Resource         `json:"resource"`
	Items      []T                     `json:"items"`
	Pagination models.PaginationState  `json:"pagination"`
	Pages      []int                   `json:"pages"`
	Loading    bool                    `json:"loading"`
	Error      *appErrors.Error        `json:"error,omitempty"`
	Filters    models.FilterDescriptor `json:"filters"`
	FromCache  bool                    `json:"-"`
}

// ResourceListController drives one paginated, filterable list screen.
// Each load carries a sequence number; only the response of the most
// recently issued load is published, so completion order never matters.
type ResourceListController[T any] struct {
	resource   models.Resource
	source     listSource[T]
	decorate   func(T) T
	confirmer  Confirmer
	notifier   Notifier
	pagination *PaginationCalculator
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        ResourceListConfig

	mu        sync.Mutex
	store     *FilterStateStore
	seq       uint64
	items     []T
	state     models.PaginationState
	loading   bool
	lastErr   *appErrors.Error
	fromCache bool
	disposed  bool
	inflight  map[uint64]context.CancelFunc
}

// NewResourceListController constructs a controller with sane defaults.
func NewResourceListController[T any](params ResourceListParams[T]) *ResourceListController[T] {
	cfg := params.Config
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.SearchKey == "" {
		cfg.SearchKey = "search"
	}
	if cfg.ConfirmMessage == "" {
		cfg.ConfirmMessage = fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(params.Resource.Singular()))
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	pagination := params.Pagination
	if pagination == nil {
		pagination = NewPaginationCalculator(defaultWindowSize)
	}
	decorate := params.Decorate
	if decorate == nil {
		decorate = func(v T) T { return v }
	}
	return &ResourceListController[T]{
		resource:   params.Resource,
		source:     params.Source,
		decorate:   decorate,
		confirmer:  params.Confirmer,
		notifier:   notifier,
		pagination: pagination,
		cache:      params.Cache,
		metrics:    params.Metrics,
		logger:     logger.With(zap.String("resource", string(params.Resource))),
		cfg:        cfg,
		store:      NewFilterStateStore(cfg.PageSize),
		items:      []T{},
		state:      models.PaginationState{CurrentPage: 1, ItemsPerPage: cfg.PageSize},
		inflight:   make(map[uint64]context.CancelFunc),
	}
}

// Load fetches the page described by the current filter state. A failed load
// leaves the published items and pagination untouched. A load overtaken by a
// newer one returns nil without publishing anything.
func (c *ResourceListController[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return appErrors.Clone(appErrors.ErrDisposed, "")
	}
	c.seq++
	seq := c.seq
	descriptor := c.store.Descriptor()
	loadCtx, cancel := context.WithCancel(ctx)
	c.inflight[seq] = cancel
	c.loading = true
	c.mu.Unlock()

	resp, cached, err := c.fetch(loadCtx, descriptor)
	cancel()

	c.mu.Lock()
	delete(c.inflight, seq)
	if c.disposed {
		c.mu.Unlock()
		return appErrors.Clone(appErrors.ErrDisposed, "")
	}
	if seq != c.seq {
		c.mu.Unlock()
		c.metrics.IncStaleResponse(c.resource)
		c.logger.Debug("discarding stale list response", zap.Uint64("seq", seq))
		return nil
	}
	c.loading = false
	if err != nil {
		appErr := appErrors.FromError(err)
		c.lastErr = appErr
		c.mu.Unlock()
		c.logger.Warn("list load failed", zap.String("query", descriptor.Encode()), zap.Error(err))
		c.notifier.Notify(ctx, models.Notice{Kind: models.NoticeError, Message: appErr.Message})
		return appErr
	}

	items := make([]T, 0, len(resp.Data))
	for _, item := range resp.Data {
		items = append(items, c.decorate(item))
	}
	c.items = items
	c.state = c.pagination.FromPageInfo(resp.Pagination, resp.Total)
	c.lastErr = nil
	c.fromCache = cached
	if c.state.CurrentPage != descriptor.Page {
		c.store.SetPage(c.state.CurrentPage)
	}
	c.mu.Unlock()
	return nil
}

func (c *ResourceListController[T]) fetch(ctx context.Context, descriptor models.FilterDescriptor) (*models.ListResponse[T], bool, error) {
	return readThrough(ctx, c.cache, descriptor.CacheKey(c.resource), c.cfg.CacheTTL,
		func(ctx context.Context) (*models.ListResponse[T], error) {
			start := time.Now()
			resp, err := c.source.List(ctx, descriptor)
			c.metrics.ObserveFetch(c.resource, err, time.Since(start))
			if err != nil {
				return nil, err
			}
			if resp == nil {
				resp = &models.ListResponse[T]{}
			}
			return resp, nil
		}, nil)
}

// Search applies the resource's search filter and reloads from page 1.
func (c *ResourceListController[T]) Search(ctx context.Context, term string) error {
	c.mu.Lock()
	c.store.SetFilter(c.cfg.SearchKey, term)
	c.store.SetPage(1)
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetFilter changes one filter and reloads; the cursor returns to page 1.
func (c *ResourceListController[T]) SetFilter(ctx context.Context, key string, value interface{}) error {
	c.mu.Lock()
	c.store.SetFilter(key, value)
	c.mu.Unlock()
	return c.Load(ctx)
}

// ApplyFilters replaces the whole filter set and cursor in one load, as when
// a gateway request arrives with its full query string.
func (c *ResourceListController[T]) ApplyFilters(ctx context.Context, page, limit int, filters map[string]string) error {
	c.Restore(page, limit, filters)
	return c.Load(ctx)
}

// Restore positions the filter state without loading. Published items are
// untouched until the next load.
func (c *ResourceListController[T]) Restore(page, limit int, filters map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Reset()
	c.store.SetLimit(limit)
	c.store.SetFilters(filters)
	c.store.SetPage(page)
}

// ConfirmMessage is the question asked before a delete.
func (c *ResourceListController[T]) ConfirmMessage() string {
	return c.cfg.ConfirmMessage
}

// ChangePage loads page n. Pages outside [1, totalPages] are rejected
// without a request and reported as false.
func (c *ResourceListController[T]) ChangePage(ctx context.Context, n int) (bool, error) {
	c.mu.Lock()
	if n < 1 || n > c.state.TotalPages {
		c.mu.Unlock()
		return false, nil
	}
	c.store.SetPage(n)
	c.mu.Unlock()
	return true, c.Load(ctx)
}

// ClearFilters resets every filter, keeps the page size and reloads page 1.
func (c *ResourceListController[T]) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.store.Reset()
	c.mu.Unlock()
	return c.Load(ctx)
}

// Delete removes a record after explicit confirmation. A declined or
// unconfirmable delete returns false without contacting the backend. After a
// successful delete the current page is reloaded, and when it now lies past
// the last page the cursor is clamped and the list reloaded once more.
func (c *ResourceListController[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	disposed := c.disposed
	c.mu.Unlock()
	if disposed {
		return false, appErrors.Clone(appErrors.ErrDisposed, "")
	}
	if c.confirmer == nil || !c.confirmer.Confirm(ctx, c.cfg.ConfirmMessage) {
		return false, nil
	}

	if err := c.source.Delete(ctx, id); err != nil {
		appErr := appErrors.FromError(err)
		c.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
		c.notifier.Notify(ctx, models.Notice{Kind: models.NoticeError, Message: appErr.Message})
		return false, appErr
	}

	_ = c.cache.Invalidate(ctx, models.ListCachePattern(c.resource))
	c.notifier.Notify(ctx, models.Notice{
		Kind:    models.NoticeSuccess,
		Message: fmt.Sprintf("%s deleted successfully", c.resource.Singular()),
	})

	requested := c.currentPage()
	if err := c.Load(ctx); err != nil {
		return true, err
	}

	c.mu.Lock()
	totalPages := c.state.TotalPages
	c.mu.Unlock()
	if totalPages >= 1 && requested > totalPages {
		c.mu.Lock()
		c.store.SetPage(totalPages)
		c.mu.Unlock()
		if err := c.Load(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Dispose cancels in-flight loads; any response arriving later is dropped.
func (c *ResourceListController[T]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	for seq, cancel := range c.inflight {
		cancel()
		delete(c.inflight, seq)
	}
}

// View snapshots the published state.
func (c *ResourceListController[T]) View() ListViewModel[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return ListViewModel[T]{
		Resource:   c.resource,
		Items:      items,
		Pagination: c.state,
		Pages:      c.pagination.Window(c.state),
		Loading:    c.loading,
		Error:      c.lastErr,
		Filters:    c.store.Descriptor(),
		FromCache:  c.fromCache,
	}
}

func (c *ResourceListController[T]) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Page()
}
