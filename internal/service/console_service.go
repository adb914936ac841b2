package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/form"
	"github.com/noah-isme/sma-adp-console/internal/models"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
	"github.com/noah-isme/sma-adp-console/pkg/export"
)

// resourceStore is everything one resource screen needs from the backend.
type resourceStore[T any] interface {
	listSource[T]
	recordStore[T]
}

// ListQuery is one gateway list request.
type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// ConsolePage is a rendered list screen. ReloadFailed marks a page that
// could not be refreshed after a mutation that did succeed.
type ConsolePage struct {
	Resource     models.Resource         `json:"resource"`
	Items        interface{}             `json:"items"`
	Pagination   models.PaginationState  `json:"pagination"`
	Pages        []int                   `json:"pages"`
	Filters      models.FilterDescriptor `json:"filters"`
	FromCache    bool                    `json:"-"`
	ReloadFailed bool                    `json:"-"`
	Notices      []models.Notice         `json:"-"`
}

// FormState is a rendered create/edit form. Errors only cover touched fields.
type FormState struct {
	Resource models.Resource        `json:"resource"`
	ID       string                 `json:"id,omitempty"`
	Editing  bool                   `json:"editing"`
	Values   map[string]interface{} `json:"values"`
	Errors   map[string][]string    `json:"errors"`
	Valid    bool                   `json:"valid"`
	Touched  bool                   `json:"touched"`
	Dirty    bool                   `json:"dirty"`
}

// SubmitResult carries the saved record and the feedback it produced.
type SubmitResult struct {
	Record  interface{}     `json:"record"`
	Notices []models.Notice `json:"-"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}

// ResourceConsoleParams groups constructor dependencies.
type ResourceConsoleParams[T any] struct {
	Resource   models.Resource
	Store      resourceStore[T]
	Decorate   func(T) T
	Schema     func() form.Spec
	Values     func(T) map[string]interface{}
	Columns    []Column[T]
	Pagination *PaginationCalculator
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     ResourceListConfig
}

// ResourceConsole serves the list, form and export screens of one resource.
// Every call builds its own controller or form, so screens never share
// sequence or filter state across requests.
type ResourceConsole[T any] struct {
	params ResourceConsoleParams[T]
}

// NewResourceConsole constructs a console for params.Resource.
func NewResourceConsole[T any](params ResourceConsoleParams[T]) *ResourceConsole[T] {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &ResourceConsole[T]{params: params}
}

// Resource names the served resource.
func (c *ResourceConsole[T]) Resource() models.Resource {
	return c.params.Resource
}

func (c *ResourceConsole[T]) controller(confirmer Confirmer, notices *noticeBuffer) *ResourceListController[T] {
	return NewResourceListController(ResourceListParams[T]{
		Resource:   c.params.Resource,
		Source:     c.params.Store,
		Decorate:   c.params.Decorate,
		Confirmer:  confirmer,
		Notifier:   notices,
		Pagination: c.params.Pagination,
		Cache:      c.params.Cache,
		Metrics:    c.params.Metrics,
		Logger:     c.params.Logger,
		Config:     c.params.Config,
	})
}

func (c *ResourceConsole[T]) filters(q ListQuery) map[string]string {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		key := c.params.Config.SearchKey
		if key == "" {
			key = "search"
		}
		filters[key] = search
	}
	return filters
}

func renderPage[T any](view ListViewModel[T], notices []models.Notice) *ConsolePage {
	return &ConsolePage{
		Resource:   view.Resource,
		Items:      view.Items,
		Pagination: view.Pagination,
		Pages:      view.Pages,
		Filters:    view.Filters,
		FromCache:  view.FromCache,
		Notices:    notices,
	}
}

// List loads one page.
func (c *ResourceConsole[T]) List(ctx context.Context, q ListQuery) (*ConsolePage, error) {
	notices := &noticeBuffer{}
	ctrl := c.controller(nil, notices)
	defer ctrl.Dispose()

	if err := ctrl.ApplyFilters(ctx, q.Page, q.Limit, c.filters(q)); err != nil {
		return nil, err
	}
	return renderPage(ctrl.View(), notices.drain()), nil
}

// Delete removes id and returns the reloaded page q pointed at. Without
// confirmed nothing is sent and the error carries the confirmation question.
// When the delete succeeds but the reload fails, the page is returned empty
// with ReloadFailed set.
func (c *ResourceConsole[T]) Delete(ctx context.Context, id string, confirmed bool, q ListQuery) (*ConsolePage, error) {
	notices := &noticeBuffer{}
	confirmer := ConfirmFunc(func(context.Context, string) bool { return confirmed })
	ctrl := c.controller(confirmer, notices)
	defer ctrl.Dispose()

	ctrl.Restore(q.Page, q.Limit, c.filters(q))
	deleted, err := ctrl.Delete(ctx, id)
	if !deleted {
		if err != nil {
			return nil, err
		}
		return nil, appErrors.Clone(appErrors.ErrConfirmation, ctrl.ConfirmMessage())
	}
	page := renderPage(ctrl.View(), notices.drain())
	if err != nil {
		// The record is gone; only the reload failed. Notices carry both outcomes.
		c.params.Logger.Warn("reload after delete failed", zap.String("resource", string(c.params.Resource)), zap.String("id", id), zap.Error(err))
		page.ReloadFailed = true
	}
	return page, nil
}

// Detail fetches id with its derived fields computed.
func (c *ResourceConsole[T]) Detail(ctx context.Context, id string) (interface{}, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "id is required")
	}
	record, err := c.params.Store.Get(ctx, id)
	if err != nil {
		c.params.Logger.Warn("detail fetch failed", zap.String("resource", string(c.params.Resource)), zap.String("id", id), zap.Error(err))
		return nil, appErrors.FromError(err)
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "")
	}
	value := *record
	if c.params.Decorate != nil {
		value = c.params.Decorate(value)
	}
	return value, nil
}

func (c *ResourceConsole[T]) entityForm(notices *noticeBuffer) *EntityForm[T] {
	return NewEntityForm(EntityFormParams[T]{
		Resource: c.params.Resource,
		Store:    c.params.Store,
		Schema:   c.params.Schema,
		Values:   c.params.Values,
		Notifier: notices,
		Cache:    c.params.Cache,
		Metrics:  c.params.Metrics,
		Logger:   c.params.Logger,
	})
}

func (c *ResourceConsole[T]) state(f *EntityForm[T]) *FormState {
	tree := f.Form()
	return &FormState{
		Resource: c.params.Resource,
		ID:       f.ID(),
		Editing:  f.Editing(),
		Values:   tree.ToValue(),
		Errors:   tree.VisibleErrors(),
		Valid:    tree.Valid(),
		Touched:  tree.Touched(),
		Dirty:    tree.Dirty(),
	}
}

// Form opens the create form (empty id) or the edit form of id.
func (c *ResourceConsole[T]) Form(ctx context.Context, id string) (*FormState, error) {
	f := c.entityForm(&noticeBuffer{})
	if err := f.Open(ctx, id); err != nil {
		return nil, err
	}
	return c.state(f), nil
}

// Submit opens the form for id, applies values over it and submits. On an
// edit, fields absent from values keep the stored record's values.
func (c *ResourceConsole[T]) Submit(ctx context.Context, id string, values map[string]interface{}) (*SubmitResult, error) {
	notices := &noticeBuffer{}
	f := c.entityForm(notices)
	if err := f.Open(ctx, id); err != nil {
		return nil, err
	}
	f.Form().Populate(values)
	saved, err := f.Submit(ctx)
	if err != nil {
		return nil, err
	}
	var record interface{}
	if saved != nil {
		value := *saved
		if c.params.Decorate != nil {
			value = c.params.Decorate(value)
		}
		record = value
	}
	return &SubmitResult{Record: record, Notices: notices.drain()}, nil
}

// Export renders the page q points at in format.
func (c *ResourceConsole[T]) Export(ctx context.Context, q ListQuery, format export.Format) (*ExportFile, error) {
	ctrl := c.controller(nil, &noticeBuffer{})
	defer ctrl.Dispose()

	if err := ctrl.ApplyFilters(ctx, q.Page, q.Limit, c.filters(q)); err != nil {
		return nil, err
	}
	view := ctrl.View()
	title := string(c.params.Resource)
	data := BuildDataset(strings.ToUpper(title[:1])+title[1:], c.params.Columns, view.Items)
	body, err := export.Render(format, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}
	return &ExportFile{
		Name:        format.Filename(title, view.Pagination.CurrentPage),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// noticeBuffer collects notices raised while serving one request.
type noticeBuffer struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (b *noticeBuffer) Notify(_ context.Context, notice models.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, notice)
}

func (b *noticeBuffer) drain() []models.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}
