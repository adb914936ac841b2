package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/form"
	"github.com/noah-isme/sma-adp-console/internal/models"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// recordStore is the get/mutate collaborator of an entity form.
type recordStore[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Save(ctx context.Context, id string, payload map[string]interface{}) (*T, error)
}

// EntityFormParams groups constructor dependencies.
type EntityFormParams[T any] struct {
	Resource models.Resource
	Store    recordStore[T]
	Schema   func() form.Spec
	Values   func(T) map[string]interface{}
	Notifier Notifier
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
}

// EntityForm binds a form tree to one resource record for a create or edit
// screen. It is owned by a single screen and is not safe for concurrent use.
type EntityForm[T any] struct {
	resource models.Resource
	store    recordStore[T]
	schema   func() form.Spec
	values   func(T) map[string]interface{}
	notifier Notifier
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger

	form *form.Form
	id   string
}

// NewEntityForm constructs an unopened entity form.
func NewEntityForm[T any](params EntityFormParams[T]) *EntityForm[T] {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &EntityForm[T]{
		resource: params.Resource,
		store:    params.Store,
		schema:   params.Schema,
		values:   params.Values,
		notifier: notifier,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger.With(zap.String("resource", string(params.Resource))),
	}
}

// Open builds a fresh form. With an empty id the form is a create form on
// schema defaults; otherwise the record is fetched and populated into it.
// A failed fetch leaves the form unopened.
func (f *EntityForm[T]) Open(ctx context.Context, id string) error {
	built, err := form.Build(f.schema())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid form schema")
	}
	id = strings.TrimSpace(id)
	if id != "" {
		record, err := f.store.Get(ctx, id)
		if err != nil {
			appErr := appErrors.FromError(err)
			f.notifier.Notify(ctx, models.Notice{Kind: models.NoticeError, Message: appErr.Message})
			return appErr
		}
		built.Populate(f.values(*record))
	}
	f.form = built
	f.id = id
	return nil
}

// Form exposes the live tree; nil until Open succeeds.
func (f *EntityForm[T]) Form() *form.Form {
	return f.form
}

// ID is the record being edited, empty for a create form.
func (f *EntityForm[T]) ID() string {
	return f.id
}

// Editing reports whether the form edits an existing record.
func (f *EntityForm[T]) Editing() bool {
	return f.id != ""
}

// Submit validates and persists the form. An invalid form is marked touched
// and refused locally with a validation error; nothing is sent. Backend
// failures are reported once and never retried.
func (f *EntityForm[T]) Submit(ctx context.Context) (*T, error) {
	if f.form == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "form is not open")
	}
	if !f.form.Validate() {
		f.form.MarkAllTouched()
		f.metrics.IncFormSubmission(f.resource, "invalid")
		return nil, appErrors.WithFields(appErrors.ErrValidation, f.form.FirstErrors())
	}

	verb := "created"
	if f.Editing() {
		verb = "updated"
	}

	start := time.Now()
	saved, err := f.store.Save(ctx, f.id, f.form.ToValue())
	if err != nil {
		appErr := appErrors.FromError(err)
		f.metrics.IncFormSubmission(f.resource, "error")
		f.logger.Warn("form submit failed", zap.String("id", f.id), zap.Duration("latency", time.Since(start)), zap.Error(err))
		f.notifier.Notify(ctx, models.Notice{Kind: models.NoticeError, Message: appErr.Message})
		return nil, appErr
	}

	f.metrics.IncFormSubmission(f.resource, "success")
	_ = f.cache.Invalidate(ctx, models.ListCachePattern(f.resource))
	f.notifier.Notify(ctx, models.Notice{
		Kind:    models.NoticeSuccess,
		Message: fmt.Sprintf("%s %s successfully", f.resource.Singular(), verb),
	})
	return saved, nil
}
