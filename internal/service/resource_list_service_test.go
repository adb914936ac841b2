package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-console/internal/models"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

type listCall struct {
	descriptor models.FilterDescriptor
	release    chan listResult
}

type listResult struct {
	resp *models.ListResponse[models.Class]
	err  error
}

// scriptedClassSource answers immediately from a paged in-memory table, or,
// when gated, hands every call to the test to resolve in any order.
type scriptedClassSource struct {
	mu        sync.Mutex
	classes   []models.Class
	gated     bool
	calls     chan listCall
	listErr   error
	deleteErr error
	deleted   []string
	listCount int
}

func newScriptedClassSource(n int) *scriptedClassSource {
	src := &scriptedClassSource{calls: make(chan listCall, 8)}
	for i := 0; i < n; i++ {
		src.classes = append(src.classes, models.Class{
			ID: fmt.Sprintf("c%02d", i+1), ClassName: "X", Section: fmt.Sprintf("S%d", i+1),
			Capacity: 40, CurrentStrength: 20,
		})
	}
	return src
}

func (s *scriptedClassSource) List(ctx context.Context, d models.FilterDescriptor) (*models.ListResponse[models.Class], error) {
	s.mu.Lock()
	s.listCount++
	gated, listErr := s.gated, s.listErr
	s.mu.Unlock()

	if gated {
		call := listCall{descriptor: d, release: make(chan listResult, 1)}
		s.calls <- call
		select {
		case res := <-call.release:
			return res.resp, res.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if listErr != nil {
		return nil, listErr
	}
	return s.page(d.Page, d.Limit), nil
}

func (s *scriptedClassSource) page(page, limit int) *models.ListResponse[models.Class] {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.classes)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	data := []models.Class{}
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		data = append(data, s.classes[start:end]...)
	}
	return &models.ListResponse[models.Class]{
		Success: true, Count: len(data), Total: total, Data: data,
		Pagination: models.PageInfo{
			Page: page, Limit: limit, TotalPages: totalPages,
			HasNextPage: page < totalPages, HasPrevPage: page > 1,
		},
	}
}

func (s *scriptedClassSource) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, c := range s.classes {
		if c.ID == id {
			s.classes = append(s.classes[:i], s.classes[i+1:]...)
			break
		}
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice models.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) last() models.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return models.Notice{}
	}
	return n.notices[len(n.notices)-1]
}

func newClassController(src *scriptedClassSource, confirm Confirmer, notifier Notifier) *ResourceListController[models.Class] {
	return NewResourceListController(ResourceListParams[models.Class]{
		Resource:  models.ResourceClasses,
		Source:    src,
		Decorate:  NewVirtualFieldComputer(nil).Class,
		Confirmer: confirm,
		Notifier:  notifier,
		Config:    ResourceListConfig{PageSize: 10},
	})
}

func TestResourceListLoadPublishesDecoratedPage(t *testing.T) {
	src := newScriptedClassSource(25)
	ctrl := newClassController(src, nil, nil)

	require.NoError(t, ctrl.Load(context.Background()))

	view := ctrl.View()
	require.Len(t, view.Items, 10)
	assert.Equal(t, "X-S1", view.Items[0].ClassCode)
	assert.Equal(t, 20, view.Items[0].AvailableSeats)
	assert.Equal(t, 3, view.Pagination.TotalPages)
	assert.Equal(t, 25, view.Pagination.TotalItems)
	assert.Equal(t, []int{1, 2, 3}, view.Pages)
	assert.False(t, view.Loading)
	assert.Nil(t, view.Error)
}

func TestResourceListLatestIssuedLoadWins(t *testing.T) {
	src := newScriptedClassSource(0)
	src.gated = true
	ctrl := newClassController(src, nil, nil)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- ctrl.Load(ctx) }()
	first := <-src.calls

	secondDone := make(chan error, 1)
	go func() { secondDone <- ctrl.Search(ctx, "ipa") }()
	second := <-src.calls
	assert.Equal(t, "ipa", second.descriptor.Filters["search"])

	second.release <- listResult{resp: &models.ListResponse[models.Class]{
		Total: 1, Data: []models.Class{{ID: "second", ClassName: "XI", Section: "IPA"}},
		Pagination: models.PageInfo{Page: 1, Limit: 10, TotalPages: 1},
	}}
	require.NoError(t, <-secondDone)

	first.release <- listResult{resp: &models.ListResponse[models.Class]{
		Total: 1, Data: []models.Class{{ID: "first"}},
		Pagination: models.PageInfo{Page: 1, Limit: 10, TotalPages: 1},
	}}
	require.NoError(t, <-firstDone)

	view := ctrl.View()
	require.Len(t, view.Items, 1)
	assert.Equal(t, "second", view.Items[0].ID)
	assert.Equal(t, "XI-IPA", view.Items[0].ClassCode)
	assert.False(t, view.Loading)
}

func TestResourceListStaleFailureIsIgnored(t *testing.T) {
	src := newScriptedClassSource(0)
	src.gated = true
	ctrl := newClassController(src, nil, nil)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- ctrl.Load(ctx) }()
	first := <-src.calls
	secondDone := make(chan error, 1)
	go func() { secondDone <- ctrl.Load(ctx) }()
	second := <-src.calls

	first.release <- listResult{err: appErrors.Clone(appErrors.ErrServer, "")}
	require.NoError(t, <-firstDone)
	assert.True(t, ctrl.View().Loading, "the latest load is still pending")

	second.release <- listResult{resp: &models.ListResponse[models.Class]{}}
	require.NoError(t, <-secondDone)
	assert.Nil(t, ctrl.View().Error)
}

func TestResourceListFailureKeepsPreviousState(t *testing.T) {
	src := newScriptedClassSource(15)
	notifier := &recordingNotifier{}
	ctrl := newClassController(src, nil, notifier)
	require.NoError(t, ctrl.Load(context.Background()))

	src.listErr = appErrors.Clone(appErrors.ErrNetworkUnreachable, "")
	changed, err := ctrl.ChangePage(context.Background(), 2)
	assert.True(t, changed)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNetworkUnreachable)

	view := ctrl.View()
	assert.Len(t, view.Items, 10)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
	assert.False(t, view.Loading)
	require.NotNil(t, view.Error)
	assert.Equal(t, appErrors.ErrNetworkUnreachable.Code, view.Error.Code)
	assert.Equal(t, models.NoticeError, notifier.last().Kind)
	assert.Equal(t, 2, src.listCount, "no automatic retry")
}

func TestResourceListChangePageBounds(t *testing.T) {
	src := newScriptedClassSource(25)
	ctrl := newClassController(src, nil, nil)
	ctx := context.Background()
	require.NoError(t, ctrl.Load(ctx))

	for _, n := range []int{0, -1, 4} {
		changed, err := ctrl.ChangePage(ctx, n)
		assert.False(t, changed)
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, src.listCount)

	changed, err := ctrl.ChangePage(ctx, 3)
	require.NoError(t, err)
	assert.True(t, changed)
	view := ctrl.View()
	assert.Equal(t, 3, view.Pagination.CurrentPage)
	assert.Len(t, view.Items, 5)
}

func TestResourceListSearchAndFiltersReturnToFirstPage(t *testing.T) {
	src := newScriptedClassSource(30)
	ctrl := newClassController(src, nil, nil)
	ctx := context.Background()
	require.NoError(t, ctrl.Load(ctx))
	_, err := ctrl.ChangePage(ctx, 3)
	require.NoError(t, err)

	require.NoError(t, ctrl.Search(ctx, "X"))
	assert.Equal(t, 1, ctrl.View().Filters.Page)

	_, err = ctrl.ChangePage(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, ctrl.SetFilter(ctx, "status", "Active"))
	view := ctrl.View()
	assert.Equal(t, 1, view.Filters.Page)
	assert.Equal(t, map[string]string{"search": "X", "status": "Active"}, view.Filters.Filters)

	require.NoError(t, ctrl.ClearFilters(ctx))
	view = ctrl.View()
	assert.Empty(t, view.Filters.Filters)
	assert.Equal(t, 10, view.Filters.Limit)
}

func TestResourceListDeleteRequiresConfirmation(t *testing.T) {
	src := newScriptedClassSource(5)
	var asked string
	declined := ConfirmFunc(func(_ context.Context, msg string) bool {
		asked = msg
		return false
	})
	ctrl := newClassController(src, declined, nil)
	require.NoError(t, ctrl.Load(context.Background()))

	deleted, err := ctrl.Delete(context.Background(), "c01")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, src.deleted)
	assert.Equal(t, "Are you sure you want to delete this class?", asked)

	unconfirmable := newClassController(src, nil, nil)
	deleted, err = unconfirmable.Delete(context.Background(), "c01")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, src.deleted)
}

func TestResourceListDeleteClampsPastLastPage(t *testing.T) {
	src := newScriptedClassSource(21)
	notifier := &recordingNotifier{}
	ctrl := newClassController(src, AlwaysConfirm, notifier)
	ctx := context.Background()
	require.NoError(t, ctrl.Load(ctx))
	_, err := ctrl.ChangePage(ctx, 3)
	require.NoError(t, err)
	require.Len(t, ctrl.View().Items, 1)

	deleted, err := ctrl.Delete(ctx, "c21")
	require.NoError(t, err)
	assert.True(t, deleted)

	view := ctrl.View()
	assert.Equal(t, 2, view.Pagination.CurrentPage)
	assert.Equal(t, 2, view.Pagination.TotalPages)
	assert.Len(t, view.Items, 10)
	assert.Equal(t, models.Notice{Kind: models.NoticeSuccess, Message: "Class deleted successfully"}, notifier.last())
}

func TestResourceListDeleteFailureLeavesListUnchanged(t *testing.T) {
	src := newScriptedClassSource(12)
	notifier := &recordingNotifier{}
	ctrl := newClassController(src, AlwaysConfirm, notifier)
	ctx := context.Background()
	require.NoError(t, ctrl.Load(ctx))
	before := ctrl.View()

	src.deleteErr = appErrors.Clone(appErrors.ErrConflict, "class still has students")
	deleted, err := ctrl.Delete(ctx, "c01")
	assert.False(t, deleted)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	after := ctrl.View()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Pagination, after.Pagination)
	assert.Equal(t, 1, src.listCount)
	assert.Equal(t, models.Notice{Kind: models.NoticeError, Message: "class still has students"}, notifier.last())
}

func TestResourceListDisposeDropsInFlightLoad(t *testing.T) {
	src := newScriptedClassSource(0)
	src.gated = true
	ctrl := newClassController(src, nil, nil)

	done := make(chan error, 1)
	go func() { done <- ctrl.Load(context.Background()) }()
	<-src.calls

	ctrl.Dispose()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, appErrors.ErrDisposed)
	case <-time.After(time.Second):
		t.Fatal("in-flight load was not cancelled")
	}
	assert.Empty(t, ctrl.View().Items)
	assert.ErrorIs(t, ctrl.Load(context.Background()), appErrors.ErrDisposed)
}

func TestResourceListApplyFilters(t *testing.T) {
	src := newScriptedClassSource(30)
	ctrl := newClassController(src, nil, nil)

	require.NoError(t, ctrl.ApplyFilters(context.Background(), 2, 5, map[string]string{"status": "Active", "empty": ""}))

	view := ctrl.View()
	assert.Equal(t, 2, view.Pagination.CurrentPage)
	assert.Equal(t, 6, view.Pagination.TotalPages)
	assert.Equal(t, map[string]string{"status": "Active"}, view.Filters.Filters)
	assert.Equal(t, "c06", view.Items[0].ID)
}
