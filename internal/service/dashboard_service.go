package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-adp-console/internal/dto"
	"github.com/noah-isme/sma-adp-console/internal/models"
)

// Dashboard source names, reported in DashboardResponse.Failures.
const (
	SourceStudentStats    = "studentStats"
	SourceClassStats      = "classStats"
	SourceDepartmentStats = "departmentStats"
	SourceCourseStats     = "courseStats"
	SourceRecentStudents  = "recentStudents"
	SourceRecentClasses   = "recentClasses"
)

const dashboardCacheKey = "console:dashboard"

var errSourceNotConfigured = errors.New("dashboard source not configured")

type statsProvider interface {
	Stats(ctx context.Context) (models.StatsOverview, error)
}

type recentLister[T any] interface {
	List(ctx context.Context, descriptor models.FilterDescriptor) (*models.ListResponse[T], error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	RecentLimit int
	CacheTTL    time.Duration
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	StudentStats    statsProvider
	ClassStats      statsProvider
	DepartmentStats statsProvider
	CourseStats     statsProvider
	Students        recentLister[models.Student]
	Classes         recentLister[models.Class]
	Virtuals        *VirtualFieldComputer
	Cache           *CacheService
	Metrics         *MetricsService
	Logger          *zap.Logger
	Config          DashboardServiceConfig
}

// DashboardService fans out to every dashboard source and merges the results.
type DashboardService struct {
	studentStats    statsProvider
	classStats      statsProvider
	departmentStats statsProvider
	courseStats     statsProvider
	students        recentLister[models.Student]
	classes         recentLister[models.Class]
	virtuals        *VirtualFieldComputer
	cache           *CacheService
	metrics         *MetricsService
	logger          *zap.Logger
	now             func() time.Time
	cfg             DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.RecentLimit <= 0 || cfg.RecentLimit > 5 {
		cfg.RecentLimit = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	virtuals := params.Virtuals
	if virtuals == nil {
		virtuals = NewVirtualFieldComputer(nil)
	}
	return &DashboardService{
		studentStats:    params.StudentStats,
		classStats:      params.ClassStats,
		departmentStats: params.DepartmentStats,
		courseStats:     params.CourseStats,
		students:        params.Students,
		classes:         params.Classes,
		virtuals:        virtuals,
		cache:           params.Cache,
		metrics:         params.Metrics,
		logger:          logger,
		now:             time.Now,
		cfg:             cfg,
	}
}

// Load composes the dashboard. It never fails because of a source: each
// failed source is defaulted and named in Failures. The boolean reports a
// cache hit. Only complete views are cached.
func (s *DashboardService) Load(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	return readThrough(ctx, s.cache, dashboardCacheKey, s.cfg.CacheTTL,
		func(ctx context.Context) (*dto.DashboardResponse, error) {
			resp := s.compose(ctx)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return resp, nil
		},
		func(resp *dto.DashboardResponse) bool { return !resp.Partial() })
}

func (s *DashboardService) compose(ctx context.Context) *dto.DashboardResponse {
	resp := &dto.DashboardResponse{
		RecentStudents: []models.Student{},
		RecentClasses:  []models.Class{},
	}

	var (
		mu       sync.Mutex
		failures []string
	)
	fail := func(source string, err error) {
		s.logger.Warn("dashboard source failed", zap.String("source", source), zap.Error(err))
		s.metrics.IncDashboardFailure(source)
		mu.Lock()
		failures = append(failures, source)
		mu.Unlock()
	}

	// Branches never return an error, so the group waits for all of them
	// and no branch can cancel its siblings.
	var g errgroup.Group

	stat := func(source string, provider statsProvider, apply func(models.StatsOverview)) {
		g.Go(func() error {
			if provider == nil {
				fail(source, errSourceNotConfigured)
				return nil
			}
			overview, err := provider.Stats(ctx)
			if err != nil {
				fail(source, err)
				return nil
			}
			apply(overview)
			return nil
		})
	}

	stat(SourceStudentStats, s.studentStats, func(o models.StatsOverview) {
		resp.Stats.TotalStudents, resp.Stats.ActiveStudents = o.Total, o.Active
	})
	stat(SourceClassStats, s.classStats, func(o models.StatsOverview) {
		resp.Stats.TotalClasses, resp.Stats.ActiveClasses = o.Total, o.Active
	})
	stat(SourceDepartmentStats, s.departmentStats, func(o models.StatsOverview) {
		resp.Stats.TotalDepartments, resp.Stats.ActiveDepartments = o.Total, o.Active
	})
	stat(SourceCourseStats, s.courseStats, func(o models.StatsOverview) {
		resp.Stats.TotalCourses, resp.Stats.ActiveCourses = o.Total, o.Active
	})

	recent := models.FilterDescriptor{Page: 1, Limit: s.cfg.RecentLimit}

	g.Go(func() error {
		if s.students == nil {
			fail(SourceRecentStudents, errSourceNotConfigured)
			return nil
		}
		list, err := s.students.List(ctx, recent)
		if err != nil {
			fail(SourceRecentStudents, err)
			return nil
		}
		resp.RecentStudents = bounded(list, s.cfg.RecentLimit, s.virtuals.Student)
		return nil
	})

	g.Go(func() error {
		if s.classes == nil {
			fail(SourceRecentClasses, errSourceNotConfigured)
			return nil
		}
		list, err := s.classes.List(ctx, recent)
		if err != nil {
			fail(SourceRecentClasses, err)
			return nil
		}
		resp.RecentClasses = bounded(list, s.cfg.RecentLimit, s.virtuals.Class)
		return nil
	})

	_ = g.Wait()

	sort.Strings(failures)
	resp.Failures = failures
	resp.GeneratedAt = s.now().UTC()
	return resp
}

// bounded decorates at most limit entries of list.
func bounded[T any](list *models.ListResponse[T], limit int, decorate func(T) T) []T {
	out := []T{}
	if list == nil {
		return out
	}
	for _, item := range list.Data {
		if len(out) == limit {
			break
		}
		out = append(out, decorate(item))
	}
	return out
}
