package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-console/internal/dto"
	"github.com/noah-isme/sma-adp-console/internal/middleware"
)

type fakeDashboardSrv struct {
	resp *dto.DashboardResponse
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Load(context.Context) (*dto.DashboardResponse, bool, error) {
	return f.resp, f.hit, f.err
}

type responseEnvelope struct {
	Data       map[string]interface{}   `json:"data"`
	Meta       map[string]interface{}   `json:"meta"`
	Error      map[string]interface{}   `json:"error"`
	Pagination map[string]interface{}   `json:"pagination"`
	Notices    []map[string]interface{} `json:"notices"`
}

func TestDashboardHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &dto.DashboardResponse{
			Stats:    dto.DashboardStats{TotalStudents: 120, ActiveStudents: 100},
			Failures: []string{"recentClasses"},
		},
		hit: false,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/console/dashboard", nil)
	middleware.WithResponseMeta()(c)

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Meta["cache_hit"])
	assert.Equal(t, true, envelope.Meta["partial"])
	stats := envelope.Data["stats"].(map[string]interface{})
	assert.Equal(t, float64(120), stats["totalStudents"])
	assert.Equal(t, []interface{}{"recentClasses"}, envelope.Data["failures"])
}

func TestDashboardHandlerCancelled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: context.Canceled})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/console/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, 499, rec.Code)
}

func TestDashboardHandlerWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/console/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
