package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/noah-isme/sma-adp-console/internal/middleware"
	"github.com/noah-isme/sma-adp-console/internal/models"
	"github.com/noah-isme/sma-adp-console/internal/service"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
	"github.com/noah-isme/sma-adp-console/pkg/export"
	"github.com/noah-isme/sma-adp-console/pkg/response"
)

// reserved query keys never forwarded as filters.
var reservedQuery = map[string]struct{}{
	models.QueryPage:  {},
	models.QueryLimit: {},
	"q":               {},
	"format":          {},
	"confirm":         {},
}

type resourceConsole interface {
	Resource() models.Resource
	List(ctx context.Context, q service.ListQuery) (*service.ConsolePage, error)
	Detail(ctx context.Context, id string) (interface{}, error)
	Delete(ctx context.Context, id string, confirmed bool, q service.ListQuery) (*service.ConsolePage, error)
	Form(ctx context.Context, id string) (*service.FormState, error)
	Submit(ctx context.Context, id string, values map[string]interface{}) (*service.SubmitResult, error)
	Export(ctx context.Context, q service.ListQuery, format export.Format) (*service.ExportFile, error)
}

// ConsoleHandler serves the list, form and export screens of every resource.
type ConsoleHandler struct {
	consoles map[models.Resource]resourceConsole
}

// NewConsoleHandler registers one console per resource.
func NewConsoleHandler(consoles ...resourceConsole) *ConsoleHandler {
	h := &ConsoleHandler{consoles: make(map[models.Resource]resourceConsole, len(consoles))}
	for _, console := range consoles {
		h.consoles[console.Resource()] = console
	}
	return h
}

// Register mounts the console routes on group.
func (h *ConsoleHandler) Register(group *gin.RouterGroup) {
	group.GET("/:resource", h.List)
	group.GET("/:resource/export", h.Export)
	group.GET("/:resource/form", h.Form)
	group.GET("/:resource/:id", h.Detail)
	group.GET("/:resource/:id/form", h.Form)
	group.POST("/:resource", h.Create)
	group.PUT("/:resource/:id", h.Update)
	group.DELETE("/:resource/:id", h.Delete)
}

func (h *ConsoleHandler) console(c *gin.Context) (resourceConsole, bool) {
	resource, ok := models.ParseResource(c.Param("resource"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown resource %q", c.Param("resource"))))
		return nil, false
	}
	console, ok := h.consoles[resource]
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("resource %s is not served", resource)))
		return nil, false
	}
	return console, true
}

func listQuery(c *gin.Context) service.ListQuery {
	q := service.ListQuery{
		Page:    cast.ToInt(c.Query(models.QueryPage)),
		Limit:   cast.ToInt(c.Query(models.QueryLimit)),
		Search:  c.Query("q"),
		Filters: map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		if _, skip := reservedQuery[key]; skip || len(values) == 0 {
			continue
		}
		q.Filters[key] = values[0]
	}
	return q
}

func pageMeta(c *gin.Context, page *service.ConsolePage) map[string]interface{} {
	middleware.SetCacheHit(c, page.FromCache)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["resource"] = page.Resource
	meta["pages"] = page.Pages
	meta["filters"] = page.Filters
	if page.ReloadFailed {
		meta["reload_failed"] = true
	}
	return meta
}

// List godoc
// @Summary List one page of a resource
// @Tags Console
// @Produce json
// @Param resource path string true "students, classes, departments or courses"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param q query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /console/{resource} [get]
func (h *ConsoleHandler) List(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	page, err := console.List(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, http.StatusOK, page.Items, &page.Pagination, page.Notices, pageMeta(c, page))
}

// Detail godoc
// @Summary Show one record with derived fields
// @Tags Console
// @Produce json
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /console/{resource}/{id} [get]
func (h *ConsoleHandler) Detail(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	record, err := console.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a record after confirmation
// @Tags Console
// @Produce json
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /console/{resource}/{id} [delete]
func (h *ConsoleHandler) Delete(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	confirmed := cast.ToBool(c.Query("confirm"))
	page, err := console.Delete(c.Request.Context(), c.Param("id"), confirmed, listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, http.StatusOK, page.Items, &page.Pagination, page.Notices, pageMeta(c, page))
}

// Form godoc
// @Summary Create or edit form state
// @Tags Console
// @Produce json
// @Param resource path string true "Resource"
// @Param id path string false "Record ID (edit form)"
// @Success 200 {object} response.Envelope
// @Router /console/{resource}/form [get]
// @Router /console/{resource}/{id}/form [get]
func (h *ConsoleHandler) Form(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	state, err := console.Form(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Create godoc
// @Summary Submit a create form
// @Tags Console
// @Accept json
// @Produce json
// @Param resource path string true "Resource"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /console/{resource} [post]
func (h *ConsoleHandler) Create(c *gin.Context) {
	h.submit(c, "", http.StatusCreated)
}

// Update godoc
// @Summary Submit an edit form
// @Tags Console
// @Accept json
// @Produce json
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /console/{resource}/{id} [put]
func (h *ConsoleHandler) Update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "id is required"))
		return
	}
	h.submit(c, id, http.StatusOK)
}

func (h *ConsoleHandler) submit(c *gin.Context, id string, status int) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "invalid form payload"))
		return
	}
	result, err := console.Submit(c.Request.Context(), id, values)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.WithNotices(c, status, result.Record, result.Notices)
}

// Export godoc
// @Summary Export the current page
// @Tags Console
// @Produce text/csv
// @Produce application/json
// @Produce application/pdf
// @Param resource path string true "Resource"
// @Param format query string false "csv, json or pdf"
// @Success 200 {file} file
// @Router /console/{resource}/export [get]
func (h *ConsoleHandler) Export(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, err.Error()))
		return
	}
	file, err := console.Export(c.Request.Context(), listQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
