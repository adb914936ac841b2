package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-console/internal/middleware"
	"github.com/noah-isme/sma-adp-console/internal/models"
	"github.com/noah-isme/sma-adp-console/internal/service"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
	"github.com/noah-isme/sma-adp-console/pkg/export"
)

type fakeConsole struct {
	resource  models.Resource
	lastQuery service.ListQuery
	lastID    string
	reloadErr bool
	confirmed bool
	values    map[string]interface{}
	err       error
}

func (f *fakeConsole) Resource() models.Resource { return f.resource }

func (f *fakeConsole) page() *service.ConsolePage {
	return &service.ConsolePage{
		Resource:   f.resource,
		Items:      []models.Student{{ID: "s1", Name: "Ada"}},
		Pagination: models.PaginationState{CurrentPage: 2, ItemsPerPage: 10, TotalItems: 11, TotalPages: 2, HasPrevPage: true},
		Pages:      []int{1, 2},
		FromCache:  true,
	}
}

func (f *fakeConsole) List(_ context.Context, q service.ListQuery) (*service.ConsolePage, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.page(), nil
}

func (f *fakeConsole) Detail(_ context.Context, id string) (interface{}, error) {
	f.lastID = id
	if id != "s1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "")
	}
	return models.Student{ID: "s1", Name: "Ada", Age: 16}, nil
}

func (f *fakeConsole) Delete(_ context.Context, id string, confirmed bool, q service.ListQuery) (*service.ConsolePage, error) {
	f.lastID, f.confirmed, f.lastQuery = id, confirmed, q
	if !confirmed {
		return nil, appErrors.Clone(appErrors.ErrConfirmation, "Are you sure you want to delete this student?")
	}
	page := f.page()
	page.Notices = []models.Notice{{Kind: models.NoticeSuccess, Message: "Student deleted successfully"}}
	if f.reloadErr {
		page.ReloadFailed = true
		page.Notices = append(page.Notices, models.Notice{Kind: models.NoticeError, Message: "cannot connect to server"})
	}
	return page, nil
}

func (f *fakeConsole) Form(_ context.Context, id string) (*service.FormState, error) {
	f.lastID = id
	return &service.FormState{Resource: f.resource, ID: id, Editing: id != "", Values: map[string]interface{}{"name": ""}}, nil
}

func (f *fakeConsole) Submit(_ context.Context, id string, values map[string]interface{}) (*service.SubmitResult, error) {
	f.lastID, f.values = id, values
	if f.err != nil {
		return nil, f.err
	}
	verb := "created"
	if id != "" {
		verb = "updated"
	}
	return &service.SubmitResult{
		Record:  models.Student{ID: "s1", Name: "Ada"},
		Notices: []models.Notice{{Kind: models.NoticeSuccess, Message: "Student " + verb + " successfully"}},
	}, nil
}

func (f *fakeConsole) Export(_ context.Context, q service.ListQuery, format export.Format) (*service.ExportFile, error) {
	f.lastQuery = q
	return &service.ExportFile{Name: format.Filename("students", 1), ContentType: format.ContentType(), Body: []byte("Name\nAda\n")}, nil
}

// listEnvelope decodes list-shaped responses, where data is an array.
type listEnvelope struct {
	Data       []map[string]interface{} `json:"data"`
	Pagination map[string]interface{}   `json:"pagination"`
	Notices    []map[string]interface{} `json:"notices"`
	Meta       map[string]interface{}   `json:"meta"`
}

func newConsoleRouter(console *fakeConsole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	NewConsoleHandler(console).Register(r.Group("/console"))
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestConsoleHandlerListParsesQuery(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodGet, "/console/students?page=2&limit=10&q=ada&status=Active&format=csv", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ListQuery{
		Page: 2, Limit: 10, Search: "ada", Filters: map[string]string{"status": "Active"},
	}, console.lastQuery)

	var envelope struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination models.PaginationState   `json:"pagination"`
		Meta       map[string]interface{}   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, 2, envelope.Pagination.CurrentPage)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, envelope.Meta["pages"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestConsoleHandlerUnknownResource(t *testing.T) {
	r := newConsoleRouter(&fakeConsole{resource: models.ResourceStudents})

	rec := serve(r, http.MethodGet, "/console/teachers", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, http.MethodGet, "/console/classes", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsoleHandlerListError(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents, err: appErrors.FromStatus(0, "")}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodGet, "/console/students", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, appErrors.ErrNetworkUnreachable.Code, envelope.Error["code"])
}

func TestConsoleHandlerDeleteConfirmation(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodDelete, "/console/students/s1", "")
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.False(t, console.confirmed)

	rec = serve(r, http.MethodDelete, "/console/students/s1?confirm=true&page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", console.lastID)
	assert.Equal(t, 2, console.lastQuery.Page)
	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Notices, 1)
	assert.Equal(t, "Student deleted successfully", envelope.Notices[0]["message"])
}

func TestConsoleHandlerDeleteWithFailedReload(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents, reloadErr: true}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodDelete, "/console/students/s1?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["reload_failed"])
	require.Len(t, envelope.Notices, 2)
	assert.Equal(t, "Student deleted successfully", envelope.Notices[0]["message"])
}

func TestConsoleHandlerForms(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodGet, "/console/students/form", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", console.lastID)

	rec = serve(r, http.MethodGet, "/console/students/s1/form", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", console.lastID)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["editing"])
}

func TestConsoleHandlerSubmit(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodPost, "/console/students", `{"name":"Ada","address":{"city":"Bandung"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "", console.lastID)
	assert.Equal(t, "Bandung", console.values["address"].(map[string]interface{})["city"])

	rec = serve(r, http.MethodPut, "/console/students/s1", `{"name":"Ada"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", console.lastID)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Student updated successfully", envelope.Notices[0]["message"])

	rec = serve(r, http.MethodPost, "/console/students", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsoleHandlerSubmitValidation(t *testing.T) {
	console := &fakeConsole{
		resource: models.ResourceStudents,
		err:      appErrors.WithFields(appErrors.ErrValidation, map[string]string{"email": "This field is required"}),
	}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodPost, "/console/students", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	fields := envelope.Error["fields"].(map[string]interface{})
	assert.Equal(t, "This field is required", fields["email"])
}

func TestConsoleHandlerExport(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodGet, "/console/students/export?format=pdf&page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "students-page-1.pdf")
	assert.Empty(t, console.lastQuery.Filters)

	rec = serve(r, http.MethodGet, "/console/students/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsoleHandlerDetail(t *testing.T) {
	console := &fakeConsole{resource: models.ResourceStudents}
	r := newConsoleRouter(console)

	rec := serve(r, http.MethodGet, "/console/students/s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Ada", envelope.Data["name"])
	assert.Equal(t, float64(16), envelope.Data["age"])

	rec = serve(r, http.MethodGet, "/console/students/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing", console.lastID)

	rec = serve(r, http.MethodGet, "/console/students/form", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", console.lastID, "static form route wins over the id route")
}
