package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type fakeEducatorSrv struct {
	rows       []models.Educator
	err        error
	lastFilter models.EducatorFilter
}

func (f *fakeEducatorSrv) Get(_ context.Context, id string) (*models.Educator, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.rows[0], nil
}

func (f *fakeEducatorSrv) List(_ context.Context, filter models.EducatorFilter) ([]models.Educator, error) {
	f.lastFilter = filter
	return f.rows, f.err
}

func TestEducatorHandlerListParsesActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeEducatorSrv{rows: []models.Educator{{ID: "staff-1", FullName: "Nora Peeters"}}}
	handler := NewEducatorHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/educators?active=true&search=nora", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nora", srv.lastFilter.Search)
	if assert.NotNil(t, srv.lastFilter.Active) {
		assert.True(t, *srv.lastFilter.Active)
	}
}

func TestEducatorHandlerListIgnoresBadActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeEducatorSrv{}
	handler := NewEducatorHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/educators?active=maybe", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastFilter.Active)
}

func TestEducatorHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEducatorHandler(&fakeEducatorSrv{err: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/educators/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
