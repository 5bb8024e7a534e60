package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/internal/service"
)

type fakeAttendanceSrv struct {
	rows     []models.DailyAttendanceRecord
	report   *service.ChildHistoryReport
	summary  *models.AttendanceDaySummary
	err      error
	lastReq  service.RegisterRequest
	lastFrom *time.Time
	lastTo   *time.Time
}

func (f *fakeAttendanceSrv) Register(_ context.Context, req service.RegisterRequest) ([]models.DailyAttendanceRecord, *models.Pagination, error) {
	f.lastReq = req
	return f.rows, &models.Pagination{Page: 1, PageSize: 50, TotalCount: len(f.rows)}, f.err
}

func (f *fakeAttendanceSrv) ChildHistory(_ context.Context, childID string, from, to *time.Time) (*service.ChildHistoryReport, error) {
	f.lastFrom = from
	f.lastTo = to
	return f.report, f.err
}

func (f *fakeAttendanceSrv) DaySummary(_ context.Context, rawDate string) (*models.AttendanceDaySummary, error) {
	return f.summary, f.err
}

func (f *fakeAttendanceSrv) ExportRegister(_ context.Context, rawDate, format string) ([]byte, string, string, error) {
	if f.err != nil {
		return nil, "", "", f.err
	}
	return []byte("Child,Group\n"), "text/csv", "attendance-2026-03-10.csv", nil
}

func TestAttendanceHandlerRegisterPassesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAttendanceSrv{}
	handler := NewAttendanceHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/daily?date=2026-03-10&groupId=group-1&present=true", nil)

	handler.Register(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-03-10", srv.lastReq.Date)
	assert.Equal(t, "group-1", srv.lastReq.GroupID)
	if assert.NotNil(t, srv.lastReq.Present) {
		assert.True(t, *srv.lastReq.Present)
	}
}

func TestAttendanceHandlerHistoryInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(&fakeAttendanceSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/children/child-1/history?from=banana", nil)
	c.Params = gin.Params{{Key: "id", Value: "child-1"}}

	handler.History(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerHistoryPassesRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAttendanceSrv{report: &service.ChildHistoryReport{}}
	handler := NewAttendanceHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/children/child-1/history?from=2026-03-01&to=2026-03-31", nil)
	c.Params = gin.Params{{Key: "id", Value: "child-1"}}

	handler.History(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, srv.lastFrom) {
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *srv.lastFrom)
	}
	if assert.NotNil(t, srv.lastTo) {
		assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *srv.lastTo)
	}
}

func TestAttendanceHandlerExportSetsDisposition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(&fakeAttendanceSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/daily/export?date=2026-03-10", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="attendance-2026-03-10.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestAttendanceHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(&fakeAttendanceSrv{summary: &models.AttendanceDaySummary{Present: 14}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}
