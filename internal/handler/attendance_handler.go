package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/internal/service"
	"github.com/noah-isme/nursery-checkin-api/pkg/response"
)

type attendanceService interface {
	Register(ctx context.Context, req service.RegisterRequest) ([]models.DailyAttendanceRecord, *models.Pagination, error)
	ChildHistory(ctx context.Context, childID string, from, to *time.Time) (*service.ChildHistoryReport, error)
	DaySummary(ctx context.Context, rawDate string) (*models.AttendanceDaySummary, error)
	ExportRegister(ctx context.Context, rawDate, format string) ([]byte, string, string, error)
}

// AttendanceHandler exposes the daily register and history views.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Register godoc
// @Summary Daily attendance register
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD, defaults to today)"
// @Param groupId query string false "Group filter"
// @Param section query string false "Section filter"
// @Param present query bool false "Presence filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance/daily [get]
func (h *AttendanceHandler) Register(c *gin.Context) {
	req := service.RegisterRequest{
		Date:      c.Query("date"),
		GroupID:   c.Query("groupId"),
		Section:   c.Query("section"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "limit", 50),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if raw := c.Query("present"); raw != "" {
		present := raw == "true"
		req.Present = &present
	}
	rows, pagination, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// History godoc
// @Summary A child's attendance history with scan log
// @Tags Attendance
// @Produce json
// @Param id path string true "Child ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/children/{id}/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.ChildHistory(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Summary godoc
// @Summary Presence counts for one date
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Router /attendance/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.service.DaySummary(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Export the daily register as CSV or PDF
// @Tags Attendance
// @Produce octet-stream
// @Param date query string false "Date (YYYY-MM-DD, defaults to today)"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200
// @Router /attendance/daily/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	payload, contentType, filename, err := h.service.ExportRegister(c.Request.Context(), c.Query("date"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
