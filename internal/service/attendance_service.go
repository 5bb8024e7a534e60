package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
	"github.com/noah-isme/nursery-checkin-api/pkg/export"
)

type attendanceReader interface {
	ListByDate(ctx context.Context, filter models.DailyAttendanceFilter) ([]models.DailyAttendanceRecord, int, error)
	ChildHistory(ctx context.Context, childID string, from, to *time.Time) ([]models.DailyAttendance, error)
	DaySummary(ctx context.Context, date time.Time) (*models.AttendanceDaySummary, error)
}

type scanLogReader interface {
	ListForChild(ctx context.Context, childID string, from, to *time.Time) ([]models.ScanEvent, error)
}

// AttendanceService serves the daily register, per-child history and the
// exportable register sheet. Reads only; all writes go through ScanService.
type AttendanceService struct {
	attendance attendanceReader
	scans      scanLogReader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewAttendanceService constructs the attendance reporting service.
func NewAttendanceService(attendance attendanceReader, scans scanLogReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		attendance: attendance,
		scans:      scans,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests and nowhere else.
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// RegisterRequest filters the daily register listing.
type RegisterRequest struct {
	Date      string `json:"date"`
	GroupID   string `json:"group_id"`
	Section   string `json:"section"`
	Present   *bool  `json:"present"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// Register returns the attendance register for one date.
func (s *AttendanceService) Register(ctx context.Context, req RegisterRequest) ([]models.DailyAttendanceRecord, *models.Pagination, error) {
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, nil, err
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = 50
	}
	filter := models.DailyAttendanceFilter{
		Date:      date,
		GroupID:   req.GroupID,
		Section:   req.Section,
		Present:   req.Present,
		Page:      page,
		PageSize:  size,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	rows, total, err := s.attendance.ListByDate(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return rows, pagination, nil
}

// ChildHistoryReport bundles the attendance rows and the raw scan log.
type ChildHistoryReport struct {
	Attendance []models.DailyAttendance `json:"attendance"`
	ScanLog    []models.ScanEvent       `json:"scan_log"`
}

// ChildHistory returns a child's attendance history with its scan log.
func (s *AttendanceService) ChildHistory(ctx context.Context, childID string, from, to *time.Time) (*ChildHistoryReport, error) {
	if childID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "child id required")
	}
	history, err := s.attendance.ChildHistory(ctx, childID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	scanLog, err := s.scans.ListForChild(ctx, childID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scan log")
	}
	return &ChildHistoryReport{Attendance: history, ScanLog: scanLog}, nil
}

// DaySummary returns presence counts for one date.
func (s *AttendanceService) DaySummary(ctx context.Context, rawDate string) (*models.AttendanceDaySummary, error) {
	date, err := s.parseDate(rawDate)
	if err != nil {
		return nil, err
	}
	summary, err := s.attendance.DaySummary(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise attendance")
	}
	return summary, nil
}

// ExportRegister renders the register for a date as CSV or PDF.
func (s *AttendanceService) ExportRegister(ctx context.Context, rawDate, format string) ([]byte, string, string, error) {
	date, err := s.parseDate(rawDate)
	if err != nil {
		return nil, "", "", err
	}
	rows, _, err := s.attendance.ListByDate(ctx, models.DailyAttendanceFilter{Date: date, PageSize: 200})
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load register")
	}

	dataset := export.Dataset{
		Headers: []string{"Child", "Group", "Present", "Arrival", "Departure"},
		Rows:    make([]map[string]string, len(rows)),
	}
	for i, row := range rows {
		groupName := ""
		if row.GroupName != nil {
			groupName = *row.GroupName
		}
		dataset.Rows[i] = map[string]string{
			"Child":     fmt.Sprintf("%s %s", row.ChildFirstName, row.ChildLastName),
			"Group":     groupName,
			"Present":   fmt.Sprintf("%t", row.IsPresent),
			"Arrival":   formatClock(row.ArrivalTime),
			"Departure": formatClock(row.DepartureTime),
		}
	}

	day := date.Format("2006-01-02")
	switch format {
	case "", "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", fmt.Sprintf("attendance-%s.csv", day), nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Attendance register %s", day))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", fmt.Sprintf("attendance-%s.pdf", day), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format, expected csv or pdf")
	}
}

// parseDate accepts YYYY-MM-DD and defaults to today when empty.
func (s *AttendanceService) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return dateOf(s.now()), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return date, nil
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
