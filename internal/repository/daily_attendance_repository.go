package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
)

// CooldownViolation is returned when the transactional re-check finds a scan
// for the same child inside the cooldown window. This catches the race where
// two staff members scan the same badge near-simultaneously.
type CooldownViolation struct {
	Elapsed time.Duration
}

func (e *CooldownViolation) Error() string {
	return fmt.Sprintf("scan within cooldown window, elapsed %s", e.Elapsed)
}

// RecordScanParams carries one accepted scan into the data layer.
type RecordScanParams struct {
	ChildID        string
	ScanType       models.ScanType
	ScanTime       time.Time
	AttendanceDate time.Time
	ScannedBy      string
	Cooldown       time.Duration
}

// DailyAttendanceRepository owns the one-row-per-child-per-day attendance
// table, upserted on (child_id, attendance_date).
type DailyAttendanceRepository struct {
	db *sqlx.DB
}

// NewDailyAttendanceRepository constructs the repository.
func NewDailyAttendanceRepository(db *sqlx.DB) *DailyAttendanceRepository {
	return &DailyAttendanceRepository{db: db}
}

const attendanceColumns = `id, child_id, attendance_date, is_present, arrival_time, departure_time,
arrival_scanned_by, departure_scanned_by, created_at, updated_at`

// RecordScan commits one scan atomically: it locks the child row, re-checks
// the latest scan inside the transaction, appends the scan event and upserts
// the daily attendance row. Concurrent scans of the same child serialize on
// the row lock; different children never contend.
func (r *DailyAttendanceRepository) RecordScan(ctx context.Context, params RecordScanParams) (*models.DailyAttendance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record scan: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	var lockedID string
	if err := tx.GetContext(ctx, &lockedID, `SELECT id FROM children WHERE id = $1 FOR UPDATE`, params.ChildID); err != nil {
		return nil, fmt.Errorf("lock child row: %w", err)
	}

	var lastScanTime time.Time
	err = tx.GetContext(ctx, &lastScanTime,
		`SELECT scan_time FROM scan_events WHERE child_id = $1 ORDER BY scan_time DESC LIMIT 1`, params.ChildID)
	switch {
	case err == sql.ErrNoRows:
		// first scan ever, nothing to re-check
	case err != nil:
		return nil, fmt.Errorf("recheck latest scan: %w", err)
	default:
		if elapsed := params.ScanTime.Sub(lastScanTime); elapsed < params.Cooldown {
			return nil, &CooldownViolation{Elapsed: elapsed}
		}
	}

	event := &models.ScanEvent{
		ChildID:   params.ChildID,
		ScanType:  params.ScanType,
		ScanTime:  params.ScanTime,
		ScannedBy: params.ScannedBy,
	}
	if err := insertScanEventTx(ctx, tx, event); err != nil {
		return nil, err
	}

	stored, err := upsertAttendanceTx(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record scan: %w", err)
	}
	committed = true
	return stored, nil
}

// upsertAttendanceTx writes the daily row for one accepted scan. An arrival
// overwrites only the arrival fields of an existing row; a departure with no
// prior row still creates one (is_present stays false) to keep the audit
// trail intact.
func upsertAttendanceTx(ctx context.Context, tx *sqlx.Tx, params RecordScanParams) (*models.DailyAttendance, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	var query string
	if params.ScanType == models.ScanTypeArrival {
		query = `INSERT INTO daily_attendance (id, child_id, attendance_date, is_present, arrival_time, arrival_scanned_by, created_at, updated_at)
VALUES ($1, $2, $3, TRUE, $4, $5, $6, $6)
ON CONFLICT (child_id, attendance_date)
DO UPDATE SET is_present = TRUE, arrival_time = EXCLUDED.arrival_time, arrival_scanned_by = EXCLUDED.arrival_scanned_by, updated_at = EXCLUDED.updated_at
RETURNING ` + attendanceColumns
	} else {
		query = `INSERT INTO daily_attendance (id, child_id, attendance_date, is_present, departure_time, departure_scanned_by, created_at, updated_at)
VALUES ($1, $2, $3, FALSE, $4, $5, $6, $6)
ON CONFLICT (child_id, attendance_date)
DO UPDATE SET departure_time = EXCLUDED.departure_time, departure_scanned_by = EXCLUDED.departure_scanned_by, updated_at = EXCLUDED.updated_at
RETURNING ` + attendanceColumns
	}
	var stored models.DailyAttendance
	if err := tx.GetContext(ctx, &stored, query, id, params.ChildID, params.AttendanceDate, params.ScanTime, params.ScannedBy, now); err != nil {
		return nil, fmt.Errorf("upsert daily attendance: %w", err)
	}
	return &stored, nil
}

// FindByChildAndDate loads the daily row for one child, or nil when absent.
func (r *DailyAttendanceRepository) FindByChildAndDate(ctx context.Context, childID string, date time.Time) (*models.DailyAttendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM daily_attendance WHERE child_id = $1 AND attendance_date = $2`
	var row models.DailyAttendance
	if err := r.db.GetContext(ctx, &row, query, childID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find daily attendance: %w", err)
	}
	return &row, nil
}

// ListByDate returns the register for one date.
func (r *DailyAttendanceRepository) ListByDate(ctx context.Context, filter models.DailyAttendanceFilter) ([]models.DailyAttendanceRecord, int, error) {
	base := `FROM daily_attendance da
JOIN children ch ON ch.id = da.child_id
LEFT JOIN groups g ON g.id = ch.group_id`
	where := []string{"da.attendance_date = $1"}
	args := []interface{}{filter.Date}
	if filter.GroupID != "" {
		where = append(where, fmt.Sprintf("ch.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.Section != "" {
		where = append(where, fmt.Sprintf("ch.section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.Present != nil {
		where = append(where, fmt.Sprintf("da.is_present = $%d", len(args)+1))
		args = append(args, *filter.Present)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"arrival_time": "da.arrival_time",
		"last_name":    "ch.last_name",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "ch.last_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT da.id, da.child_id, da.attendance_date, da.is_present, da.arrival_time, da.departure_time,
        da.arrival_scanned_by, da.departure_scanned_by, da.created_at, da.updated_at,
        ch.first_name AS child_first_name, ch.last_name AS child_last_name, ch.group_id, g.name AS group_name
        %s WHERE %s
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, base, whereClause, sortColumn, order, size, offset)
	var rows []models.DailyAttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list daily attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count daily attendance: %w", err)
	}
	return rows, total, nil
}

// ChildHistory returns a child's attendance rows within a date range,
// newest first.
func (r *DailyAttendanceRepository) ChildHistory(ctx context.Context, childID string, from, to *time.Time) ([]models.DailyAttendance, error) {
	where := []string{"child_id = $1"}
	args := []interface{}{childID}
	if from != nil {
		args = append(args, *from)
		where = append(where, fmt.Sprintf("attendance_date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		where = append(where, fmt.Sprintf("attendance_date <= $%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM daily_attendance WHERE %s ORDER BY attendance_date DESC`,
		attendanceColumns, strings.Join(where, " AND "))
	var rows []models.DailyAttendance
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("child attendance history: %w", err)
	}
	return rows, nil
}

// DaySummary counts presence for one date against the active roster.
func (r *DailyAttendanceRepository) DaySummary(ctx context.Context, date time.Time) (*models.AttendanceDaySummary, error) {
	query := `SELECT
        COUNT(*) FILTER (WHERE da.is_present) AS present,
        COUNT(*) FILTER (WHERE da.departure_time IS NOT NULL) AS departed,
        (SELECT COUNT(*) FROM children WHERE status = $2) AS total_active
        FROM daily_attendance da WHERE da.attendance_date = $1`
	row := struct {
		Present     int `db:"present"`
		Departed    int `db:"departed"`
		TotalActive int `db:"total_active"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, date, models.ChildStatusActive); err != nil {
		return nil, fmt.Errorf("day summary: %w", err)
	}
	return &models.AttendanceDaySummary{
		Date:        date,
		Present:     row.Present,
		Departed:    row.Departed,
		TotalActive: row.TotalActive,
	}, nil
}
