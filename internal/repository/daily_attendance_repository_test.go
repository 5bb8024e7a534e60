package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func attendanceRows(childID string, date time.Time, present bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "child_id", "attendance_date", "is_present", "arrival_time", "departure_time", "arrival_scanned_by", "departure_scanned_by", "created_at", "updated_at"}).
		AddRow("att-1", childID, date, present, nil, nil, nil, nil, time.Now(), time.Now())
}

func TestDailyAttendanceRecordScanArrival(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDailyAttendanceRepository(db)

	scanTime := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM children WHERE id = \$1 FOR UPDATE`).
		WithArgs("child-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("child-1"))
	mock.ExpectQuery(`SELECT scan_time FROM scan_events WHERE child_id = \$1 ORDER BY scan_time DESC LIMIT 1`).
		WithArgs("child-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO scan_events`).
		WithArgs(sqlmock.AnyArg(), "child-1", models.ScanTypeArrival, scanTime, "staff-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`INSERT INTO daily_attendance .+arrival_time, arrival_scanned_by`).
		WithArgs(sqlmock.AnyArg(), "child-1", date, scanTime, "staff-1", sqlmock.AnyArg()).
		WillReturnRows(attendanceRows("child-1", date, true))
	mock.ExpectCommit()

	stored, err := repo.RecordScan(context.Background(), RecordScanParams{
		ChildID:        "child-1",
		ScanType:       models.ScanTypeArrival,
		ScanTime:       scanTime,
		AttendanceDate: date,
		ScannedBy:      "staff-1",
		Cooldown:       5 * time.Minute,
	})
	require.NoError(t, err)
	assert.True(t, stored.IsPresent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyAttendanceRecordScanDeparture(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDailyAttendanceRepository(db)

	scanTime := time.Date(2026, 3, 10, 16, 45, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM children WHERE id = \$1 FOR UPDATE`).
		WithArgs("child-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("child-1"))
	mock.ExpectQuery(`SELECT scan_time FROM scan_events`).
		WithArgs("child-1").
		WillReturnRows(sqlmock.NewRows([]string{"scan_time"}).AddRow(scanTime.Add(-8 * time.Hour)))
	mock.ExpectExec(`INSERT INTO scan_events`).
		WithArgs(sqlmock.AnyArg(), "child-1", models.ScanTypeDeparture, scanTime, "staff-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`INSERT INTO daily_attendance .+departure_time, departure_scanned_by`).
		WithArgs(sqlmock.AnyArg(), "child-1", date, scanTime, "staff-1", sqlmock.AnyArg()).
		WillReturnRows(attendanceRows("child-1", date, false))
	mock.ExpectCommit()

	stored, err := repo.RecordScan(context.Background(), RecordScanParams{
		ChildID:        "child-1",
		ScanType:       models.ScanTypeDeparture,
		ScanTime:       scanTime,
		AttendanceDate: date,
		ScannedBy:      "staff-1",
		Cooldown:       5 * time.Minute,
	})
	require.NoError(t, err)
	assert.False(t, stored.IsPresent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyAttendanceRecordScanCooldownRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDailyAttendanceRepository(db)

	scanTime := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM children WHERE id = \$1 FOR UPDATE`).
		WithArgs("child-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("child-1"))
	mock.ExpectQuery(`SELECT scan_time FROM scan_events`).
		WithArgs("child-1").
		WillReturnRows(sqlmock.NewRows([]string{"scan_time"}).AddRow(scanTime.Add(-2 * time.Minute)))
	mock.ExpectRollback()

	_, err := repo.RecordScan(context.Background(), RecordScanParams{
		ChildID:        "child-1",
		ScanType:       models.ScanTypeArrival,
		ScanTime:       scanTime,
		AttendanceDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ScannedBy:      "staff-1",
		Cooldown:       5 * time.Minute,
	})
	require.Error(t, err)
	var violation *CooldownViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 2*time.Minute, violation.Elapsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyAttendanceFindByChildAndDateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDailyAttendanceRepository(db)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM daily_attendance WHERE child_id = \$1 AND attendance_date = \$2`).
		WithArgs("child-1", date).
		WillReturnError(sql.ErrNoRows)

	row, err := repo.FindByChildAndDate(context.Background(), "child-1", date)
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyAttendanceListByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDailyAttendanceRepository(db)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	present := true
	rows := sqlmock.NewRows([]string{"id", "child_id", "attendance_date", "is_present", "arrival_time", "departure_time", "arrival_scanned_by", "departure_scanned_by", "created_at", "updated_at", "child_first_name", "child_last_name", "group_id", "group_name"}).
		AddRow("att-1", "child-1", date, true, time.Now(), nil, "staff-1", nil, time.Now(), time.Now(), "Mila", "Janssens", "group-1", "Caterpillars")

	mock.ExpectQuery(`(?s)SELECT da\.id,.+FROM daily_attendance da\s+JOIN children ch ON ch\.id = da\.child_id`).
		WithArgs(date, "group-1", present).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM daily_attendance da`).
		WithArgs(date, "group-1", present).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.ListByDate(context.Background(), models.DailyAttendanceFilter{
		Date:    date,
		GroupID: "group-1",
		Present: &present,
	})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Mila", records[0].ChildFirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyAttendanceDaySummary(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDailyAttendanceRepository(db)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\) FILTER \(WHERE da\.is_present\) AS present`).
		WithArgs(date, models.ChildStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"present", "departed", "total_active"}).AddRow(14, 3, 20))

	summary, err := repo.DaySummary(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 14, summary.Present)
	assert.Equal(t, 3, summary.Departed)
	assert.Equal(t, 20, summary.TotalActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}
