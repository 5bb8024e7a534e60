package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
)

// ScanEventRepository handles the append-only scan log. Entries are never
// updated or deleted.
type ScanEventRepository struct {
	db *sqlx.DB
}

// NewScanEventRepository constructs the repository.
func NewScanEventRepository(db *sqlx.DB) *ScanEventRepository {
	return &ScanEventRepository{db: db}
}

// LatestForChild returns the most recent scan for a child, or nil when the
// child has never been scanned.
func (r *ScanEventRepository) LatestForChild(ctx context.Context, childID string) (*models.ScanEvent, error) {
	query := `SELECT id, child_id, scan_type, scan_time, scanned_by
        FROM scan_events WHERE child_id = $1
        ORDER BY scan_time DESC LIMIT 1`
	var event models.ScanEvent
	if err := r.db.GetContext(ctx, &event, query, childID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest scan: %w", err)
	}
	return &event, nil
}

// ListForChild returns a child's scan log within an optional date range,
// newest first.
func (r *ScanEventRepository) ListForChild(ctx context.Context, childID string, from, to *time.Time) ([]models.ScanEvent, error) {
	query := `SELECT id, child_id, scan_type, scan_time, scanned_by
        FROM scan_events WHERE child_id = $1`
	args := []interface{}{childID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND scan_time >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND scan_time <= $%d", len(args))
	}
	query += " ORDER BY scan_time DESC"
	var rows []models.ScanEvent
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return rows, nil
}

// insertTx appends a scan event inside an open transaction.
func insertScanEventTx(ctx context.Context, tx *sqlx.Tx, event *models.ScanEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	query := `INSERT INTO scan_events (id, child_id, scan_type, scan_time, scanned_by)
        VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, query, event.ID, event.ChildID, event.ScanType, event.ScanTime, event.ScannedBy); err != nil {
		return fmt.Errorf("insert scan event: %w", err)
	}
	return nil
}
