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

// ChildRepository handles persistence for child records.
type ChildRepository struct {
	db *sqlx.DB
}

// NewChildRepository constructs the repository.
func NewChildRepository(db *sqlx.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

const childDetailColumns = `ch.id, ch.code, ch.first_name, ch.last_name, ch.birth_date, ch.status,
        ch.section, ch.group_id, ch.assigned_educator_id, ch.created_at, ch.updated_at,
        g.name AS group_name, g.section AS group_section`

// FindActiveByCode resolves a scannable code to an active child with its
// group context. Inactive children are invisible to the scanner.
func (r *ChildRepository) FindActiveByCode(ctx context.Context, code string) (*models.ChildDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM children ch LEFT JOIN groups g ON g.id = ch.group_id
        WHERE ch.code = $1 AND ch.status = $2`, childDetailColumns)
	var child models.ChildDetail
	if err := r.db.GetContext(ctx, &child, query, code, models.ChildStatusActive); err != nil {
		return nil, err
	}
	return &child, nil
}

// FindByID loads a child regardless of status.
func (r *ChildRepository) FindByID(ctx context.Context, id string) (*models.ChildDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM children ch LEFT JOIN groups g ON g.id = ch.group_id
        WHERE ch.id = $1`, childDetailColumns)
	var child models.ChildDetail
	if err := r.db.GetContext(ctx, &child, query, id); err != nil {
		return nil, err
	}
	return &child, nil
}

// List returns children matching the provided filter.
func (r *ChildRepository) List(ctx context.Context, filter models.ChildFilter) ([]models.ChildDetail, int, error) {
	base := `FROM children ch LEFT JOIN groups g ON g.id = ch.group_id`
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(ch.first_name ILIKE $%d OR ch.last_name ILIKE $%d OR ch.code ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.GroupID != "" {
		where = append(where, fmt.Sprintf("ch.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.Section != "" {
		where = append(where, fmt.Sprintf("ch.section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("ch.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"last_name":  "ch.last_name",
		"birth_date": "ch.birth_date",
		"created_at": "ch.created_at",
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

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		childDetailColumns, base, whereClause, sortColumn, order, size, offset)
	var rows []models.ChildDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list children: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count children: %w", err)
	}
	return rows, total, nil
}

// ListByGroup returns active occupants of a group ordered by last name.
func (r *ChildRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Child, error) {
	query := `SELECT id, code, first_name, last_name, birth_date, status, section, group_id, assigned_educator_id, created_at, updated_at
        FROM children WHERE group_id = $1 AND status = $2 ORDER BY last_name ASC`
	var rows []models.Child
	if err := r.db.SelectContext(ctx, &rows, query, groupID, models.ChildStatusActive); err != nil {
		return nil, fmt.Errorf("list group occupants: %w", err)
	}
	return rows, nil
}

// Create inserts a new child record.
func (r *ChildRepository) Create(ctx context.Context, child *models.Child) error {
	now := time.Now().UTC()
	if child.ID == "" {
		child.ID = uuid.NewString()
	}
	child.CreatedAt = now
	child.UpdatedAt = now
	query := `INSERT INTO children (id, code, first_name, last_name, birth_date, status, section, group_id, assigned_educator_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		child.ID, child.Code, child.FirstName, child.LastName, child.BirthDate, child.Status,
		child.Section, child.GroupID, child.AssignedEducatorID, child.CreatedAt, child.UpdatedAt); err != nil {
		return fmt.Errorf("create child: %w", err)
	}
	return nil
}

// UpdateGroup moves a child into a group, keeping the section tag aligned.
// A nil group clears the assignment.
func (r *ChildRepository) UpdateGroup(ctx context.Context, childID string, groupID, section *string) error {
	query := `UPDATE children SET group_id = $2, section = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, childID, groupID, section, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update child group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update child group: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetStatus flips the enrollment status. Soft delete only.
func (r *ChildRepository) SetStatus(ctx context.Context, childID string, status models.ChildStatus) error {
	query := `UPDATE children SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, childID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set child status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set child status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
