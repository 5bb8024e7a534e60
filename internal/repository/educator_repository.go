package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
)

// EducatorRepository handles persistence for staff members.
type EducatorRepository struct {
	db *sqlx.DB
}

// NewEducatorRepository constructs the repository.
func NewEducatorRepository(db *sqlx.DB) *EducatorRepository {
	return &EducatorRepository{db: db}
}

// FindByID loads one educator.
func (r *EducatorRepository) FindByID(ctx context.Context, id string) (*models.Educator, error) {
	query := `SELECT id, full_name, email, active, created_at, updated_at FROM educators WHERE id = $1`
	var educator models.Educator
	if err := r.db.GetContext(ctx, &educator, query, id); err != nil {
		return nil, err
	}
	return &educator, nil
}

// List returns educators matching the filter.
func (r *EducatorRepository) List(ctx context.Context, filter models.EducatorFilter) ([]models.Educator, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("full_name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	query := fmt.Sprintf(`SELECT id, full_name, email, active, created_at, updated_at
        FROM educators WHERE %s ORDER BY full_name ASC`, strings.Join(where, " AND "))
	var rows []models.Educator
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list educators: %w", err)
	}
	return rows, nil
}
