package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
)

// GroupRepository handles persistence for groups. Occupant counts are always
// derived by counting child rows, never kept as a stored counter.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs the repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

const groupDetailQuery = `SELECT g.id, g.name, g.section, g.capacity, g.age_min_months, g.age_max_months,
        g.assigned_educator_id, g.created_at, g.updated_at,
        COUNT(ch.id) AS children_count, e.full_name AS educator_name
        FROM groups g
        LEFT JOIN children ch ON ch.group_id = g.id AND ch.status = $1
        LEFT JOIN educators e ON e.id = g.assigned_educator_id`

// FindByID loads a group with its live occupant count.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.GroupDetail, error) {
	query := groupDetailQuery + `
        WHERE g.id = $2
        GROUP BY g.id, e.full_name`
	var group models.GroupDetail
	if err := r.db.GetContext(ctx, &group, query, models.ChildStatusActive, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns groups with occupant counts, optionally filtered by section.
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error) {
	query := groupDetailQuery
	args := []interface{}{models.ChildStatusActive}
	if filter.Section != "" {
		query += `
        WHERE g.section = $2`
		args = append(args, filter.Section)
	}
	query += `
        GROUP BY g.id, e.full_name
        ORDER BY g.section ASC, g.name ASC`
	var rows []models.GroupDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return rows, nil
}

// SectionLoads aggregates per-group occupancy and educator presence for one
// section. Feeds the ratio compliance computation.
func (r *GroupRepository) SectionLoads(ctx context.Context, section string) ([]models.SectionLoad, error) {
	query := `SELECT g.id AS group_id, g.name AS group_name, g.section,
        COUNT(ch.id) AS children_count,
        (g.assigned_educator_id IS NOT NULL) AS has_educator
        FROM groups g
        LEFT JOIN children ch ON ch.group_id = g.id AND ch.status = $1
        WHERE g.section = $2
        GROUP BY g.id
        ORDER BY g.name ASC`
	var rows []models.SectionLoad
	if err := r.db.SelectContext(ctx, &rows, query, models.ChildStatusActive, section); err != nil {
		return nil, fmt.Errorf("section loads: %w", err)
	}
	return rows, nil
}

// AllSectionLoads returns the loads for every section in one pass.
func (r *GroupRepository) AllSectionLoads(ctx context.Context) ([]models.SectionLoad, error) {
	query := `SELECT g.id AS group_id, g.name AS group_name, g.section,
        COUNT(ch.id) AS children_count,
        (g.assigned_educator_id IS NOT NULL) AS has_educator
        FROM groups g
        LEFT JOIN children ch ON ch.group_id = g.id AND ch.status = $1
        GROUP BY g.id
        ORDER BY g.section ASC, g.name ASC`
	var rows []models.SectionLoad
	if err := r.db.SelectContext(ctx, &rows, query, models.ChildStatusActive); err != nil {
		return nil, fmt.Errorf("all section loads: %w", err)
	}
	return rows, nil
}
