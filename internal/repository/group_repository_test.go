package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
)

func groupDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "section", "capacity", "age_min_months", "age_max_months", "assigned_educator_id", "created_at", "updated_at", "children_count", "educator_name"}).
		AddRow("group-1", "Caterpillars", "toddler", 8, 13, 36, "educator-1", time.Now(), time.Now(), 5, "Nora Peeters")
}

func TestGroupRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectQuery(`(?s)COUNT\(ch\.id\) AS children_count.+WHERE g\.id = \$2`).
		WithArgs(models.ChildStatusActive, "group-1").
		WillReturnRows(groupDetailRows())

	group, err := repo.FindByID(context.Background(), "group-1")
	require.NoError(t, err)
	assert.Equal(t, "Caterpillars", group.Name)
	assert.Equal(t, 5, group.ChildrenCount)
	require.NotNil(t, group.AgeMinMonths)
	assert.Equal(t, 13, *group.AgeMinMonths)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectQuery(`(?s)WHERE g\.id = \$2`).
		WithArgs(models.ChildStatusActive, "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryListBySection(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectQuery(`(?s)WHERE g\.section = \$2.+ORDER BY g\.section ASC, g\.name ASC`).
		WithArgs(models.ChildStatusActive, "toddler").
		WillReturnRows(groupDetailRows())

	groups, err := repo.List(context.Background(), models.GroupFilter{Section: "toddler"})
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositorySectionLoads(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	rows := sqlmock.NewRows([]string{"group_id", "group_name", "section", "children_count", "has_educator"}).
		AddRow("group-1", "Caterpillars", "toddler", 22, true).
		AddRow("group-2", "Butterflies", "toddler", 20, false)
	mock.ExpectQuery(`(?s)\(g\.assigned_educator_id IS NOT NULL\) AS has_educator.+WHERE g\.section = \$2`).
		WithArgs(models.ChildStatusActive, "toddler").
		WillReturnRows(rows)

	loads, err := repo.SectionLoads(context.Background(), "toddler")
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.True(t, loads[0].HasEducator)
	assert.False(t, loads[1].HasEducator)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryAllSectionLoads(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	rows := sqlmock.NewRows([]string{"group_id", "group_name", "section", "children_count", "has_educator"}).
		AddRow("group-1", "Ducklings", "infant", 4, true)
	mock.ExpectQuery(`(?s)ORDER BY g\.section ASC, g\.name ASC`).
		WithArgs(models.ChildStatusActive).
		WillReturnRows(rows)

	loads, err := repo.AllSectionLoads(context.Background())
	require.NoError(t, err)
	assert.Len(t, loads, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
