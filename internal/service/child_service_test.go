package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nursery-checkin-api/internal/dto"
	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type stubChildRepo struct {
	children   map[string]models.ChildDetail
	created    []models.Child
	statuses   map[string]models.ChildStatus
	lastFilter models.ChildFilter
	listTotal  int
}

func (s *stubChildRepo) FindByID(ctx context.Context, id string) (*models.ChildDetail, error) {
	if child, ok := s.children[id]; ok {
		return &child, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubChildRepo) List(ctx context.Context, filter models.ChildFilter) ([]models.ChildDetail, int, error) {
	s.lastFilter = filter
	rows := make([]models.ChildDetail, 0, len(s.children))
	for _, child := range s.children {
		rows = append(rows, child)
	}
	return rows, s.listTotal, nil
}

func (s *stubChildRepo) Create(ctx context.Context, child *models.Child) error {
	if child.ID == "" {
		child.ID = "generated"
	}
	s.created = append(s.created, *child)
	return nil
}

func (s *stubChildRepo) SetStatus(ctx context.Context, childID string, status models.ChildStatus) error {
	if _, ok := s.children[childID]; !ok {
		return sql.ErrNoRows
	}
	if s.statuses == nil {
		s.statuses = map[string]models.ChildStatus{}
	}
	s.statuses[childID] = status
	return nil
}

func TestChildServiceCreate(t *testing.T) {
	repo := &stubChildRepo{}
	audit := &stubAuditRecorder{}
	svc := NewChildService(repo, audit, "LPRDS-", nil, nil)

	child, err := svc.Create(context.Background(), dto.CreateChildRequest{
		Code:      "LPRDS-0042",
		FirstName: "Lou",
		LastName:  "Dubois",
		BirthDate: "2024-06-01",
	}, staffClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ChildStatusActive, child.Status)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), child.BirthDate)
	require.Len(t, repo.created, 1)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionChildCreate, audit.logs[0].Action)
}

func TestChildServiceCreateRejectsForeignPrefix(t *testing.T) {
	svc := NewChildService(&stubChildRepo{}, nil, "LPRDS-", nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateChildRequest{
		Code:      "OTHER-0042",
		FirstName: "Lou",
		LastName:  "Dubois",
		BirthDate: "2024-06-01",
	}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestChildServiceCreateRejectsBadBirthDate(t *testing.T) {
	svc := NewChildService(&stubChildRepo{}, nil, "LPRDS-", nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateChildRequest{
		Code:      "LPRDS-0042",
		FirstName: "Lou",
		LastName:  "Dubois",
		BirthDate: "01/06/2024",
	}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestChildServiceChangeStatus(t *testing.T) {
	repo := &stubChildRepo{children: map[string]models.ChildDetail{
		"child-1": {Child: models.Child{ID: "child-1", Status: models.ChildStatusActive}},
	}}
	audit := &stubAuditRecorder{}
	svc := NewChildService(repo, audit, "LPRDS-", nil, nil)

	err := svc.ChangeStatus(context.Background(), "child-1", dto.ChangeChildStatusRequest{Status: "inactive"}, staffClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ChildStatusInactive, repo.statuses["child-1"])
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionChildStatus, audit.logs[0].Action)
}

func TestChildServiceChangeStatusRejectsUnknownValue(t *testing.T) {
	svc := NewChildService(&stubChildRepo{}, nil, "LPRDS-", nil, nil)

	err := svc.ChangeStatus(context.Background(), "child-1", dto.ChangeChildStatusRequest{Status: "archived"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestChildServiceChangeStatusUnknownChild(t *testing.T) {
	svc := NewChildService(&stubChildRepo{}, nil, "LPRDS-", nil, nil)

	err := svc.ChangeStatus(context.Background(), "missing", dto.ChangeChildStatusRequest{Status: "inactive"}, staffClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestChildServiceListRejectsBadStatusFilter(t *testing.T) {
	svc := NewChildService(&stubChildRepo{}, nil, "LPRDS-", nil, nil)

	bad := "archived"
	_, _, err := svc.List(context.Background(), ChildListRequest{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestChildServiceListDefaultsPaging(t *testing.T) {
	repo := &stubChildRepo{listTotal: 1, children: map[string]models.ChildDetail{
		"child-1": {Child: models.Child{ID: "child-1"}},
	}}
	svc := NewChildService(repo, nil, "LPRDS-", nil, nil)

	_, pagination, err := svc.List(context.Background(), ChildListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 50, pagination.PageSize)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 50, repo.lastFilter.PageSize)
}
