package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type educatorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Educator, error)
	List(ctx context.Context, filter models.EducatorFilter) ([]models.Educator, error)
}

// EducatorService exposes staff lookups for assignment attribution.
type EducatorService struct {
	educators educatorRepository
	logger    *zap.Logger
}

// NewEducatorService constructs the educator service.
func NewEducatorService(educators educatorRepository, logger *zap.Logger) *EducatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EducatorService{educators: educators, logger: logger}
}

// Get loads one educator.
func (s *EducatorService) Get(ctx context.Context, id string) (*models.Educator, error) {
	educator, err := s.educators.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "educator not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load educator")
	}
	return educator, nil
}

// List returns educators matching the filter.
func (s *EducatorService) List(ctx context.Context, filter models.EducatorFilter) ([]models.Educator, error) {
	rows, err := s.educators.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list educators")
	}
	return rows, nil
}
