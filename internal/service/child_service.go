package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/nursery-checkin-api/internal/dto"
	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type childRepository interface {
	FindByID(ctx context.Context, id string) (*models.ChildDetail, error)
	List(ctx context.Context, filter models.ChildFilter) ([]models.ChildDetail, int, error)
	Create(ctx context.Context, child *models.Child) error
	SetStatus(ctx context.Context, childID string, status models.ChildStatus) error
}

// ChildService manages the child roster feeding the check-in engines.
type ChildService struct {
	children   childRepository
	audit      auditRecorder
	validator  *validator.Validate
	logger     *zap.Logger
	codePrefix string
}

// NewChildService constructs the child service.
func NewChildService(children childRepository, audit auditRecorder, codePrefix string, validate *validator.Validate, logger *zap.Logger) *ChildService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ChildService{
		children:   children,
		audit:      audit,
		validator:  validate,
		logger:     logger,
		codePrefix: codePrefix,
	}
	svc.validator.RegisterValidation("child_status", func(fl validator.FieldLevel) bool {
		return models.ChildStatus(strings.ToLower(fl.Field().String())).Valid()
	})
	return svc
}

// ChildListRequest filters roster listings.
type ChildListRequest struct {
	Search    string
	GroupID   string
	Section   string
	Status    *string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// List returns the paginated roster.
func (s *ChildService) List(ctx context.Context, req ChildListRequest) ([]models.ChildDetail, *models.Pagination, error) {
	var status *models.ChildStatus
	if req.Status != nil {
		st := models.ChildStatus(strings.ToLower(*req.Status))
		if !st.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid status filter")
		}
		status = &st
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = 50
	}
	rows, total, err := s.children.List(ctx, models.ChildFilter{
		Search:    req.Search,
		GroupID:   req.GroupID,
		Section:   req.Section,
		Status:    status,
		Page:      page,
		PageSize:  size,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list children")
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return rows, pagination, nil
}

// Get loads one child with its group context.
func (s *ChildService) Get(ctx context.Context, id string) (*models.ChildDetail, error) {
	child, err := s.children.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load child")
	}
	return child, nil
}

// Create enrolls a child. The code must follow the scanner prefix so badges
// printed later resolve.
func (s *ChildService) Create(ctx context.Context, req dto.CreateChildRequest, claims *models.JWTClaims) (*models.Child, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid child payload")
	}
	if !strings.HasPrefix(req.Code, s.codePrefix) || len(req.Code) <= len(s.codePrefix) {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("code must start with %q", s.codePrefix))
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid birth_date format, expected YYYY-MM-DD")
	}

	child := &models.Child{
		Code:      req.Code,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birthDate,
		Status:    models.ChildStatusActive,
		Section:   req.Section,
		GroupID:   req.GroupID,
	}
	if err := s.children.Create(ctx, child); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create child")
	}
	s.recordAudit(ctx, models.AuditActionChildCreate, child.ID, map[string]interface{}{"code": child.Code}, claims)
	return child, nil
}

// ChangeStatus flips the enrollment status. Children are never hard deleted.
func (s *ChildService) ChangeStatus(ctx context.Context, id string, req dto.ChangeChildStatusRequest, claims *models.JWTClaims) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	status := models.ChildStatus(strings.ToLower(req.Status))
	if err := s.children.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change status")
	}
	s.recordAudit(ctx, models.AuditActionChildStatus, id, map[string]interface{}{"status": status}, claims)
	return nil
}

func (s *ChildService) recordAudit(ctx context.Context, action, childID string, values map[string]interface{}, claims *models.JWTClaims) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(values)
	var staffID *string
	if claims != nil {
		staffID = &claims.StaffID
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		StaffID:    staffID,
		Action:     action,
		Resource:   "child",
		ResourceID: &childID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("audit write failed", zap.String("child_id", childID), zap.Error(err))
	}
}
