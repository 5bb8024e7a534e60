package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/nursery-checkin-api/internal/dto"
	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type groupRepository interface {
	FindByID(ctx context.Context, id string) (*models.GroupDetail, error)
	List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error)
}

type groupChildRepository interface {
	FindByID(ctx context.Context, id string) (*models.ChildDetail, error)
	UpdateGroup(ctx context.Context, childID string, groupID, section *string) error
	ListByGroup(ctx context.Context, groupID string) ([]models.Child, error)
}

const rosterCachePattern = "roster:group:*"

// GroupService owns group eligibility, capacity checks and assignments.
// Eligibility itself is a pure decision; only AssignGroup and UnassignGroup
// write anything.
type GroupService struct {
	groups    groupRepository
	children  groupChildRepository
	audit     auditRecorder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGroupService constructs the group service.
func NewGroupService(groups groupRepository, children groupChildRepository, audit auditRecorder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{
		groups:    groups,
		children:  children,
		audit:     audit,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Used by tests and nowhere else.
func (s *GroupService) WithClock(now func() time.Time) *GroupService {
	s.now = now
	return s
}

// AgeInMonths computes a child's age in whole months at the given instant.
// The month counter only advances once the day-of-month of the birth date
// has been reached (calendar-aware floor). The same rule applies everywhere
// an age is compared or displayed.
func AgeInMonths(birthDate, at time.Time) int {
	years := at.Year() - birthDate.Year()
	months := int(at.Month()) - int(birthDate.Month())
	total := years*12 + months
	if at.Day() < birthDate.Day() {
		total--
	}
	if total < 0 {
		return 0
	}
	return total
}

// EvaluateAgeBand classifies an age against an optional band. A group with
// no band accepts any age.
func EvaluateAgeBand(ageMonths int, minMonths, maxMonths *int) models.AgeVerdict {
	if minMonths != nil && ageMonths < *minMonths {
		return models.AgeTooYoung
	}
	if maxMonths != nil && ageMonths > *maxMonths {
		return models.AgeTooOld
	}
	return models.AgeCompatible
}

// CheckEligibility runs the pure eligibility and capacity decision for a
// (child, group) pair without writing anything.
func (s *GroupService) CheckEligibility(ctx context.Context, childID, groupID string) (*dto.EligibilityResult, error) {
	child, err := s.findChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(child, group), nil
}

func (s *GroupService) evaluate(child *models.ChildDetail, group *models.GroupDetail) *dto.EligibilityResult {
	ageMonths := AgeInMonths(child.BirthDate, s.now())
	verdict := EvaluateAgeBand(ageMonths, group.AgeMinMonths, group.AgeMaxMonths)

	occupants := group.ChildrenCount
	// Moving within the same group must not count the child against itself.
	if child.GroupID != nil && *child.GroupID == group.ID && occupants > 0 {
		occupants--
	}
	full := occupants >= group.Capacity

	return &dto.EligibilityResult{
		ChildID:       child.ID,
		GroupID:       group.ID,
		AgeMonths:     ageMonths,
		AgeVerdict:    verdict,
		Full:          full,
		ChildrenCount: occupants,
		Capacity:      group.Capacity,
		Eligible:      verdict == models.AgeCompatible && !full,
	}
}

// AssignGroup places a child in a group after the eligibility and capacity
// checks pass.
func (s *GroupService) AssignGroup(ctx context.Context, childID string, req dto.AssignGroupRequest, claims *models.JWTClaims) (*dto.EligibilityResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	child, err := s.findChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	group, err := s.findGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	result := s.evaluate(child, group)
	switch result.AgeVerdict {
	case models.AgeTooYoung:
		return nil, appErrors.Clone(appErrors.ErrGroupIncompatible,
			fmt.Sprintf("child is %d months old, group accepts from %d months", result.AgeMonths, *group.AgeMinMonths))
	case models.AgeTooOld:
		return nil, appErrors.Clone(appErrors.ErrGroupIncompatible,
			fmt.Sprintf("child is %d months old, group accepts up to %d months", result.AgeMonths, *group.AgeMaxMonths))
	}
	if result.Full {
		return nil, appErrors.Clone(appErrors.ErrGroupFull,
			fmt.Sprintf("group %s already has %d of %d children", group.Name, result.ChildrenCount, group.Capacity))
	}

	section := group.Section
	if err := s.children.UpdateGroup(ctx, child.ID, &group.ID, &section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign group")
	}

	s.invalidateRoster(ctx)
	s.recordAssignmentAudit(ctx, models.AuditActionGroupAssign, child.ID, &group.ID, claims)
	return result, nil
}

// UnassignGroup removes a child from its group.
func (s *GroupService) UnassignGroup(ctx context.Context, childID string, claims *models.JWTClaims) error {
	child, err := s.findChild(ctx, childID)
	if err != nil {
		return err
	}
	if err := s.children.UpdateGroup(ctx, child.ID, nil, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign group")
	}
	s.invalidateRoster(ctx)
	s.recordAssignmentAudit(ctx, models.AuditActionGroupUnassign, child.ID, nil, claims)
	return nil
}

// List returns groups with live occupant counts.
func (s *GroupService) List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error) {
	groups, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	return groups, nil
}

// Roster returns a group's occupants with their current ages. The payload is
// cached briefly; assignments invalidate it.
func (s *GroupService) Roster(ctx context.Context, groupID string) (*dto.GroupRoster, error) {
	cacheKey := "roster:group:" + groupID
	var cached dto.GroupRoster
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	occupants, err := s.children.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	now := s.now()
	roster := &dto.GroupRoster{Group: *group, Children: make([]dto.RosterChild, len(occupants))}
	for i, child := range occupants {
		roster.Children[i] = dto.RosterChild{
			ID:        child.ID,
			Code:      child.Code,
			FirstName: child.FirstName,
			LastName:  child.LastName,
			AgeMonths: AgeInMonths(child.BirthDate, now),
		}
	}

	_ = s.cache.Set(ctx, cacheKey, roster, 0)
	return roster, nil
}

func (s *GroupService) findChild(ctx context.Context, id string) (*models.ChildDetail, error) {
	child, err := s.children.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load child")
	}
	return child, nil
}

func (s *GroupService) findGroup(ctx context.Context, id string) (*models.GroupDetail, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}

func (s *GroupService) invalidateRoster(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, rosterCachePattern); err != nil {
		s.logger.Warn("roster cache invalidation failed", zap.Error(err))
	}
}

func (s *GroupService) recordAssignmentAudit(ctx context.Context, action, childID string, groupID *string, claims *models.JWTClaims) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{"group_id": groupID})
	var staffID *string
	if claims != nil {
		staffID = &claims.StaffID
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		StaffID:    staffID,
		Action:     action,
		Resource:   "child_group",
		ResourceID: &childID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("audit write failed", zap.String("child_id", childID), zap.Error(err))
	}
}
