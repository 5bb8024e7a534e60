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
	"github.com/noah-isme/nursery-checkin-api/internal/repository"
	"github.com/noah-isme/nursery-checkin-api/pkg/config"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type childResolver interface {
	FindActiveByCode(ctx context.Context, code string) (*models.ChildDetail, error)
}

type scanHistoryRepository interface {
	LatestForChild(ctx context.Context, childID string) (*models.ScanEvent, error)
}

type attendanceWriter interface {
	RecordScan(ctx context.Context, params repository.RecordScanParams) (*models.DailyAttendance, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ScanService is the check-in engine: it resolves scanned codes, decides the
// next expected action, enforces the cooldown window and commits accepted
// scans.
type ScanService struct {
	children   childResolver
	history    scanHistoryRepository
	attendance attendanceWriter
	audit      auditRecorder
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	codePrefix string
	cooldown   time.Duration
	now        func() time.Time
}

// NewScanService constructs the scan service.
func NewScanService(children childResolver, history scanHistoryRepository, attendance attendanceWriter, audit auditRecorder, metrics *MetricsService, cfg config.CheckinConfig, validate *validator.Validate, logger *zap.Logger) *ScanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cooldown := cfg.ScanCooldown
	if cooldown <= 0 {
		cooldown = 5 * time.Minute
	}
	svc := &ScanService{
		children:   children,
		history:    history,
		attendance: attendance,
		audit:      audit,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		codePrefix: cfg.CodePrefix,
		cooldown:   cooldown,
		now:        time.Now,
	}
	svc.validator.RegisterValidation("scan_type", func(fl validator.FieldLevel) bool {
		return models.ScanType(strings.ToLower(fl.Field().String())).Valid()
	})
	return svc
}

// WithClock overrides the time source. Used by tests and nowhere else.
func (s *ScanService) WithClock(now func() time.Time) *ScanService {
	s.now = now
	return s
}

// ResolveCode validates the scanned string and resolves it to an active
// child. No side effects.
func (s *ScanService) ResolveCode(ctx context.Context, code string) (*models.ChildDetail, error) {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, s.codePrefix) || len(code) <= len(s.codePrefix) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCodeFormat,
			fmt.Sprintf("scanned code must start with %q", s.codePrefix))
	}
	child, err := s.children.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrChildNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve code")
	}
	return child, nil
}

// suggestNextAction derives the expected action from the most recent scan:
// arrival when there is no history or the last scan was a departure,
// departure after an arrival.
func suggestNextAction(last *models.ScanEvent) models.ScanType {
	if last == nil || last.ScanType == models.ScanTypeDeparture {
		return models.ScanTypeArrival
	}
	return models.ScanTypeDeparture
}

// Suggest previews the next expected action for a code without committing
// anything.
func (s *ScanService) Suggest(ctx context.Context, code string) (*dto.ScanSuggestion, error) {
	child, err := s.ResolveCode(ctx, code)
	if err != nil {
		return nil, err
	}
	last, err := s.history.LatestForChild(ctx, child.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scan history")
	}
	suggestion := &dto.ScanSuggestion{
		Child:           child,
		SuggestedAction: suggestNextAction(last),
		LastScan:        last,
	}
	if last != nil {
		if remaining := s.cooldown - s.now().Sub(last.ScanTime); remaining > 0 {
			seconds := int64(remaining.Seconds())
			suggestion.CooldownRemaining = &seconds
		}
	}
	return suggestion, nil
}

// Process handles one presented code end to end. The caller may force an
// action that differs from the suggestion; only the cooldown window blocks a
// scan.
func (s *ScanService) Process(ctx context.Context, req dto.ScanRequest, claims *models.JWTClaims) (*dto.ScanResult, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan payload")
	}

	child, err := s.ResolveCode(ctx, req.Code)
	if err != nil {
		s.observeRejection(req.Action, err)
		return nil, err
	}

	last, err := s.history.LatestForChild(ctx, child.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scan history")
	}

	now := s.now()
	if last != nil {
		if elapsed := now.Sub(last.ScanTime); elapsed < s.cooldown {
			rejection := s.duplicateScanError(elapsed)
			s.observeRejection(req.Action, rejection)
			return nil, rejection
		}
	}

	suggested := suggestNextAction(last)
	action := suggested
	if req.Action != nil {
		action = models.ScanType(strings.ToLower(*req.Action))
	}

	stored, err := s.attendance.RecordScan(ctx, repository.RecordScanParams{
		ChildID:        child.ID,
		ScanType:       action,
		ScanTime:       now,
		AttendanceDate: dateOf(now),
		ScannedBy:      claims.StaffID,
		Cooldown:       s.cooldown,
	})
	if err != nil {
		var violation *repository.CooldownViolation
		if errors.As(err, &violation) {
			rejection := s.duplicateScanError(violation.Elapsed)
			s.observeRejection(req.Action, rejection)
			return nil, rejection
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record scan")
	}

	if s.metrics != nil {
		s.metrics.ObserveScanDecision(string(action), true, "accepted")
	}
	s.recordAudit(ctx, child, action, now, claims)

	message := fmt.Sprintf("%s recorded for %s %s at %s",
		statusWord(action), child.FirstName, child.LastName, now.Format("15:04"))
	return &dto.ScanResult{
		Action:          action,
		SuggestedAction: suggested,
		ScanTime:        now,
		Child:           child,
		Attendance:      stored,
		Message:         message,
	}, nil
}

func statusWord(action models.ScanType) string {
	if action == models.ScanTypeArrival {
		return "check-in"
	}
	return "check-out"
}

func (s *ScanService) duplicateScanError(elapsed time.Duration) *appErrors.Error {
	minutes := int(elapsed.Minutes())
	return appErrors.Clone(appErrors.ErrDuplicateScan,
		fmt.Sprintf("scan ignored, previous scan was %d minute(s) ago", minutes))
}

func (s *ScanService) observeRejection(action *string, err error) {
	if s.metrics == nil {
		return
	}
	label := "unknown"
	if action != nil {
		label = strings.ToLower(*action)
	}
	s.metrics.ObserveScanDecision(label, false, appErrors.FromError(err).Code)
}

func (s *ScanService) recordAudit(ctx context.Context, child *models.ChildDetail, action models.ScanType, at time.Time, claims *models.JWTClaims) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"action":    action,
		"scan_time": at,
	})
	childID := child.ID
	staffID := claims.StaffID
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		StaffID:    &staffID,
		Action:     models.AuditActionScanAccepted,
		Resource:   "scan",
		ResourceID: &childID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("audit write failed", zap.String("child_id", child.ID), zap.Error(err))
	}
}

// dateOf truncates a timestamp to its calendar date. The per-day attendance
// state is scoped by this date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
