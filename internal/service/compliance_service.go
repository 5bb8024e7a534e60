package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/pkg/config"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type sectionLoadRepository interface {
	SectionLoads(ctx context.Context, section string) ([]models.SectionLoad, error)
	AllSectionLoads(ctx context.Context) ([]models.SectionLoad, error)
}

// ComplianceService computes regulatory educator:child ratio compliance per
// section. Verdicts are derived from current data on every call and never
// cached, so a stale staffing picture cannot hide an understaffed section.
type ComplianceService struct {
	loads    sectionLoadRepository
	policies map[string]config.SectionPolicy
	logger   *zap.Logger
}

// NewComplianceService constructs the compliance service.
func NewComplianceService(loads sectionLoadRepository, policies map[string]config.SectionPolicy, logger *zap.Logger) *ComplianceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplianceService{loads: loads, policies: policies, logger: logger}
}

// ClassifyStaffing is the pure classification rule. requiredEducators is
// ceil(totalChildren/ratio); zero children are always compliant.
func ClassifyStaffing(totalChildren, presentEducators, ratio int) (models.ComplianceStatus, int) {
	if ratio <= 0 {
		ratio = 1
	}
	required := (totalChildren + ratio - 1) / ratio
	switch {
	case presentEducators >= required:
		return models.ComplianceCompliant, required
	case presentEducators == 0 && totalChildren > 0:
		return models.ComplianceCritical, required
	default:
		return models.ComplianceWarning, required
	}
}

// EvaluateSection computes the staffing verdict for one section.
func (s *ComplianceService) EvaluateSection(ctx context.Context, section string) (*models.SectionCompliance, error) {
	policy, ok := s.policies[section]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no ratio policy configured for section %q", section))
	}
	loads, err := s.loads.SectionLoads(ctx, section)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section staffing")
	}
	return s.aggregate(section, policy, loads), nil
}

// EvaluateAll computes verdicts for every configured section in one pass.
// Groups tagged with an unconfigured section are skipped with a warning.
func (s *ComplianceService) EvaluateAll(ctx context.Context) ([]models.SectionCompliance, error) {
	loads, err := s.loads.AllSectionLoads(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staffing data")
	}

	bySection := map[string][]models.SectionLoad{}
	for _, load := range loads {
		if _, ok := s.policies[load.Section]; !ok {
			s.logger.Warn("group in unconfigured section skipped",
				zap.String("group_id", load.GroupID), zap.String("section", load.Section))
			continue
		}
		bySection[load.Section] = append(bySection[load.Section], load)
	}

	sections := make([]string, 0, len(s.policies))
	for section := range s.policies {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	results := make([]models.SectionCompliance, 0, len(sections))
	for _, section := range sections {
		results = append(results, *s.aggregate(section, s.policies[section], bySection[section]))
	}
	return results, nil
}

func (s *ComplianceService) aggregate(section string, policy config.SectionPolicy, loads []models.SectionLoad) *models.SectionCompliance {
	total := 0
	present := 0
	for _, load := range loads {
		total += load.ChildrenCount
		if load.HasEducator {
			present++
		}
	}
	status, required := ClassifyStaffing(total, present, policy.Ratio)
	return &models.SectionCompliance{
		Section:           section,
		Status:            status,
		Ratio:             policy.Ratio,
		TotalChildren:     total,
		RequiredEducators: required,
		PresentEducators:  present,
		Groups:            loads,
	}
}
