package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/pkg/config"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type stubSectionLoadRepo struct {
	loads map[string][]models.SectionLoad
}

func (s *stubSectionLoadRepo) SectionLoads(ctx context.Context, section string) ([]models.SectionLoad, error) {
	return s.loads[section], nil
}

func (s *stubSectionLoadRepo) AllSectionLoads(ctx context.Context) ([]models.SectionLoad, error) {
	var all []models.SectionLoad
	for _, loads := range s.loads {
		all = append(all, loads...)
	}
	return all, nil
}

func compliancePolicies() map[string]config.SectionPolicy {
	return map[string]config.SectionPolicy{
		"infant":    {Ratio: 5, MinAgeMonths: 3, MaxAgeMonths: 12},
		"toddler":   {Ratio: 8, MinAgeMonths: 13, MaxAgeMonths: 36},
		"preschool": {Ratio: 10, MinAgeMonths: 37, MaxAgeMonths: 72},
	}
}

func TestClassifyStaffing(t *testing.T) {
	cases := []struct {
		name     string
		total    int
		present  int
		ratio    int
		status   models.ComplianceStatus
		required int
	}{
		{"exact ratio met", 40, 5, 8, models.ComplianceCompliant, 5},
		{"understaffed", 42, 5, 8, models.ComplianceWarning, 6},
		{"one short", 42, 5, 8, models.ComplianceWarning, 6},
		{"ceil boundary", 41, 6, 8, models.ComplianceCompliant, 6},
		{"no educators at all", 12, 0, 8, models.ComplianceCritical, 2},
		{"empty section", 0, 0, 8, models.ComplianceCompliant, 0},
		{"overstaffed stays compliant", 10, 4, 8, models.ComplianceCompliant, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, required := ClassifyStaffing(tc.total, tc.present, tc.ratio)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.required, required)
		})
	}
}

func TestClassifyStaffingMonotonic(t *testing.T) {
	// Adding educators can only move the verdict towards compliant.
	rank := map[models.ComplianceStatus]int{
		models.ComplianceCritical:  0,
		models.ComplianceWarning:   1,
		models.ComplianceCompliant: 2,
	}
	previous := -1
	for present := 0; present <= 8; present++ {
		status, _ := ClassifyStaffing(42, present, 8)
		require.GreaterOrEqual(t, rank[status], previous, "present=%d", present)
		previous = rank[status]
	}
}

func TestComplianceServiceEvaluateSection(t *testing.T) {
	loads := &stubSectionLoadRepo{loads: map[string][]models.SectionLoad{
		"toddler": {
			{GroupID: "g1", GroupName: "Caterpillars", Section: "toddler", ChildrenCount: 22, HasEducator: true},
			{GroupID: "g2", GroupName: "Butterflies", Section: "toddler", ChildrenCount: 20, HasEducator: true},
			{GroupID: "g3", GroupName: "Snails", Section: "toddler", ChildrenCount: 0, HasEducator: false},
		},
	}}
	svc := NewComplianceService(loads, compliancePolicies(), nil)

	result, err := svc.EvaluateSection(context.Background(), "toddler")
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceWarning, result.Status)
	assert.Equal(t, 42, result.TotalChildren)
	assert.Equal(t, 6, result.RequiredEducators)
	assert.Equal(t, 2, result.PresentEducators)
	assert.Equal(t, 8, result.Ratio)
	assert.Len(t, result.Groups, 3)
}

func TestComplianceServiceEvaluateSectionCritical(t *testing.T) {
	loads := &stubSectionLoadRepo{loads: map[string][]models.SectionLoad{
		"infant": {
			{GroupID: "g1", GroupName: "Ducklings", Section: "infant", ChildrenCount: 4, HasEducator: false},
		},
	}}
	svc := NewComplianceService(loads, compliancePolicies(), nil)

	result, err := svc.EvaluateSection(context.Background(), "infant")
	require.NoError(t, err)
	assert.Equal(t, models.ComplianceCritical, result.Status)
}

func TestComplianceServiceEvaluateSectionUnconfigured(t *testing.T) {
	svc := NewComplianceService(&stubSectionLoadRepo{}, compliancePolicies(), nil)

	_, err := svc.EvaluateSection(context.Background(), "afterschool")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestComplianceServiceEvaluateAll(t *testing.T) {
	loads := &stubSectionLoadRepo{loads: map[string][]models.SectionLoad{
		"infant": {
			{GroupID: "g1", GroupName: "Ducklings", Section: "infant", ChildrenCount: 5, HasEducator: true},
		},
		"unknown": {
			{GroupID: "g9", GroupName: "Ghosts", Section: "unknown", ChildrenCount: 3, HasEducator: true},
		},
	}}
	svc := NewComplianceService(loads, compliancePolicies(), nil)

	results, err := svc.EvaluateAll(context.Background())
	require.NoError(t, err)
	// Every configured section is reported, sorted by name, even when empty.
	require.Len(t, results, 3)
	assert.Equal(t, "infant", results[0].Section)
	assert.Equal(t, "preschool", results[1].Section)
	assert.Equal(t, "toddler", results[2].Section)
	assert.Equal(t, models.ComplianceCompliant, results[0].Status)
	assert.Equal(t, models.ComplianceCompliant, results[1].Status)
	assert.Equal(t, 0, results[1].TotalChildren)
}
