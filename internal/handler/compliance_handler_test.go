package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
)

type fakeComplianceSrv struct {
	section *models.SectionCompliance
	all     []models.SectionCompliance
	err     error
	last    string
}

func (f *fakeComplianceSrv) EvaluateSection(_ context.Context, section string) (*models.SectionCompliance, error) {
	f.last = section
	return f.section, f.err
}

func (f *fakeComplianceSrv) EvaluateAll(_ context.Context) ([]models.SectionCompliance, error) {
	return f.all, f.err
}

func TestComplianceHandlerSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeComplianceSrv{section: &models.SectionCompliance{
		Section:           "toddler",
		Status:            models.ComplianceWarning,
		Ratio:             8,
		TotalChildren:     42,
		RequiredEducators: 6,
		PresentEducators:  5,
	}}
	handler := NewComplianceHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sections/toddler/compliance", nil)
	c.Params = gin.Params{{Key: "id", Value: "toddler"}}

	handler.Section(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "toddler", service.last)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "warning", envelope.Data["status"])
	assert.Equal(t, float64(6), envelope.Data["required_educators"])
}

func TestComplianceHandlerSectionUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewComplianceHandler(&fakeComplianceSrv{err: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sections/afterschool/compliance", nil)
	c.Params = gin.Params{{Key: "id", Value: "afterschool"}}

	handler.Section(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplianceHandlerAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewComplianceHandler(&fakeComplianceSrv{all: []models.SectionCompliance{
		{Section: "infant", Status: models.ComplianceCompliant},
		{Section: "toddler", Status: models.ComplianceCritical},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sections/compliance", nil)

	handler.All(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "critical", envelope.Data[1]["status"])
}
