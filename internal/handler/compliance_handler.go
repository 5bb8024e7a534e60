package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/pkg/response"
)

type complianceService interface {
	EvaluateSection(ctx context.Context, section string) (*models.SectionCompliance, error)
	EvaluateAll(ctx context.Context) ([]models.SectionCompliance, error)
}

// ComplianceHandler exposes the staffing ratio reports.
type ComplianceHandler struct {
	service complianceService
}

// NewComplianceHandler constructs the handler.
func NewComplianceHandler(service complianceService) *ComplianceHandler {
	return &ComplianceHandler{service: service}
}

// Section godoc
// @Summary Staffing compliance for one section
// @Tags Compliance
// @Produce json
// @Param id path string true "Section identifier"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/compliance [get]
func (h *ComplianceHandler) Section(c *gin.Context) {
	result, err := h.service.EvaluateSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// All godoc
// @Summary Staffing compliance for every configured section
// @Tags Compliance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sections/compliance [get]
func (h *ComplianceHandler) All(c *gin.Context) {
	results, err := h.service.EvaluateAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}
