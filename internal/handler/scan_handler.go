package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nursery-checkin-api/internal/dto"
	"github.com/noah-isme/nursery-checkin-api/internal/models"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
	"github.com/noah-isme/nursery-checkin-api/pkg/response"
)

type scanService interface {
	Process(ctx context.Context, req dto.ScanRequest, claims *models.JWTClaims) (*dto.ScanResult, error)
	Suggest(ctx context.Context, code string) (*dto.ScanSuggestion, error)
}

// ScanHandler exposes the check-in scan endpoints.
type ScanHandler struct {
	service scanService
}

// NewScanHandler constructs the handler.
func NewScanHandler(service scanService) *ScanHandler {
	return &ScanHandler{service: service}
}

// Process godoc
// @Summary Process a presented badge code
// @Tags Scans
// @Accept json
// @Produce json
// @Param payload body dto.ScanRequest true "Scan payload"
// @Success 201 {object} response.Envelope
// @Router /scans [post]
func (h *ScanHandler) Process(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scan payload"))
		return
	}
	result, err := h.service.Process(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Suggest godoc
// @Summary Preview the next expected action for a code
// @Tags Scans
// @Produce json
// @Param code query string true "Badge code"
// @Success 200 {object} response.Envelope
// @Router /scans/suggestion [get]
func (h *ScanHandler) Suggest(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "code query parameter required"))
		return
	}
	suggestion, err := h.service.Suggest(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestion, nil)
}
