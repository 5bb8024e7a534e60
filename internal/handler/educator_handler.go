package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/pkg/response"
)

type educatorService interface {
	Get(ctx context.Context, id string) (*models.Educator, error)
	List(ctx context.Context, filter models.EducatorFilter) ([]models.Educator, error)
}

// EducatorHandler exposes staff lookups.
type EducatorHandler struct {
	service educatorService
}

// NewEducatorHandler constructs the handler.
func NewEducatorHandler(service educatorService) *EducatorHandler {
	return &EducatorHandler{service: service}
}

// List godoc
// @Summary List educators
// @Tags Educators
// @Produce json
// @Param search query string false "Name or email search"
// @Param active query bool false "Active filter"
// @Success 200 {object} response.Envelope
// @Router /educators [get]
func (h *EducatorHandler) List(c *gin.Context) {
	filter := models.EducatorFilter{Search: c.Query("search")}
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	rows, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Get godoc
// @Summary Get one educator
// @Tags Educators
// @Produce json
// @Param id path string true "Educator ID"
// @Success 200 {object} response.Envelope
// @Router /educators/{id} [get]
func (h *EducatorHandler) Get(c *gin.Context) {
	educator, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, educator, nil)
}
