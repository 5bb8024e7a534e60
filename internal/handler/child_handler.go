package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/nursery-checkin-api/internal/dto"
	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/internal/service"
	appErrors "github.com/noah-isme/nursery-checkin-api/pkg/errors"
	"github.com/noah-isme/nursery-checkin-api/pkg/response"
)

type childService interface {
	List(ctx context.Context, req service.ChildListRequest) ([]models.ChildDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ChildDetail, error)
	Create(ctx context.Context, req dto.CreateChildRequest, claims *models.JWTClaims) (*models.Child, error)
	ChangeStatus(ctx context.Context, id string, req dto.ChangeChildStatusRequest, claims *models.JWTClaims) error
}

// ChildHandler exposes the child roster endpoints.
type ChildHandler struct {
	service childService
}

// NewChildHandler constructs the handler.
func NewChildHandler(service childService) *ChildHandler {
	return &ChildHandler{service: service}
}

// List godoc
// @Summary List children
// @Tags Children
// @Produce json
// @Param search query string false "Name or code search"
// @Param groupId query string false "Group filter"
// @Param section query string false "Section filter"
// @Param status query string false "active or inactive"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /children [get]
func (h *ChildHandler) List(c *gin.Context) {
	req := service.ChildListRequest{
		Search:    c.Query("search"),
		GroupID:   c.Query("groupId"),
		Section:   c.Query("section"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "limit", 50),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	rows, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Get godoc
// @Summary Get one child
// @Tags Children
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Router /children/{id} [get]
func (h *ChildHandler) Get(c *gin.Context) {
	child, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, child, nil)
}

// Create godoc
// @Summary Enroll a child
// @Tags Children
// @Accept json
// @Produce json
// @Param payload body dto.CreateChildRequest true "Child payload"
// @Success 201 {object} response.Envelope
// @Router /children [post]
func (h *ChildHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.CreateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid child payload"))
		return
	}
	child, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, child)
}

// ChangeStatus godoc
// @Summary Change a child's enrollment status
// @Tags Children
// @Accept json
// @Param id path string true "Child ID"
// @Param payload body dto.ChangeChildStatusRequest true "Status payload"
// @Success 204
// @Router /children/{id}/status [patch]
func (h *ChildHandler) ChangeStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.ChangeChildStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	if err := h.service.ChangeStatus(c.Request.Context(), c.Param("id"), req, claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
