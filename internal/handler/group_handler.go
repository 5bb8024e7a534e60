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

type groupService interface {
	List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error)
	Roster(ctx context.Context, groupID string) (*dto.GroupRoster, error)
	CheckEligibility(ctx context.Context, childID, groupID string) (*dto.EligibilityResult, error)
	AssignGroup(ctx context.Context, childID string, req dto.AssignGroupRequest, claims *models.JWTClaims) (*dto.EligibilityResult, error)
	UnassignGroup(ctx context.Context, childID string, claims *models.JWTClaims) error
}

// GroupHandler exposes group listing, rosters and assignments.
type GroupHandler struct {
	service groupService
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(service groupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// List godoc
// @Summary List groups with live occupancy
// @Tags Groups
// @Produce json
// @Param section query string false "Section filter"
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context(), models.GroupFilter{Section: c.Query("section")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Roster godoc
// @Summary Get a group's occupants
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/roster [get]
func (h *GroupHandler) Roster(c *gin.Context) {
	roster, err := h.service.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// Eligibility godoc
// @Summary Dry-run the eligibility check for a child
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Param childId query string true "Child ID"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/eligibility [get]
func (h *GroupHandler) Eligibility(c *gin.Context) {
	childID := c.Query("childId")
	if childID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "childId query parameter required"))
		return
	}
	result, err := h.service.CheckEligibility(c.Request.Context(), childID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Assign godoc
// @Summary Assign a child to a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path string true "Child ID"
// @Param payload body dto.AssignGroupRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /children/{id}/group [post]
func (h *GroupHandler) Assign(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.AssignGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	result, err := h.service.AssignGroup(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Unassign godoc
// @Summary Remove a child from its group
// @Tags Groups
// @Param id path string true "Child ID"
// @Success 204
// @Router /children/{id}/group [delete]
func (h *GroupHandler) Unassign(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.UnassignGroup(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
