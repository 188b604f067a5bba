package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kazmirchuk/workshophub/internal/app/models/dto"
	"github.com/kazmirchuk/workshophub/internal/app/services"
	"github.com/kazmirchuk/workshophub/internal/middleware"
)

// GroupController handles the read-only group catalog
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{
		groupService: groupService,
	}
}

// GetGroupsByWorkshop handles listing the groups of a workshop
// @Summary List workshop groups
// @Description Retrieves all groups of a workshop with capacity and remaining seats.
// @Tags groups
// @Produce json
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse{data=dto.GroupListResponse} "Groups retrieved"
// @Failure 404 {object} dto.ErrorResponse "Workshop not found"
// @Router /workshops/{id}/groups [get]
func (c *GroupController) GetGroupsByWorkshop(ctx *gin.Context) {
	workshopID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.groupService.GetGroupsByWorkshop(ctx.Request.Context(), workshopID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetGroupByID handles retrieving a single group
// @Summary Get group details
// @Description Retrieves a group with its capacity, remaining seats and schedule.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.GroupResponse} "Group retrieved"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	groupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.groupService.GetGroupByID(ctx.Request.Context(), groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
