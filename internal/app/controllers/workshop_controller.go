package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kazmirchuk/workshophub/internal/app/models/dto"
	"github.com/kazmirchuk/workshophub/internal/app/services"
	"github.com/kazmirchuk/workshophub/internal/middleware"
	"github.com/kazmirchuk/workshophub/internal/pkg/helpers"
)

// WorkshopController handles the read-only workshop catalog
type WorkshopController struct {
	workshopService services.WorkshopService
}

// NewWorkshopController creates a new WorkshopController
func NewWorkshopController(workshopService services.WorkshopService) *WorkshopController {
	return &WorkshopController{
		workshopService: workshopService,
	}
}

// GetAllWorkshops handles listing workshops
// @Summary List workshops
// @Description Retrieves workshops with optional status filter and title search, paginated.
// @Tags workshops
// @Produce json
// @Param status query string false "Workshop status filter" Enums(DRAFT, PUBLISHED, ARCHIVED)
// @Param search query string false "Title search term"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.WorkshopListResponse} "Workshops retrieved"
// @Router /workshops [get]
func (c *WorkshopController) GetAllWorkshops(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	filter := &dto.WorkshopFilterRequest{
		Page:     page,
		PageSize: pageSize,
	}
	if status := ctx.Query("status"); status != "" {
		filter.Status = &status
	}
	if search := ctx.Query("search"); search != "" {
		filter.Search = &search
	}

	response, err := c.workshopService.GetAllWorkshops(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetWorkshopByID handles retrieving a single workshop with its groups
// @Summary Get workshop details
// @Description Retrieves a workshop together with its groups and their remaining seats.
// @Tags workshops
// @Produce json
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse{data=dto.WorkshopDetailResponse} "Workshop retrieved"
// @Failure 404 {object} dto.ErrorResponse "Workshop not found"
// @Router /workshops/{id} [get]
func (c *WorkshopController) GetWorkshopByID(ctx *gin.Context) {
	workshopID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.workshopService.GetWorkshopByID(ctx.Request.Context(), workshopID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
