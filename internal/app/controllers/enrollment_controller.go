package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kazmirchuk/workshophub/internal/app/models/dto"
	"github.com/kazmirchuk/workshophub/internal/app/services"
	"github.com/kazmirchuk/workshophub/internal/middleware"
)

// EnrollmentController handles enrollment related operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// Enroll handles enrolling the current user into a workshop
// @Summary Enroll into a workshop
// @Description Enrolls the authenticated user into a workshop, optionally into a specific group. Free workshops confirm immediately; priced ones stay pending until payment confirmation.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workshop ID"
// @Param request body dto.EnrollRequest false "Optional group selection"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or group belongs to another workshop"
// @Failure 404 {object} dto.ErrorResponse "Workshop or group not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or group is full"
// @Router /workshops/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	workshopID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	// Body is optional: enrolling without a group is the common case.
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), workshopID, userID, req.GroupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromEnrollment(enrollment)))
}

// Cancel handles cancelling an enrollment
// @Summary Cancel an enrollment
// @Description Cancels an enrollment and releases its group seat. Users may cancel their own enrollments; admins and business owners may cancel any.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse "Enrollment cancelled"
// @Failure 403 {object} dto.ErrorResponse "Not the owner and not privileged"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Enrollment already cancelled"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Cancel(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	privileged := middleware.CurrentUserIsPrivileged(ctx)

	err := c.enrollmentService.Cancel(ctx.Request.Context(), enrollmentID, userID, privileged)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Enrollment cancelled"))
}

// Confirm handles confirming a pending enrollment
// @Summary Confirm a pending enrollment
// @Description Moves a PENDING enrollment to CONFIRMED after payment. Restricted to admins and business owners.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse "Enrollment confirmed"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Enrollment is not pending"
// @Router /enrollments/{id}/confirm [post]
func (c *EnrollmentController) Confirm(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.enrollmentService.Confirm(ctx.Request.Context(), enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Enrollment confirmed"))
}

// MyEnrollments handles listing the current user's enrollments
// @Summary List own enrollments
// @Description Retrieves the authenticated user's enrollments, most recent first.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentListResponse} "Enrollments retrieved"
// @Router /users/me/enrollments [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	response, err := c.enrollmentService.GetByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ParticipantsForWorkshop handles the admin participant listing of a workshop
// @Summary List workshop participants
// @Description Retrieves all enrollments of a workshop with participant identity. Restricted to admins and business owners.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentAdminListResponse} "Participants retrieved"
// @Router /admin/workshops/{id}/participants [get]
func (c *EnrollmentController) ParticipantsForWorkshop(ctx *gin.Context) {
	workshopID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.enrollmentService.GetByWorkshop(ctx.Request.Context(), workshopID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ParticipantsForGroup handles the participant listing of a group
// @Summary List group participants
// @Description Retrieves all enrollments of a group with participant identity. Restricted to teachers, admins and business owners.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentAdminListResponse} "Participants retrieved"
// @Router /teacher/groups/{id}/participants [get]
func (c *EnrollmentController) ParticipantsForGroup(ctx *gin.Context) {
	groupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.enrollmentService.GetByGroup(ctx.Request.Context(), groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
