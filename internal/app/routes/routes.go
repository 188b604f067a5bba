package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kazmirchuk/workshophub/internal/app/controllers"
	"github.com/kazmirchuk/workshophub/internal/app/models"
	"github.com/kazmirchuk/workshophub/internal/app/models/dto"
	"github.com/kazmirchuk/workshophub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	workshopController *controllers.WorkshopController,
	groupController *controllers.GroupController,
	enrollmentController *controllers.EnrollmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	workshops := v1.Group("/workshops")
	{
		workshops.GET("", workshopController.GetAllWorkshops)
		workshops.GET("/:id", workshopController.GetWorkshopByID)
		workshops.GET("/:id/groups", groupController.GetGroupsByWorkshop)
	}

	groups := v1.Group("/groups")
	{
		groups.GET("/:id", groupController.GetGroupByID)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/workshops/:id/enroll", enrollmentController.Enroll)
		authenticated.GET("/users/me/enrollments", enrollmentController.MyEnrollments)
		authenticated.DELETE("/enrollments/:id", enrollmentController.Cancel)

		// Confirmation is the payment callback entry point, restricted to staff.
		staff := authenticated.Group("")
		staff.Use(authMiddleware.RoleRequired(
			string(models.RoleAdmin),
			string(models.RoleBusinessOwner),
		))
		{
			staff.POST("/enrollments/:id/confirm", enrollmentController.Confirm)
			staff.GET("/admin/workshops/:id/participants", enrollmentController.ParticipantsForWorkshop)
		}

		teaching := authenticated.Group("")
		teaching.Use(authMiddleware.RoleRequired(
			string(models.RoleTeacher),
			string(models.RoleAdmin),
			string(models.RoleBusinessOwner),
		))
		{
			teaching.GET("/teacher/groups/:id/participants", enrollmentController.ParticipantsForGroup)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
