package dto

import (
	"time"

	"github.com/kazmirchuk/workshophub/internal/app/models"
)

// --- Request DTOs ---

// EnrollRequest represents the optional body of an enroll call.
// The workshop comes from the URL, the user from the access token.
type EnrollRequest struct {
	GroupID *int64 `json:"groupId,omitempty" binding:"omitempty,gt=0"`
}

// --- Response DTOs ---

// EnrollmentResponse represents an enrollment as seen by its owner
type EnrollmentResponse struct {
	ID         int64                   `json:"id"`
	WorkshopID int64                   `json:"workshopId"`
	GroupID    *int64                  `json:"groupId,omitempty"`
	Status     models.EnrollmentStatus `json:"status"`
	CreatedAt  time.Time               `json:"createdAt"`
}

// EnrollmentAdminResponse extends the owner view with participant identity,
// for workshop and group participant listings.
type EnrollmentAdminResponse struct {
	EnrollmentResponse
	UserID    int64  `json:"userId"`
	UserEmail string `json:"userEmail,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// EnrollmentListResponse represents a list of enrollments
type EnrollmentListResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
}

// EnrollmentAdminListResponse represents a participant listing
type EnrollmentAdminListResponse struct {
	Participants []EnrollmentAdminResponse `json:"participants"`
}

// FromEnrollment converts a models.Enrollment to an EnrollmentResponse
func FromEnrollment(e *models.Enrollment) EnrollmentResponse {
	if e == nil {
		return EnrollmentResponse{}
	}
	return EnrollmentResponse{
		ID:         e.ID,
		WorkshopID: e.WorkshopID,
		GroupID:    e.GroupID,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
	}
}

// FromEnrollmentAdmin converts a models.Enrollment to an EnrollmentAdminResponse
func FromEnrollmentAdmin(e *models.Enrollment) EnrollmentAdminResponse {
	resp := EnrollmentAdminResponse{
		EnrollmentResponse: FromEnrollment(e),
		UserID:             e.UserID,
	}
	if e.User != nil {
		resp.UserEmail = e.User.Email
		resp.UserName = e.User.FullName
	}
	return resp
}
