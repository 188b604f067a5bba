package dto

import (
	"time"

	"github.com/kazmirchuk/workshophub/internal/app/models"
)

// WorkshopResponse represents basic workshop information
type WorkshopResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Price       *float64              `json:"price,omitempty"`
	Free        bool                  `json:"free"`
	Status      models.WorkshopStatus `json:"status"`
	StartDate   *time.Time            `json:"startDate,omitempty"`
	EndDate     *time.Time            `json:"endDate,omitempty"`
}

// WorkshopDetailResponse extends WorkshopResponse with its groups
type WorkshopDetailResponse struct {
	WorkshopResponse
	Groups []GroupResponse `json:"groups"`
}

// WorkshopListResponse represents a paginated list of workshops
type WorkshopListResponse struct {
	Workshops []WorkshopResponse `json:"workshops"`
	PaginationInfo
}

// WorkshopFilterRequest represents workshop filter parameters
type WorkshopFilterRequest struct {
	Status   *string `form:"status,omitempty"`
	Search   *string `form:"search,omitempty"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// FromWorkshop converts a models.Workshop to a WorkshopResponse
func FromWorkshop(w *models.Workshop) WorkshopResponse {
	if w == nil {
		return WorkshopResponse{}
	}
	return WorkshopResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Price:       w.Price,
		Free:        w.IsFree(),
		Status:      w.Status,
		StartDate:   w.StartDate,
		EndDate:     w.EndDate,
	}
}
