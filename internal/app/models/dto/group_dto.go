package dto

import (
	"time"

	"github.com/kazmirchuk/workshophub/internal/app/models"
)

// GroupResponse represents a scheduled session of a workshop
type GroupResponse struct {
	ID            int64      `json:"id"`
	WorkshopID    int64      `json:"workshopId"`
	Title         string     `json:"title"`
	Capacity      int        `json:"capacity"`
	SeatsLeft     int        `json:"seatsLeft"`
	EnrolledCount int        `json:"enrolledCount"`
	StartsAt      time.Time  `json:"startsAt"`
	EndsAt        *time.Time `json:"endsAt,omitempty"`
	Active        bool       `json:"active"`
}

// GroupListResponse represents the groups of a workshop
type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// FromGroup converts a models.Group to a GroupResponse
func FromGroup(g *models.Group) GroupResponse {
	if g == nil {
		return GroupResponse{}
	}
	return GroupResponse{
		ID:            g.ID,
		WorkshopID:    g.WorkshopID,
		Title:         g.Title,
		Capacity:      g.Capacity,
		SeatsLeft:     g.SeatsLeft,
		EnrolledCount: g.EnrolledCount(),
		StartsAt:      g.StartsAt,
		EndsAt:        g.EndsAt,
		Active:        g.Active,
	}
}
