package models

import "time"

// WorkshopStatus defines the publication state of a workshop
type WorkshopStatus string

const (
	WorkshopDraft     WorkshopStatus = "DRAFT"
	WorkshopPublished WorkshopStatus = "PUBLISHED"
	WorkshopArchived  WorkshopStatus = "ARCHIVED"
)

// Workshop defines the workshop model based on the 'workshops' table.
// A workshop is the bookable offering; its scheduled sessions live in Group.
type Workshop struct {
	ID          int64          `json:"id" db:"id" example:"1"`
	Name        string         `json:"name" db:"name" example:"Pottery for beginners"`
	Description *string        `json:"description,omitempty" db:"description"`
	Price       *float64       `json:"price,omitempty" db:"price" example:"25.00"` // nil or 0 means free
	Status      WorkshopStatus `json:"status" db:"status" example:"PUBLISHED"`
	StartDate   *time.Time     `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time     `json:"endDate,omitempty" db:"end_date"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`

	// Related entities
	Groups []*Group `json:"groups,omitempty"`
}

// IsFree reports whether enrolling requires no payment.
func (w *Workshop) IsFree() bool {
	return w.Price == nil || *w.Price == 0
}
