package models

import "time"

// Group defines the group model based on the 'workshop_groups' table.
// A group is one capacity-bounded scheduled session of a workshop.
// SeatsLeft is owned by the enrollment repository; nothing else writes it.
type Group struct {
	ID         int64      `json:"id" db:"id" example:"1"`
	WorkshopID int64      `json:"workshopId" db:"workshop_id" example:"1"`
	Title      string     `json:"title" db:"title" example:"Saturday morning"`
	Capacity   int        `json:"capacity" db:"capacity" example:"12"`
	SeatsLeft  int        `json:"seatsLeft" db:"seats_left" example:"3"`
	StartsAt   time.Time  `json:"startsAt" db:"starts_at"`
	EndsAt     *time.Time `json:"endsAt,omitempty" db:"ends_at"`
	Active     bool       `json:"active" db:"active" example:"true"`

	// Related entities
	Workshop *Workshop `json:"workshop,omitempty"`
}

// EnrolledCount derives the committed enrollment count from the seat counter.
func (g *Group) EnrolledCount() int {
	return g.Capacity - g.SeatsLeft
}

// IsFull reports whether no seat is currently available.
func (g *Group) IsFull() bool {
	return g.SeatsLeft <= 0
}
