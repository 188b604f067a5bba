package models

import (
	"time"

	"github.com/kazmirchuk/workshophub/internal/pkg/apperrors"
)

// EnrollmentStatus defines the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	// EnrollmentPending awaits payment confirmation
	EnrollmentPending EnrollmentStatus = "PENDING"
	// EnrollmentConfirmed holds a committed seat (free workshop or paid)
	EnrollmentConfirmed EnrollmentStatus = "CONFIRMED"
	// EnrollmentCancelled is terminal; cancelled enrollments do not count against capacity
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

// Valid reports whether s is a known enrollment status.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentConfirmed, EnrollmentCancelled:
		return true
	}
	return false
}

// Committed reports whether the status counts against group capacity.
func (s EnrollmentStatus) Committed() bool {
	return s == EnrollmentPending || s == EnrollmentConfirmed
}

// CanTransitionTo reports whether the state machine allows moving to target.
// Allowed moves: PENDING -> CONFIRMED, PENDING -> CANCELLED, CONFIRMED -> CANCELLED.
// CANCELLED is terminal.
func (s EnrollmentStatus) CanTransitionTo(target EnrollmentStatus) bool {
	switch s {
	case EnrollmentPending:
		return target == EnrollmentConfirmed || target == EnrollmentCancelled
	case EnrollmentConfirmed:
		return target == EnrollmentCancelled
	default:
		return false
	}
}

// InitialEnrollmentStatus computes the creation-time status from the workshop price:
// free workshops confirm immediately, priced ones await payment.
func InitialEnrollmentStatus(price *float64) EnrollmentStatus {
	if price == nil || *price == 0 {
		return EnrollmentConfirmed
	}
	return EnrollmentPending
}

// Enrollment defines the enrollment model based on the 'enrollments' table.
// User, workshop and group references are immutable after creation; only the
// status moves, through Transition.
type Enrollment struct {
	ID         int64            `json:"id" db:"id" example:"1"`
	UserID     int64            `json:"userId" db:"user_id" example:"7"`
	WorkshopID int64            `json:"workshopId" db:"workshop_id" example:"1"`
	GroupID    *int64           `json:"groupId,omitempty" db:"group_id" example:"3"` // nil when enrolling without a group
	Status     EnrollmentStatus `json:"status" db:"status" example:"CONFIRMED"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`

	// Related entities
	User     *User     `json:"user,omitempty"`
	Workshop *Workshop `json:"workshop,omitempty"`
	Group    *Group    `json:"group,omitempty"`
}

// Transition moves the enrollment to target, enforcing the state machine.
func (e *Enrollment) Transition(target EnrollmentStatus) error {
	if !target.Valid() {
		return apperrors.NewCustomError(apperrors.ErrInvalidStateTransition, "unknown enrollment status: "+string(target))
	}
	if !e.Status.CanTransitionTo(target) {
		return apperrors.NewCustomError(apperrors.ErrInvalidStateTransition,
			"cannot transition enrollment from "+string(e.Status)+" to "+string(target))
	}
	e.Status = target
	return nil
}
