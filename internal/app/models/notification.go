package models

import "time"

// NotificationKind distinguishes enrollment events in the notification log
type NotificationKind string

const (
	NotificationEnrolled  NotificationKind = "ENROLLED"
	NotificationCancelled NotificationKind = "CANCELLED"
)

// Notification defines a row in the 'notifications' log table.
// Delivery (email/SMS) is outside this system; the log is the MVP sink.
type Notification struct {
	ID         string           `json:"id" db:"id"` // UUID assigned by the dispatcher
	Kind       NotificationKind `json:"kind" db:"kind"`
	WorkshopID int64            `json:"workshopId" db:"workshop_id"`
	GroupID    *int64           `json:"groupId,omitempty" db:"group_id"`
	UserID     int64            `json:"userId" db:"user_id"`
	Status     EnrollmentStatus `json:"status" db:"status"`
	Message    string           `json:"message" db:"message"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
}
