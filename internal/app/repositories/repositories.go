package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	WorkshopRepository     *WorkshopRepository
	GroupRepository        *GroupRepository
	EnrollmentRepository   *EnrollmentRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		WorkshopRepository:     NewWorkshopRepository(db),
		GroupRepository:        NewGroupRepository(db),
		EnrollmentRepository:   NewEnrollmentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
