package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/kazmirchuk/workshophub/internal/app/models"
	"github.com/kazmirchuk/workshophub/internal/app/models/dto"
	"github.com/kazmirchuk/workshophub/internal/pkg/apperrors"
)

// UserLookup resolves users by id
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
}

// WorkshopLookup resolves workshops by id
type WorkshopLookup interface {
	GetWorkshopByID(ctx context.Context, id int64) (*models.Workshop, error)
}

// GroupLookup resolves groups by id
type GroupLookup interface {
	GetGroupByID(ctx context.Context, id int64) (*models.Group, error)
}

// EnrollmentStore persists enrollments. CreateEnrollment and CancelEnrollment
// are atomic with the group seat ledger; see EnrollmentRepository.
type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	CancelEnrollment(ctx context.Context, id int64) error
	ConfirmEnrollment(ctx context.Context, id int64) error
	GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error)
	HasActiveEnrollment(ctx context.Context, userID, workshopID int64) (bool, error)
	GetEnrollmentsByUserID(ctx context.Context, userID int64) ([]*models.Enrollment, error)
	GetEnrollmentsByWorkshopID(ctx context.Context, workshopID int64) ([]*models.Enrollment, error)
	GetEnrollmentsByGroupID(ctx context.Context, groupID int64) ([]*models.Enrollment, error)
}

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, workshopID, userID int64, groupID *int64) (*models.Enrollment, error)
	Cancel(ctx context.Context, enrollmentID, actorID int64, privileged bool) error
	Confirm(ctx context.Context, enrollmentID int64) error
	GetByUser(ctx context.Context, userID int64) (*dto.EnrollmentListResponse, error)
	GetByWorkshop(ctx context.Context, workshopID int64) (*dto.EnrollmentAdminListResponse, error)
	GetByGroup(ctx context.Context, groupID int64) (*dto.EnrollmentAdminListResponse, error)
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	users       UserLookup
	workshops   WorkshopLookup
	groups      GroupLookup
	enrollments EnrollmentStore
	notifier    NotificationSink
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	users UserLookup,
	workshops WorkshopLookup,
	groups GroupLookup,
	enrollments EnrollmentStore,
	notifier NotificationSink,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		users:       users,
		workshops:   workshops,
		groups:      groups,
		enrollments: enrollments,
		notifier:    notifier,
		logger:      logger,
	}
}

// Enroll enrolls the user into the workshop, optionally into a specific group.
// The seat reservation and the duplicate guard both commit atomically with the
// enrollment row; a returned enrollment means the seat is durably held.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, workshopID, userID int64, groupID *int64) (*models.Enrollment, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, "user account is not active")
	}

	workshop, err := s.workshops.GetWorkshopByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	// Advisory check for a friendly error; the partial unique index decides.
	enrolled, err := s.enrollments.HasActiveEnrollment(ctx, userID, workshopID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing enrollment: %w", err)
	}
	if enrolled {
		return nil, apperrors.ErrDuplicateEnrollment
	}

	if groupID != nil {
		group, err := s.groups.GetGroupByID(ctx, *groupID)
		if err != nil {
			return nil, err
		}
		if !group.Active {
			return nil, apperrors.ErrGroupNotFound
		}
		if group.WorkshopID != workshopID {
			return nil, apperrors.ErrGroupWorkshopMismatch
		}
	}

	enrollment := &models.Enrollment{
		UserID:     userID,
		WorkshopID: workshopID,
		GroupID:    groupID,
		Status:     models.InitialEnrollmentStatus(workshop.Price),
	}

	if err := s.enrollments.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("enrollmentID", enrollment.ID).
		Int64("workshopID", workshopID).
		Int64("userID", userID).
		Str("status", string(enrollment.Status)).
		Msg("Enrollment created")

	s.notifier.NotifyEnrolled(EnrollmentEvent{
		WorkshopID: workshopID,
		GroupID:    groupID,
		UserID:     userID,
		Status:     enrollment.Status,
		Message:    fmt.Sprintf("New enrollment: user=%s (%d) for workshop=%s (%d)", user.Email, user.ID, workshop.Name, workshop.ID),
	})

	return enrollment, nil
}

// Cancel transitions the enrollment to CANCELLED and releases its seat.
// Non-privileged actors may only cancel their own enrollments.
func (s *enrollmentServiceImpl) Cancel(ctx context.Context, enrollmentID, actorID int64, privileged bool) error {
	enrollment, err := s.enrollments.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return err
	}

	if !privileged && enrollment.UserID != actorID {
		return apperrors.NewForbiddenError("cannot cancel another user's enrollment")
	}

	if err := enrollment.Transition(models.EnrollmentCancelled); err != nil {
		return err
	}

	// The store re-checks the status under its own transaction; a rival cancel
	// that slipped in between surfaces as ErrInvalidStateTransition here too.
	if err := s.enrollments.CancelEnrollment(ctx, enrollmentID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("enrollmentID", enrollmentID).
		Int64("actorID", actorID).
		Bool("privileged", privileged).
		Msg("Enrollment cancelled")

	s.notifier.NotifyCancelled(EnrollmentEvent{
		WorkshopID: enrollment.WorkshopID,
		GroupID:    enrollment.GroupID,
		UserID:     enrollment.UserID,
		Status:     models.EnrollmentCancelled,
		Message:    fmt.Sprintf("Enrollment cancelled: %d", enrollmentID),
	})

	return nil
}

// Confirm moves a PENDING enrollment to CONFIRMED. This is the entry point for
// the external payment-confirmation flow.
func (s *enrollmentServiceImpl) Confirm(ctx context.Context, enrollmentID int64) error {
	if err := s.enrollments.ConfirmEnrollment(ctx, enrollmentID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("enrollmentID", enrollmentID).
		Msg("Enrollment confirmed")

	return nil
}

// GetByUser retrieves the user's enrollments, most recent first
func (s *enrollmentServiceImpl) GetByUser(ctx context.Context, userID int64) (*dto.EnrollmentListResponse, error) {
	enrollments, err := s.enrollments.GetEnrollmentsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}

	response := &dto.EnrollmentListResponse{
		Enrollments: make([]dto.EnrollmentResponse, 0, len(enrollments)),
	}
	for _, e := range enrollments {
		response.Enrollments = append(response.Enrollments, dto.FromEnrollment(e))
	}
	return response, nil
}

// GetByWorkshop retrieves the participant listing of a workshop
func (s *enrollmentServiceImpl) GetByWorkshop(ctx context.Context, workshopID int64) (*dto.EnrollmentAdminListResponse, error) {
	enrollments, err := s.enrollments.GetEnrollmentsByWorkshopID(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	return s.adminListing(ctx, enrollments)
}

// GetByGroup retrieves the participant listing of a group
func (s *enrollmentServiceImpl) GetByGroup(ctx context.Context, groupID int64) (*dto.EnrollmentAdminListResponse, error) {
	enrollments, err := s.enrollments.GetEnrollmentsByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	return s.adminListing(ctx, enrollments)
}

// adminListing enriches enrollments with participant identity.
// A failed user lookup degrades the listing instead of failing it.
func (s *enrollmentServiceImpl) adminListing(ctx context.Context, enrollments []*models.Enrollment) (*dto.EnrollmentAdminListResponse, error) {
	ids := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.UserID)
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to resolve participants, returning bare listing")
		users = make(map[int64]*models.User)
	}

	response := &dto.EnrollmentAdminListResponse{
		Participants: make([]dto.EnrollmentAdminResponse, 0, len(enrollments)),
	}
	for _, e := range enrollments {
		e.User = users[e.UserID]
		response.Participants = append(response.Participants, dto.FromEnrollmentAdmin(e))
	}
	return response, nil
}
