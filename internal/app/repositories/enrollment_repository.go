package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kazmirchuk/workshophub/internal/app/models"
	"github.com/kazmirchuk/workshophub/internal/pkg/apperrors"
	"github.com/kazmirchuk/workshophub/internal/pkg/dberrors"
)

// uniqueActiveEnrollment is the partial unique index on (user_id, workshop_id)
// covering non-cancelled rows. It is the authoritative duplicate check; any
// read-before-write existence check is advisory only.
const uniqueActiveEnrollment = "uq_enrollments_active_user_workshop"

// txAttempts bounds retries of transient transaction failures (serialization
// failures, deadlocks). Exhaustion surfaces the last error.
const txAttempts = 3

// EnrollmentRepository handles the 'enrollments' table and owns the group seat
// ledger: reserving a seat, inserting the enrollment row and releasing a seat
// on cancellation each happen inside a single transaction, so the committed
// enrollment count can never exceed a group's capacity.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

var enrollmentColumns = []string{
	"id", "user_id", "workshop_id", "group_id", "status", "created_at",
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.WorkshopID,
		&e.GroupID,
		&e.Status,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// withRetry runs fn, retrying on transient transaction failures.
func (r *EnrollmentRepository) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !dberrors.IsRetryable(err) {
			return err
		}
	}
	return err
}

// reserveSeat claims one seat of the group inside tx. The conditional update
// takes a row lock on the group, so rival reservations for the same group are
// serialized; zero rows affected means the group is full.
func reserveSeat(ctx context.Context, tx pgx.Tx, groupID int64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE workshop_groups SET seats_left = seats_left - 1 WHERE id = $1 AND seats_left > 0`,
		groupID)
	if err != nil {
		return fmt.Errorf("error reserving seat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGroupFull
	}
	return nil
}

// releaseSeat returns one seat of the group inside tx. Capped at capacity so a
// repeated release can never overshoot.
func releaseSeat(ctx context.Context, tx pgx.Tx, groupID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE workshop_groups SET seats_left = LEAST(seats_left + 1, capacity) WHERE id = $1`,
		groupID)
	if err != nil {
		return fmt.Errorf("error releasing seat: %w", err)
	}
	return nil
}

// CreateEnrollment persists a new enrollment, reserving a group seat in the
// same transaction when a group is set. Fills in the generated ID and
// creation timestamp on success.
// Returns apperrors.ErrGroupFull when no seat is available and
// apperrors.ErrDuplicateEnrollment when the user already holds a non-cancelled
// enrollment for the workshop; either rolls the whole transaction back,
// including the seat reservation.
func (r *EnrollmentRepository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if enrollment.GroupID != nil {
			if err := reserveSeat(ctx, tx, *enrollment.GroupID); err != nil {
				return err
			}
		}

		query := squirrel.Insert("enrollments").
			Columns("user_id", "workshop_id", "group_id", "status").
			Values(enrollment.UserID, enrollment.WorkshopID, enrollment.GroupID, enrollment.Status).
			Suffix("RETURNING id, created_at").
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&enrollment.ID, &enrollment.CreatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, uniqueActiveEnrollment) {
				return apperrors.ErrDuplicateEnrollment
			}
			return fmt.Errorf("error executing query: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// CancelEnrollment transitions the enrollment to CANCELLED and releases its
// seat in one transaction. The status guard in the UPDATE makes cancellation
// race-safe: only one of two concurrent cancels observes a row change.
// Returns apperrors.ErrEnrollmentNotFound if the enrollment does not exist and
// apperrors.ErrInvalidStateTransition if it is already cancelled.
func (r *EnrollmentRepository) CancelEnrollment(ctx context.Context, id int64) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		var groupID *int64
		err = tx.QueryRow(ctx,
			`UPDATE enrollments SET status = $1 WHERE id = $2 AND status <> $1 RETURNING group_id`,
			models.EnrollmentCancelled, id).Scan(&groupID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.classifyMissedUpdate(ctx, id)
			}
			return fmt.Errorf("error executing query: %w", err)
		}

		if groupID != nil {
			if err := releaseSeat(ctx, tx, *groupID); err != nil {
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// ConfirmEnrollment transitions a PENDING enrollment to CONFIRMED.
// This is the payment-confirmation entry point; the seat (if any) stays
// reserved since PENDING already counts against capacity.
func (r *EnrollmentRepository) ConfirmEnrollment(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE enrollments SET status = $1 WHERE id = $2 AND status = $3`,
		models.EnrollmentConfirmed, id, models.EnrollmentPending)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, id)
	}
	return nil
}

// classifyMissedUpdate decides why a guarded status update touched no row:
// either the enrollment is gone or its current status forbids the transition.
func (r *EnrollmentRepository) classifyMissedUpdate(ctx context.Context, id int64) error {
	var status models.EnrollmentStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM enrollments WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrEnrollmentNotFound
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return apperrors.NewCustomError(apperrors.ErrInvalidStateTransition,
		"enrollment is in status "+string(status))
}

// GetEnrollmentByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := squirrel.Select(enrollmentColumns...).
		From("enrollments").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return enrollment, nil
}

// HasActiveEnrollment checks for a non-cancelled enrollment of the user in the
// workshop. Advisory: the partial unique index is what actually prevents
// duplicates at commit time.
func (r *EnrollmentRepository) HasActiveEnrollment(ctx context.Context, userID, workshopID int64) (bool, error) {
	query := squirrel.Select("1").
		From("enrollments").
		Where("user_id = ? AND workshop_id = ? AND status <> ?", userID, workshopID, models.EnrollmentCancelled).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

func (r *EnrollmentRepository) list(ctx context.Context, pred interface{}, args []interface{}, orderBy string) ([]*models.Enrollment, error) {
	query := squirrel.Select(enrollmentColumns...).
		From("enrollments").
		Where(pred, args...).
		OrderBy(orderBy).
		PlaceholderFormat(squirrel.Dollar)

	sql, sqlArgs, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, sqlArgs...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, nil
}

// GetEnrollmentsByUserID retrieves a user's enrollments, most recent first
func (r *EnrollmentRepository) GetEnrollmentsByUserID(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	return r.list(ctx, "user_id = ?", []interface{}{userID}, "created_at DESC")
}

// GetEnrollmentsByWorkshopID retrieves all enrollments of a workshop
func (r *EnrollmentRepository) GetEnrollmentsByWorkshopID(ctx context.Context, workshopID int64) ([]*models.Enrollment, error) {
	return r.list(ctx, "workshop_id = ?", []interface{}{workshopID}, "created_at")
}

// GetEnrollmentsByGroupID retrieves all enrollments of a group
func (r *EnrollmentRepository) GetEnrollmentsByGroupID(ctx context.Context, groupID int64) ([]*models.Enrollment, error) {
	return r.list(ctx, "group_id = ?", []interface{}{groupID}, "created_at")
}
