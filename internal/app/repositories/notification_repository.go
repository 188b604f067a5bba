package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kazmirchuk/workshophub/internal/app/models"
)

// NotificationRepository handles the 'notifications' log table.
// Rows are written by the notification worker, never inside an enrollment
// transaction.
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// InsertNotification appends a notification event to the log
func (r *NotificationRepository) InsertNotification(ctx context.Context, n *models.Notification) error {
	query := squirrel.Insert("notifications").
		Columns("id", "kind", "workshop_id", "group_id", "user_id", "status", "message").
		Values(n.ID, n.Kind, n.WorkshopID, n.GroupID, n.UserID, n.Status, n.Message).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.CreatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetNotificationsByUserID retrieves a user's notification log, most recent first
func (r *NotificationRepository) GetNotificationsByUserID(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := squirrel.Select("id", "kind", "workshop_id", "group_id", "user_id", "status", "message", "created_at").
		From("notifications").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.Kind, &n.WorkshopID, &n.GroupID, &n.UserID, &n.Status, &n.Message, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}
