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
)

// GroupRepository handles read access to the 'workshop_groups' table.
// The seats_left column is written only by EnrollmentRepository, inside the
// reservation and release transactions.
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

var groupColumns = []string{
	"id", "workshop_id", "title", "capacity", "seats_left", "starts_at", "ends_at", "active",
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	err := row.Scan(
		&g.ID,
		&g.WorkshopID,
		&g.Title,
		&g.Capacity,
		&g.SeatsLeft,
		&g.StartsAt,
		&g.EndsAt,
		&g.Active,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGroupByID retrieves a group by ID
func (r *GroupRepository) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	query := squirrel.Select(groupColumns...).
		From("workshop_groups").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	group, err := scanGroup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return group, nil
}

// GetGroupsByWorkshopID retrieves all groups of a workshop ordered by start time
func (r *GroupRepository) GetGroupsByWorkshopID(ctx context.Context, workshopID int64) ([]*models.Group, error) {
	query := squirrel.Select(groupColumns...).
		From("workshop_groups").
		Where("workshop_id = ?", workshopID).
		OrderBy("starts_at", "id").
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

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, nil
}
