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

// WorkshopRepository handles read access to the 'workshops' table.
// Workshop management (create/update) belongs to the catalog subsystem.
type WorkshopRepository struct {
	db *pgxpool.Pool
}

// NewWorkshopRepository creates a new WorkshopRepository
func NewWorkshopRepository(db *pgxpool.Pool) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

var workshopColumns = []string{
	"id", "name", "description", "price", "status", "start_date", "end_date", "created_at", "updated_at",
}

func scanWorkshop(row pgx.Row) (*models.Workshop, error) {
	var w models.Workshop
	err := row.Scan(
		&w.ID,
		&w.Name,
		&w.Description,
		&w.Price,
		&w.Status,
		&w.StartDate,
		&w.EndDate,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWorkshopByID retrieves a workshop by ID
func (r *WorkshopRepository) GetWorkshopByID(ctx context.Context, id int64) (*models.Workshop, error) {
	query := squirrel.Select(workshopColumns...).
		From("workshops").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	workshop, err := scanWorkshop(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return workshop, nil
}

// GetAll retrieves workshops with optional status/search filters and pagination.
// Returns the page of workshops and the total match count.
func (r *WorkshopRepository) GetAll(ctx context.Context, status *string, search *string, offset uint64, limit int) ([]*models.Workshop, int64, error) {
	base := squirrel.Select(workshopColumns...).
		From("workshops").
		PlaceholderFormat(squirrel.Dollar)
	countQuery := squirrel.Select("COUNT(*)").
		From("workshops").
		PlaceholderFormat(squirrel.Dollar)

	if status != nil && *status != "" {
		base = base.Where("status = ?", *status)
		countQuery = countQuery.Where("status = ?", *status)
	}
	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		base = base.Where("name ILIKE ?", pattern)
		countQuery = countQuery.Where("name ILIKE ?", pattern)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing count query: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("start_date NULLS LAST", "id").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var workshops []*models.Workshop
	for rows.Next() {
		workshop, err := scanWorkshop(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		workshops = append(workshops, workshop)
	}

	return workshops, total, nil
}
