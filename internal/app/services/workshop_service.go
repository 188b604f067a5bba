package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/kazmirchuk/workshophub/internal/app/models/dto"
	"github.com/kazmirchuk/workshophub/internal/app/repositories"
	"github.com/kazmirchuk/workshophub/internal/pkg/helpers"
)

// WorkshopService defines the read side of the workshop catalog
type WorkshopService interface {
	GetAllWorkshops(ctx context.Context, filter *dto.WorkshopFilterRequest) (*dto.WorkshopListResponse, error)
	GetWorkshopByID(ctx context.Context, id int64) (*dto.WorkshopDetailResponse, error)
}

// workshopServiceImpl implements WorkshopService
type workshopServiceImpl struct {
	workshopRepo *repositories.WorkshopRepository
	groupRepo    *repositories.GroupRepository
	logger       zerolog.Logger
}

// NewWorkshopService creates a new WorkshopService
func NewWorkshopService(
	workshopRepo *repositories.WorkshopRepository,
	groupRepo *repositories.GroupRepository,
	logger zerolog.Logger,
) WorkshopService {
	return &workshopServiceImpl{
		workshopRepo: workshopRepo,
		groupRepo:    groupRepo,
		logger:       logger,
	}
}

// GetAllWorkshops retrieves workshops with filtering and pagination
func (s *workshopServiceImpl) GetAllWorkshops(ctx context.Context, filter *dto.WorkshopFilterRequest) (*dto.WorkshopListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	workshops, total, err := s.workshopRepo.GetAll(ctx, filter.Status, filter.Search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing workshops: %w", err)
	}

	response := &dto.WorkshopListResponse{
		Workshops:      make([]dto.WorkshopResponse, 0, len(workshops)),
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, limit),
	}
	for _, w := range workshops {
		response.Workshops = append(response.Workshops, dto.FromWorkshop(w))
	}
	return response, nil
}

// GetWorkshopByID retrieves a workshop with its groups and seat availability
func (s *workshopServiceImpl) GetWorkshopByID(ctx context.Context, id int64) (*dto.WorkshopDetailResponse, error) {
	workshop, err := s.workshopRepo.GetWorkshopByID(ctx, id)
	if err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.GetGroupsByWorkshopID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}

	response := &dto.WorkshopDetailResponse{
		WorkshopResponse: dto.FromWorkshop(workshop),
		Groups:           make([]dto.GroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		response.Groups = append(response.Groups, dto.FromGroup(g))
	}
	return response, nil
}
