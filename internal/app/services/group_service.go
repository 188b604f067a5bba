package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/kazmirchuk/workshophub/internal/app/models/dto"
	"github.com/kazmirchuk/workshophub/internal/app/repositories"
)

// GroupService defines the read side of workshop groups
type GroupService interface {
	GetGroupByID(ctx context.Context, id int64) (*dto.GroupResponse, error)
	GetGroupsByWorkshop(ctx context.Context, workshopID int64) (*dto.GroupListResponse, error)
}

// groupServiceImpl implements GroupService
type groupServiceImpl struct {
	groupRepo    *repositories.GroupRepository
	workshopRepo *repositories.WorkshopRepository
	logger       zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo *repositories.GroupRepository,
	workshopRepo *repositories.WorkshopRepository,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groupRepo:    groupRepo,
		workshopRepo: workshopRepo,
		logger:       logger,
	}
}

// GetGroupByID retrieves a single group with seat availability
func (s *groupServiceImpl) GetGroupByID(ctx context.Context, id int64) (*dto.GroupResponse, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := dto.FromGroup(group)
	return &response, nil
}

// GetGroupsByWorkshop retrieves the groups of a workshop.
// The workshop must exist; an empty group list is a valid answer.
func (s *groupServiceImpl) GetGroupsByWorkshop(ctx context.Context, workshopID int64) (*dto.GroupListResponse, error) {
	if _, err := s.workshopRepo.GetWorkshopByID(ctx, workshopID); err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.GetGroupsByWorkshopID(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}

	response := &dto.GroupListResponse{
		Groups: make([]dto.GroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		response.Groups = append(response.Groups, dto.FromGroup(g))
	}
	return response, nil
}
