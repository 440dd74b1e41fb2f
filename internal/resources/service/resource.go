package service

import (
	"context"
	"errors"
	"sync"

	resourceserrors "slotline/internal/resources/errors"
	"slotline/internal/resources/repository"
	"slotline/internal/resources/validator"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
	"slotline/pkg/sanitizer"
)

// ResourceService manages the catalog of bookable resources. GetResource
// doubles as the capacity-rule lookup for the booking engine.
type ResourceService interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error)
}

type resourceService struct {
	repo      repository.ResourceRepository
	validator *validator.ResourceValidator
	cfg       *config.Config
}

func NewResourceService(repo repository.ResourceRepository, resourceValidator *validator.ResourceValidator, cfg *config.Config) ResourceService {
	return &resourceService{
		repo:      repo,
		validator: resourceValidator,
		cfg:       cfg,
	}
}

func (s *resourceService) Create(ctx context.Context, resource *model.Resource) error {
	resource.Name = sanitizer.NormalizeResourceName(resource.Name)
	if err := s.validator.Validate(resource); err != nil {
		s.cfg.Log.Warn("Resource validation failed", "error", err)
		return apperrors.Validation("Invalid resource", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		if errors.Is(err, resourceserrors.ErrDuplicate) {
			return apperrors.Conflict("A resource with this name already exists")
		}
		s.cfg.Log.Error("Failed to create resource", "name", resource.Name, "error", err)
		return apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created", "id", resource.ID, "name", resource.Name, "max_slots", resource.MaxSlots)
	return nil
}

func (s *resourceService) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		if errors.Is(err, resourceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}
	return resource, nil
}

func (s *resourceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error) {
	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return resources, count, nil
}
