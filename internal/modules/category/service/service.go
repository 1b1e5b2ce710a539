package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contractdesk/internal/entity"
	"contractdesk/internal/events"
	"contractdesk/internal/modules/category/dto"
	"contractdesk/internal/modules/category/repository"
	contractRepo "contractdesk/internal/modules/contract/repository"
	"contractdesk/pkg/apperror"
	"gorm.io/gorm"
)

// CategoryService owns the category list. Contracts reference categories by
// name only, so a rename has to be cascaded here and a delete has to be
// refused while contracts still use the name. Every mutation publishes a
// change event so dependent views (contract filter and form dropdowns) can
// refresh.
type CategoryService interface {
	CreateCategory(ctx context.Context, input dto.CategoryInput) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uint, input dto.CategoryInput) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	repo      repository.CategoryRepository
	contracts contractRepo.ContractRepository
	hub       *events.Hub
}

func NewCategoryService(repo repository.CategoryRepository, contracts contractRepo.ContractRepository, hub *events.Hub) CategoryService {
	return &categoryService{
		repo:      repo,
		contracts: contracts,
		hub:       hub,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, input dto.CategoryInput) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.BadRequest("category name must not be empty")
	}

	if existing, _ := s.repo.FindByName(ctx, name); existing != nil {
		return nil, apperror.Conflict("category already exists")
	}

	category := &entity.Category{Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.hub.Publish(ctx, events.TopicCategoriesChanged)

	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryResponse{ID: category.ID, Name: category.Name})
	}
	return responses, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, input dto.CategoryInput) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.BadRequest("category name must not be empty")
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, err
	}

	if existing, _ := s.repo.FindByName(ctx, name); existing != nil && existing.ID != id {
		return nil, apperror.Conflict("category name already exists")
	}

	oldName := category.Name
	category.Name = name
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	// Contracts store the category name, not the ID. Carry the rename over.
	if oldName != name {
		if err := s.contracts.ReassignCategory(ctx, oldName, name); err != nil {
			return nil, err
		}
	}

	s.hub.Publish(ctx, events.TopicCategoriesChanged)

	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("category not found")
		}
		return err
	}

	count, err := s.contracts.CountByCategory(ctx, category.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict(fmt.Sprintf("category is used by %d contract(s)", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.Publish(ctx, events.TopicCategoriesChanged)
	return nil
}
