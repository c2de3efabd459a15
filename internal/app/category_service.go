package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"agenthub/internal/cache"
	"agenthub/internal/model"
	"agenthub/internal/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category name already exists")
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	catalog      *cache.CatalogCache
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, catalog *cache.CatalogCache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		catalog:      catalog,
	}
}

// CreateCategory rejects names that collide case-insensitively with an
// existing category, then persists the trimmed name in its original casing.
// A fresh category has no agents yet, so the catalog cache stays untouched.
func (s *CategoryService) CreateCategory(name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.categoryRepo.GetByNameFold(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	category := &model.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.categoryRepo.Create(category); err != nil {
		// Concurrent create can still lose the race to the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.ListAll()
}

func (s *CategoryService) GetCategoryByID(id uint) (*model.Category, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// UpdateCategory applies a partial update, revalidating name uniqueness when
// the name changes.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, input UpdateCategoryInput) (*model.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		if !strings.EqualFold(name, category.Name) {
			existing, err := s.categoryRepo.GetByNameFold(name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrCategoryExists
			}
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	s.invalidateCatalog(ctx)
	return category, nil
}

// DeleteCategory removes the category; its agent_categories rows cascade
// while the agents themselves stay. Cached public listings are dropped so a
// page filtered by the deleted category cannot outlive it.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, ErrInvalidInput
	}
	deleted, err := s.categoryRepo.DeleteByID(id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateCatalog(ctx)
	}
	return deleted, nil
}

func (s *CategoryService) invalidateCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		log.Printf("catalog cache invalidate failed: %v", err)
	}
}
