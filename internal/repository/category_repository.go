package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"agenthub/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("create category failed: %w", err)
	}
	return nil
}

// GetByNameFold matches the name case-insensitively, so "FOO" finds "foo".
func (r *CategoryRepository) GetByNameFold(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query category by name failed: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) GetByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query category by id failed: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) ListAll() ([]model.Category, error) {
	var list []model.Category
	if err := r.db.Select("id", "name", "description", "created_at").Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	return list, nil
}

func (r *CategoryRepository) Update(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		return fmt.Errorf("update category failed: %w", err)
	}
	return nil
}

// DeleteByID removes the category; the agent_categories foreign key cascades
// the join rows. Returns whether a row was actually deleted.
func (r *CategoryRepository) DeleteByID(id uint) (bool, error) {
	res := r.db.Delete(&model.Category{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete category failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
