package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"agenthub/internal/model"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) Create(agent *model.Agent) error {
	if err := r.db.Create(agent).Error; err != nil {
		return fmt.Errorf("create agent failed: %w", err)
	}
	return nil
}

func (r *AgentRepository) GetByID(id uint) (*model.Agent, error) {
	var agent model.Agent
	if err := r.db.First(&agent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query agent by id failed: %w", err)
	}
	return &agent, nil
}

// GetByIDAndOwnerID is the authorization primitive: the ownership predicate
// lives in the query itself, so a non-owner sees the same nil as a missing id.
func (r *AgentRepository) GetByIDAndOwnerID(id, ownerID uint) (*model.Agent, error) {
	var agent model.Agent
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query agent by id and owner failed: %w", err)
	}
	return &agent, nil
}

func (r *AgentRepository) ListByOwnerID(ownerID uint) ([]model.Agent, error) {
	var list []model.Agent
	if err := r.db.Where("owner_id = ?", ownerID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list agents by owner failed: %w", err)
	}
	return list, nil
}

func (r *AgentRepository) ListPrivateByOwnerID(ownerID uint) ([]model.Agent, error) {
	var list []model.Agent
	if err := r.db.Where("owner_id = ? AND is_public = ?", ownerID, false).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list private agents failed: %w", err)
	}
	return list, nil
}

func (r *AgentRepository) ListPublicByOwnerID(ownerID uint) ([]model.Agent, error) {
	var list []model.Agent
	if err := r.db.Where("owner_id = ? AND is_public = ?", ownerID, true).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list public agents by owner failed: %w", err)
	}
	return list, nil
}

// ListPublic returns public agents, optionally restricted to one category.
// Ordered by id so offset pagination is stable across calls.
func (r *AgentRepository) ListPublic(categoryID uint, limit, offset int) ([]model.Agent, error) {
	q := r.db.Model(&model.Agent{}).Where("agents.is_public = ?", true)
	if categoryID != 0 {
		q = q.Joins("JOIN agent_categories ON agent_categories.agent_id = agents.id").
			Where("agent_categories.category_id = ?", categoryID)
	}
	var list []model.Agent
	if err := q.Order("agents.id ASC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list public agents failed: %w", err)
	}
	return list, nil
}

// Updates applies the given column map to an agent scoped by id and owner.
func (r *AgentRepository) Updates(id, ownerID uint, fields map[string]interface{}) error {
	if err := r.db.Model(&model.Agent{}).Where("id = ? AND owner_id = ?", id, ownerID).Updates(fields).Error; err != nil {
		return fmt.Errorf("update agent failed: %w", err)
	}
	return nil
}

func (r *AgentRepository) DeleteByIDAndOwnerID(id, ownerID uint) (bool, error) {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Agent{})
	if res.Error != nil {
		return false, fmt.Errorf("delete agent failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *AgentRepository) AssignCategories(agentID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	joins := make([]model.AgentCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		joins = append(joins, model.AgentCategory{AgentID: agentID, CategoryID: categoryID})
	}
	if err := r.db.Create(&joins).Error; err != nil {
		return fmt.Errorf("assign agent categories failed: %w", err)
	}
	return nil
}

func (r *AgentRepository) DeleteCategories(agentID uint) error {
	if err := r.db.Where("agent_id = ?", agentID).Delete(&model.AgentCategory{}).Error; err != nil {
		return fmt.Errorf("delete agent categories failed: %w", err)
	}
	return nil
}

// ReplaceCategories swaps the agent's category set inside one transaction so
// a crash can never leave the agent with the old rows deleted and the new
// ones missing.
func (r *AgentRepository) ReplaceCategories(agentID uint, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("agent_id = ?", agentID).Delete(&model.AgentCategory{}).Error; err != nil {
			return fmt.Errorf("delete agent categories failed: %w", err)
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		joins := make([]model.AgentCategory, 0, len(categoryIDs))
		for _, categoryID := range categoryIDs {
			joins = append(joins, model.AgentCategory{AgentID: agentID, CategoryID: categoryID})
		}
		if err := tx.Create(&joins).Error; err != nil {
			return fmt.Errorf("assign agent categories failed: %w", err)
		}
		return nil
	})
}

func (r *AgentRepository) ListCategoryIDs(agentID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.AgentCategory{}).Where("agent_id = ?", agentID).Pluck("category_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list agent category ids failed: %w", err)
	}
	return ids, nil
}
