package repository

import (
	"fmt"

	"gorm.io/gorm"

	"agenthub/internal/model"
)

type AgentFileRepository struct {
	db *gorm.DB
}

func NewAgentFileRepository(db *gorm.DB) *AgentFileRepository {
	return &AgentFileRepository{db: db}
}

func (r *AgentFileRepository) Create(file *model.AgentFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("create agent file failed: %w", err)
	}
	return nil
}

// ListByAgentID is not owner-scoped; callers must verify agent ownership first.
func (r *AgentFileRepository) ListByAgentID(agentID uint) ([]model.AgentFile, error) {
	var list []model.AgentFile
	if err := r.db.Where("agent_id = ?", agentID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list agent files failed: %w", err)
	}
	return list, nil
}
