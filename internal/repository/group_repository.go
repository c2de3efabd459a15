package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"agenthub/internal/model"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(group *model.Group) error {
	if err := r.db.Create(group).Error; err != nil {
		return fmt.Errorf("create group failed: %w", err)
	}
	return nil
}

func (r *GroupRepository) GetByID(id uint) (*model.Group, error) {
	var group model.Group
	if err := r.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query group by id failed: %w", err)
	}
	return &group, nil
}

func (r *GroupRepository) AssignUser(userID, groupID uint) error {
	join := model.UserGroup{UserID: userID, GroupID: groupID}
	if err := r.db.Create(&join).Error; err != nil {
		return fmt.Errorf("assign user to group failed: %w", err)
	}
	return nil
}

func (r *GroupRepository) ListByUserID(userID uint) ([]model.Group, error) {
	var list []model.Group
	err := r.db.
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", userID).
		Order("groups.id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list groups by user failed: %w", err)
	}
	return list, nil
}

func (r *GroupRepository) AssignAgent(agentID, groupID uint) error {
	join := model.AgentGroup{AgentID: agentID, GroupID: groupID}
	if err := r.db.Create(&join).Error; err != nil {
		return fmt.Errorf("assign agent to group failed: %w", err)
	}
	return nil
}
