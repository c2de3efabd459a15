package model

import "time"

// Agent is a named prompt configuration owned by a user. Public agents are
// visible system-wide; private ones only to their owner (and linked groups).
type Agent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Prompt      string    `gorm:"type:text;not null" json:"prompt"`
	Provider    string    `gorm:"size:32;not null;default:openai" json:"provider"`
	IsPublic    bool      `gorm:"not null;default:false" json:"is_public"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`

	Owner User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type AgentCategory struct {
	AgentID    uint     `gorm:"primaryKey;index" json:"agent_id"`
	CategoryID uint     `gorm:"primaryKey;index" json:"category_id"`
	Agent      Agent    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category   Category `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (AgentCategory) TableName() string { return "agent_categories" }

// AgentGroup makes an agent visible to members of a group.
type AgentGroup struct {
	AgentID uint  `gorm:"primaryKey;index" json:"agent_id"`
	GroupID uint  `gorm:"primaryKey;index" json:"group_id"`
	Agent   Agent `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Group   Group `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (AgentGroup) TableName() string { return "agent_groups" }
