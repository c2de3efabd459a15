package model

import "time"

type AgentFile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AgentID     uint      `gorm:"not null;index;uniqueIndex:uix_agent_file" json:"agent_id"`
	Filename    string    `gorm:"size:255;not null;uniqueIndex:uix_agent_file" json:"filename"`
	ContentType string    `gorm:"size:100;not null" json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`

	Agent Agent `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (AgentFile) TableName() string { return "agent_files" }
