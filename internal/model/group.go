package model

import "time"

type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserGroup links a user to a group. Deleting either parent removes the row.
type UserGroup struct {
	UserID  uint  `gorm:"primaryKey;index" json:"user_id"`
	GroupID uint  `gorm:"primaryKey;index" json:"group_id"`
	User    User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Group   Group `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (UserGroup) TableName() string { return "user_groups" }
