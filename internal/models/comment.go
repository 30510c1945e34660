package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to exactly one task and is immutable once created.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"taskId"`
	AuthorID  string    `gorm:"size:36;not null" json:"authorId"`
	Text      string    `gorm:"type:varchar(1000);not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
