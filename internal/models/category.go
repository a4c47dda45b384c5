package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Name          string    `json:"name" gorm:"not null;index"`
	SchemaVersion int       `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	stampVersion(&c.SchemaVersion)
	return nil
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}
