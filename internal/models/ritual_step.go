package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RitualStep struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RitualID    uuid.UUID      `json:"ritualId" gorm:"type:uuid;index;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Order       int            `json:"order" gorm:"column:step_order;not null"`
	Duration    *int           `json:"duration"` // minutes
	IsRequired  bool           `json:"isRequired" gorm:"default:false"`
	Criteria    string         `json:"criteria"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s *RitualStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Step DTOs
type CreateStepRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Duration    *int   `json:"duration"`
	IsRequired  *bool  `json:"isRequired"`
	Criteria    string `json:"criteria"`
}

type UpdateStepRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Duration    *int    `json:"duration"`
	IsRequired  *bool   `json:"isRequired"`
	Criteria    *string `json:"criteria"`
}
