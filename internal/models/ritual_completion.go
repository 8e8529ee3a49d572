package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RitualCompletion is an append-only event. Rows are never updated after
// creation; all derived ritual state is recomputed from this log.
type RitualCompletion struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RitualID       uuid.UUID      `json:"ritualId" gorm:"type:uuid;index;not null"`
	UserID         uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	CompletedAt    time.Time      `json:"completedAt" gorm:"index;not null"`
	Duration       *int           `json:"duration"` // minutes
	MoodBefore     *int           `json:"moodBefore"`
	MoodAfter      *int           `json:"moodAfter"`
	EnergyBefore   *int           `json:"energyBefore"`
	EnergyAfter    *int           `json:"energyAfter"`
	Notes          string         `json:"notes"`
	CompletedSteps UUIDList       `json:"completedSteps" gorm:"type:text"`
	SkippedSteps   UUIDList       `json:"skippedSteps" gorm:"type:text"`
	CreatedAt      time.Time      `json:"createdAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (rc *RitualCompletion) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}

// Completion DTOs
type CompleteRitualRequest struct {
	Duration       *int     `json:"duration"`
	MoodBefore     *int     `json:"moodBefore"`
	MoodAfter      *int     `json:"moodAfter"`
	EnergyBefore   *int     `json:"energyBefore"`
	EnergyAfter    *int     `json:"energyAfter"`
	Notes          string   `json:"notes"`
	CompletedSteps []string `json:"completedSteps"`
	SkippedSteps   []string `json:"skippedSteps"`
}
