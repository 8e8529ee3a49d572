package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ritual categories
const (
	CategoryMorning     = "morning"
	CategoryEvening     = "evening"
	CategoryWork        = "work"
	CategoryHealth      = "health"
	CategoryMindfulness = "mindfulness"
	CategoryCustom      = "custom"
)

// Ritual types
const (
	TypeHabit    = "habit"
	TypeRoutine  = "routine"
	TypeSequence = "sequence"
)

// Ritual frequencies
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

type Ritual struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Name             string         `json:"name" gorm:"not null"`
	Description      string         `json:"description"`
	Category         string         `json:"category" gorm:"not null"` // morning, evening, work, health, mindfulness, custom
	Type             string         `json:"type" gorm:"not null"`     // habit, routine, sequence
	Tags             StringList     `json:"tags" gorm:"type:text"`
	Frequency        string         `json:"frequency" gorm:"not null"` // daily, weekly, monthly, custom
	CustomFrequency  string         `json:"customFrequency"`
	TargetDuration   *int           `json:"targetDuration"` // minutes
	ReminderTime     *string        `json:"reminderTime"`   // HH:MM
	ReminderEnabled  bool           `json:"reminderEnabled" gorm:"default:false"`
	DifficultyLevel  int            `json:"difficultyLevel" gorm:"default:1"`
	StreakCount      int            `json:"streakCount" gorm:"default:0"`
	BestStreak       int            `json:"bestStreak" gorm:"default:0"`
	TotalCompletions int            `json:"totalCompletions" gorm:"default:0"`
	IsActive         bool           `json:"isActive" gorm:"default:true"`
	Version          int            `json:"-" gorm:"default:0"` // optimistic lock for completion recording
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
	Steps            []RitualStep   `json:"steps,omitempty" gorm:"foreignKey:RitualID"`
}

func (r *Ritual) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Ritual DTOs
type CreateRitualRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	Category        string   `json:"category" validate:"required"`
	Type            string   `json:"type" validate:"required"`
	Tags            []string `json:"tags"`
	Frequency       string   `json:"frequency" validate:"required"`
	CustomFrequency string   `json:"customFrequency"`
	TargetDuration  *int     `json:"targetDuration"`
	ReminderTime    *string  `json:"reminderTime"`
	ReminderEnabled *bool    `json:"reminderEnabled"`
	DifficultyLevel *int     `json:"difficultyLevel"`
	Steps           []CreateStepRequest `json:"steps"`
}

// UpdateRitualRequest carries a partial patch. Derived fields (streak count,
// best streak, total completions) have no representation here and so cannot
// be set by clients.
type UpdateRitualRequest struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Category        *string   `json:"category"`
	Type            *string   `json:"type"`
	Tags            *[]string `json:"tags"`
	Frequency       *string   `json:"frequency"`
	CustomFrequency *string   `json:"customFrequency"`
	TargetDuration  *int      `json:"targetDuration"`
	ReminderTime    *string   `json:"reminderTime"`
	ReminderEnabled *bool     `json:"reminderEnabled"`
	DifficultyLevel *int      `json:"difficultyLevel"`
	IsActive        *bool     `json:"isActive"`
}
