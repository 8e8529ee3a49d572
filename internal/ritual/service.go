// Package ritual implements the tracking engine: ritual and step CRUD,
// completion recording with derived streak state, and windowed analytics.
// Every operation is scoped to the requesting user.
package ritual

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/validation"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// WithClock overrides the service clock. Tests use it to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// getOwned loads a ritual and enforces ownership. Missing and foreign
// rituals are indistinguishable to the caller.
func getOwned(tx *gorm.DB, id, requesterID uuid.UUID, preloadSteps bool) (*models.Ritual, error) {
	q := tx
	if preloadSteps {
		q = q.Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		})
	}
	var r models.Ritual
	if err := q.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.UserID != requesterID {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *Service) Create(ownerID uuid.UUID, req models.CreateRitualRequest) (*models.Ritual, error) {
	name, err := validation.Name("name", req.Name)
	if err != nil {
		return nil, err
	}
	desc, err := validation.FreeText("description", req.Description, validation.MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	if err := validation.Category(req.Category); err != nil {
		return nil, err
	}
	if err := validation.Type(req.Type); err != nil {
		return nil, err
	}
	if err := validation.Frequency(req.Frequency, req.CustomFrequency); err != nil {
		return nil, err
	}
	if err := validation.Duration("targetDuration", req.TargetDuration); err != nil {
		return nil, err
	}
	if err := validation.ReminderTime(req.ReminderTime); err != nil {
		return nil, err
	}

	difficulty := validation.MinDifficulty
	if req.DifficultyLevel != nil {
		if err := validation.Difficulty(*req.DifficultyLevel); err != nil {
			return nil, err
		}
		difficulty = *req.DifficultyLevel
	}

	steps, err := buildSteps(req.Steps)
	if err != nil {
		return nil, err
	}

	r := models.Ritual{
		UserID:          ownerID,
		Name:            name,
		Description:     desc,
		Category:        req.Category,
		Type:            req.Type,
		Tags:            validation.Tags(req.Tags),
		Frequency:       req.Frequency,
		CustomFrequency: req.CustomFrequency,
		TargetDuration:  req.TargetDuration,
		ReminderTime:    req.ReminderTime,
		DifficultyLevel: difficulty,
		IsActive:        true,
		Steps:           steps,
	}
	if req.ReminderEnabled != nil {
		r.ReminderEnabled = *req.ReminderEnabled
	}

	if err := s.db.Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func buildSteps(reqs []models.CreateStepRequest) ([]models.RitualStep, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	orders := make(map[int]bool, len(reqs))
	steps := make([]models.RitualStep, 0, len(reqs))
	for _, sr := range reqs {
		step, err := buildStep(sr)
		if err != nil {
			return nil, err
		}
		if orders[step.Order] {
			return nil, &validation.Error{Field: "order", Message: "duplicate step order"}
		}
		orders[step.Order] = true
		steps = append(steps, *step)
	}
	return steps, nil
}

func buildStep(req models.CreateStepRequest) (*models.RitualStep, error) {
	name, err := validation.Name("name", req.Name)
	if err != nil {
		return nil, err
	}
	desc, err := validation.FreeText("description", req.Description, validation.MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	criteria, err := validation.FreeText("criteria", req.Criteria, validation.MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	if err := validation.StepOrder(req.Order); err != nil {
		return nil, err
	}
	if err := validation.Duration("duration", req.Duration); err != nil {
		return nil, err
	}
	step := models.RitualStep{
		Name:        name,
		Description: desc,
		Order:       req.Order,
		Duration:    req.Duration,
		Criteria:    criteria,
	}
	if req.IsRequired != nil {
		step.IsRequired = *req.IsRequired
	}
	return &step, nil
}

func (s *Service) Get(id, requesterID uuid.UUID) (*models.Ritual, error) {
	return getOwned(s.db, id, requesterID, true)
}

func (s *Service) List(ownerID uuid.UUID, page, limit int) (*models.RitualPage, error) {
	page, limit = clampPage(page, limit)

	var total int64
	if err := s.db.Model(&models.Ritual{}).Where("user_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, err
	}

	items := []models.Ritual{}
	if err := s.db.Where("user_id = ?", ownerID).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &models.RitualPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update applies a partial patch. Only patched columns are written, under
// the same version check Complete uses, so a concurrent completion's
// derived-state write is never reverted. A frequency change recomputes the
// streak counters from the completion log under the new policy.
func (s *Service) Update(id, requesterID uuid.UUID, req models.UpdateRitualRequest) (*models.Ritual, error) {
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		var updated *models.Ritual
		err := s.db.Transaction(func(tx *gorm.DB) error {
			r, err := getOwned(tx, id, requesterID, true)
			if err != nil {
				return err
			}

			updates := map[string]interface{}{}

			if req.Name != nil {
				name, err := validation.Name("name", *req.Name)
				if err != nil {
					return err
				}
				r.Name = name
				updates["name"] = name
			}
			if req.Description != nil {
				desc, err := validation.FreeText("description", *req.Description, validation.MaxDescriptionLength)
				if err != nil {
					return err
				}
				r.Description = desc
				updates["description"] = desc
			}
			if req.Category != nil {
				if err := validation.Category(*req.Category); err != nil {
					return err
				}
				r.Category = *req.Category
				updates["category"] = r.Category
			}
			if req.Type != nil {
				if err := validation.Type(*req.Type); err != nil {
					return err
				}
				r.Type = *req.Type
				updates["type"] = r.Type
			}
			if req.Frequency != nil || req.CustomFrequency != nil {
				freq := r.Frequency
				custom := r.CustomFrequency
				if req.Frequency != nil {
					freq = *req.Frequency
				}
				if req.CustomFrequency != nil {
					custom = *req.CustomFrequency
				}
				if err := validation.Frequency(freq, custom); err != nil {
					return err
				}
				policyChanged := freq != r.Frequency || custom != r.CustomFrequency
				r.Frequency = freq
				r.CustomFrequency = custom
				updates["frequency"] = freq
				updates["custom_frequency"] = custom

				// streak counters are a function of history and policy;
				// a policy change invalidates them until recomputed
				if policyChanged {
					current, best, err := recomputeStreaks(tx, r, s.now())
					if err != nil {
						return err
					}
					r.StreakCount = current
					r.BestStreak = best
					updates["streak_count"] = current
					updates["best_streak"] = best
				}
			}
			if req.Tags != nil {
				r.Tags = validation.Tags(*req.Tags)
				updates["tags"] = r.Tags
			}
			if req.TargetDuration != nil {
				if err := validation.Duration("targetDuration", req.TargetDuration); err != nil {
					return err
				}
				r.TargetDuration = req.TargetDuration
				updates["target_duration"] = req.TargetDuration
			}
			if req.ReminderTime != nil {
				if err := validation.ReminderTime(req.ReminderTime); err != nil {
					return err
				}
				r.ReminderTime = req.ReminderTime
				updates["reminder_time"] = req.ReminderTime
			}
			if req.ReminderEnabled != nil {
				r.ReminderEnabled = *req.ReminderEnabled
				updates["reminder_enabled"] = r.ReminderEnabled
			}
			if req.DifficultyLevel != nil {
				if err := validation.Difficulty(*req.DifficultyLevel); err != nil {
					return err
				}
				r.DifficultyLevel = *req.DifficultyLevel
				updates["difficulty_level"] = r.DifficultyLevel
			}
			if req.IsActive != nil {
				r.IsActive = *req.IsActive
				updates["is_active"] = r.IsActive
			}

			updates["version"] = r.Version + 1

			res := tx.Model(&models.Ritual{}).
				Where("id = ? AND version = ?", r.ID, r.Version).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errVersionConflict
			}
			r.Version++
			updated = r
			return nil
		})
		if errors.Is(err, errVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrConflictRetryExhausted
}

// Delete deactivates a ritual, keeping its steps and completion log
// queryable. A hard delete removes the ritual together with its steps and
// completions.
func (s *Service) Delete(id, requesterID uuid.UUID, hard bool) error {
	r, err := getOwned(s.db, id, requesterID, false)
	if err != nil {
		return err
	}

	if !hard {
		return s.db.Model(r).Update("is_active", false).Error
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ritual_id = ?", r.ID).Delete(&models.RitualCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ritual_id = ?", r.ID).Delete(&models.RitualStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(r).Error
	})
}

// AddStep inserts a step. Inserting at an occupied order shifts that step
// and everything after it down by one, so orders stay unique. The ownership
// check runs before step validation so a foreign caller only ever sees
// not-found.
func (s *Service) AddStep(ritualID, requesterID uuid.UUID, req models.CreateStepRequest) (*models.RitualStep, error) {
	var step *models.RitualStep
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := getOwned(tx, ritualID, requesterID, false)
		if err != nil {
			return err
		}
		step, err = buildStep(req)
		if err != nil {
			return err
		}
		if err := shiftOrders(tx, r.ID, step.Order); err != nil {
			return err
		}
		step.RitualID = r.ID
		return tx.Create(step).Error
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

func (s *Service) UpdateStep(ritualID, stepID, requesterID uuid.UUID, req models.UpdateStepRequest) (*models.RitualStep, error) {
	var step models.RitualStep
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := getOwned(tx, ritualID, requesterID, false)
		if err != nil {
			return err
		}
		if err := tx.First(&step, "id = ? AND ritual_id = ?", stepID, r.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if req.Name != nil {
			name, err := validation.Name("name", *req.Name)
			if err != nil {
				return err
			}
			step.Name = name
		}
		if req.Description != nil {
			desc, err := validation.FreeText("description", *req.Description, validation.MaxDescriptionLength)
			if err != nil {
				return err
			}
			step.Description = desc
		}
		if req.Criteria != nil {
			criteria, err := validation.FreeText("criteria", *req.Criteria, validation.MaxDescriptionLength)
			if err != nil {
				return err
			}
			step.Criteria = criteria
		}
		if req.Duration != nil {
			if err := validation.Duration("duration", req.Duration); err != nil {
				return err
			}
			step.Duration = req.Duration
		}
		if req.IsRequired != nil {
			step.IsRequired = *req.IsRequired
		}
		if req.Order != nil && *req.Order != step.Order {
			if err := validation.StepOrder(*req.Order); err != nil {
				return err
			}
			if err := shiftOrders(tx, r.ID, *req.Order); err != nil {
				return err
			}
			step.Order = *req.Order
		}

		return tx.Save(&step).Error
	})
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (s *Service) RemoveStep(ritualID, stepID, requesterID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		r, err := getOwned(tx, ritualID, requesterID, false)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND ritual_id = ?", stepID, r.ID).Delete(&models.RitualStep{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func shiftOrders(tx *gorm.DB, ritualID uuid.UUID, from int) error {
	return tx.Model(&models.RitualStep{}).
		Where("ritual_id = ? AND step_order >= ?", ritualID, from).
		Update("step_order", gorm.Expr("step_order + 1")).Error
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
