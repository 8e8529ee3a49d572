package ritual

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/streak"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/validation"
)

// maxWriteRetries bounds the optimistic-lock retry loops on ritual writes.
const maxWriteRetries = 5

// recomputeStreaks reruns the pure calculator over the ritual's full
// completion log. Best streak never decreases past its stored value.
func recomputeStreaks(tx *gorm.DB, r *models.Ritual, now time.Time) (current, best int, err error) {
	var timestamps []time.Time
	if err := tx.Model(&models.RitualCompletion{}).
		Where("ritual_id = ?", r.ID).
		Order("completed_at ASC").
		Pluck("completed_at", &timestamps).Error; err != nil {
		return 0, 0, err
	}
	policy, err := streak.PolicyFor(r.Frequency, r.CustomFrequency)
	if err != nil {
		return 0, 0, err
	}
	current, best = streak.Calculate(policy, timestamps, now)
	if r.BestStreak > best {
		best = r.BestStreak
	}
	return current, best, nil
}

// Complete appends a completion event and recomputes the ritual's streak
// counters from the full log, in one transaction. Concurrent completions of
// the same ritual are serialized by a version check on the ritual row; a
// losing transaction rolls back and retries with fresh state. Ownership is
// checked before any field validation so a foreign caller only ever sees
// not-found.
func (s *Service) Complete(ritualID, requesterID uuid.UUID, req models.CompleteRitualRequest) (*models.RitualCompletion, error) {
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		var completion *models.RitualCompletion
		err := s.db.Transaction(func(tx *gorm.DB) error {
			r, err := getOwned(tx, ritualID, requesterID, true)
			if err != nil {
				return err
			}
			if !r.IsActive {
				return ErrRitualInactive
			}
			if err := validateCompletion(&req); err != nil {
				return err
			}
			notes, err := validation.FreeText("notes", req.Notes, validation.MaxNotesLength)
			if err != nil {
				return err
			}
			if err := checkStepRefs(r, req.CompletedSteps, req.SkippedSteps); err != nil {
				return err
			}

			c := models.RitualCompletion{
				RitualID:       r.ID,
				UserID:         requesterID,
				CompletedAt:    s.now().UTC(),
				Duration:       req.Duration,
				MoodBefore:     req.MoodBefore,
				MoodAfter:      req.MoodAfter,
				EnergyBefore:   req.EnergyBefore,
				EnergyAfter:    req.EnergyAfter,
				Notes:          notes,
				CompletedSteps: models.UUIDList(req.CompletedSteps),
				SkippedSteps:   models.UUIDList(req.SkippedSteps),
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}

			current, best, err := recomputeStreaks(tx, r, s.now())
			if err != nil {
				return err
			}
			var total int64
			if err := tx.Model(&models.RitualCompletion{}).
				Where("ritual_id = ?", r.ID).
				Count(&total).Error; err != nil {
				return err
			}

			res := tx.Model(&models.Ritual{}).
				Where("id = ? AND version = ?", r.ID, r.Version).
				Updates(map[string]interface{}{
					"streak_count":      current,
					"best_streak":       best,
					"total_completions": total,
					"version":           r.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Someone else committed first; roll back the append too.
				return errVersionConflict
			}

			completion = &c
			return nil
		})
		if errors.Is(err, errVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return completion, nil
	}

	return nil, ErrConflictRetryExhausted
}

// ListCompletions pages through a ritual's completion log, newest first.
func (s *Service) ListCompletions(ritualID, requesterID uuid.UUID, page, limit int) (*models.CompletionPage, error) {
	r, err := getOwned(s.db, ritualID, requesterID, false)
	if err != nil {
		return nil, err
	}
	page, limit = clampPage(page, limit)

	var total int64
	if err := s.db.Model(&models.RitualCompletion{}).Where("ritual_id = ?", r.ID).Count(&total).Error; err != nil {
		return nil, err
	}

	items := []models.RitualCompletion{}
	if err := s.db.Where("ritual_id = ?", r.ID).
		Order("completed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &models.CompletionPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

func validateCompletion(req *models.CompleteRitualRequest) error {
	if err := validation.Duration("duration", req.Duration); err != nil {
		return err
	}
	for field, v := range map[string]*int{
		"moodBefore":   req.MoodBefore,
		"moodAfter":    req.MoodAfter,
		"energyBefore": req.EnergyBefore,
		"energyAfter":  req.EnergyAfter,
	} {
		if err := validation.Scale(field, v); err != nil {
			return err
		}
	}
	return nil
}

// checkStepRefs verifies every referenced step id belongs to the ritual and
// that no id appears as both completed and skipped.
func checkStepRefs(r *models.Ritual, completed, skipped []string) error {
	known := make(map[string]bool, len(r.Steps))
	for _, step := range r.Steps {
		known[step.ID.String()] = true
	}
	seen := make(map[string]bool, len(completed))
	for _, id := range completed {
		if !known[id] {
			return ErrInvalidStepReference
		}
		seen[id] = true
	}
	for _, id := range skipped {
		if !known[id] {
			return ErrInvalidStepReference
		}
		if seen[id] {
			return &validation.Error{Field: "skippedSteps", Message: "step listed as both completed and skipped"}
		}
	}
	return nil
}
