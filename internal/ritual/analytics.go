package ritual

import (
	"time"

	"github.com/google/uuid"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365
)

// Analyze summarizes a ritual's completions over the last windowDays days.
// It reads only; derived ritual state is untouched. A window with no
// completions yields a zeroed summary with every day mapped to 0.
func (s *Service) Analyze(ritualID, requesterID uuid.UUID, windowDays int) (*models.AnalyticsSummary, error) {
	r, err := getOwned(s.db, ritualID, requesterID, false)
	if err != nil {
		return nil, err
	}
	if windowDays < 1 {
		windowDays = DefaultWindowDays
	}
	if windowDays > MaxWindowDays {
		windowDays = MaxWindowDays
	}

	now := s.now().UTC()
	windowStart := startOfUTCDay(now).AddDate(0, 0, -(windowDays - 1))

	var completions []models.RitualCompletion
	if err := s.db.Where("ritual_id = ? AND completed_at >= ? AND completed_at <= ?", r.ID, windowStart, now).
		Order("completed_at ASC").
		Find(&completions).Error; err != nil {
		return nil, err
	}

	byDay := make(map[string]int, windowDays)
	for d := windowStart; !d.After(now); d = d.AddDate(0, 0, 1) {
		byDay[d.Format("2006-01-02")] = 0
	}

	var duration, moodBefore, moodAfter, energyBefore, energyAfter accumulator
	for _, c := range completions {
		byDay[c.CompletedAt.UTC().Format("2006-01-02")]++
		duration.add(c.Duration)
		moodBefore.add(c.MoodBefore)
		moodAfter.add(c.MoodAfter)
		energyBefore.add(c.EnergyBefore)
		energyAfter.add(c.EnergyAfter)
	}

	return &models.AnalyticsSummary{
		RitualID:          r.ID.String(),
		WindowDays:        windowDays,
		TotalCompletions:  len(completions),
		AvgDuration:       duration.mean(),
		AvgMoodBefore:     moodBefore.mean(),
		AvgMoodAfter:      moodAfter.mean(),
		AvgEnergyBefore:   energyBefore.mean(),
		AvgEnergyAfter:    energyAfter.mean(),
		MoodImprovement:   delta(moodAfter.mean(), moodBefore.mean()),
		EnergyImprovement: delta(energyAfter.mean(), energyBefore.mean()),
		CompletionsByDay:  byDay,
	}, nil
}

// accumulator averages optional fields, skipping completions that omit them.
type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v *int) {
	if v == nil {
		return
	}
	a.sum += float64(*v)
	a.count++
}

func (a *accumulator) mean() *float64 {
	if a.count == 0 {
		return nil
	}
	m := a.sum / float64(a.count)
	return &m
}

func delta(after, before *float64) *float64 {
	if after == nil || before == nil {
		return nil
	}
	d := *after - *before
	return &d
}

func startOfUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
