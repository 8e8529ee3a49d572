package models

// APIResponse is the envelope every endpoint returns: a success flag, an
// optional error message, and an optional payload.
type APIResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type RitualPage struct {
	Items      []Ritual `json:"items"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Total      int64    `json:"total"`
	TotalPages int      `json:"totalPages"`
}

type CompletionPage struct {
	Items      []RitualCompletion `json:"items"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int64              `json:"total"`
	TotalPages int                `json:"totalPages"`
}

// AnalyticsSummary aggregates a ritual's completions over a lookback window.
// Averages are nil when no completion in the window carries the field.
type AnalyticsSummary struct {
	RitualID          string         `json:"ritualId"`
	WindowDays        int            `json:"windowDays"`
	TotalCompletions  int            `json:"totalCompletions"`
	AvgDuration       *float64       `json:"avgDuration"`
	AvgMoodBefore     *float64       `json:"avgMoodBefore"`
	AvgMoodAfter      *float64       `json:"avgMoodAfter"`
	AvgEnergyBefore   *float64       `json:"avgEnergyBefore"`
	AvgEnergyAfter    *float64       `json:"avgEnergyAfter"`
	MoodImprovement   *float64       `json:"moodImprovement"`
	EnergyImprovement *float64       `json:"energyImprovement"`
	CompletionsByDay  map[string]int `json:"completionsByDay"` // YYYY-MM-DD -> count, dense over the window
}
