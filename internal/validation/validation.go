// Package validation normalizes and checks ritual input before it reaches
// storage. It is the only place field values are rewritten; everything
// downstream either accepts or rejects.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/streak"
)

const (
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
	MaxNotesLength       = 2000
	MinDifficulty        = 1
	MaxDifficulty        = 5
	MinScale             = 1
	MaxScale             = 10
)

// Error names the field that failed validation.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	categories = map[string]bool{
		models.CategoryMorning:     true,
		models.CategoryEvening:     true,
		models.CategoryWork:        true,
		models.CategoryHealth:      true,
		models.CategoryMindfulness: true,
		models.CategoryCustom:      true,
	}
	ritualTypes = map[string]bool{
		models.TypeHabit:    true,
		models.TypeRoutine:  true,
		models.TypeSequence: true,
	}
	frequencies = map[string]bool{
		models.FrequencyDaily:   true,
		models.FrequencyWeekly:  true,
		models.FrequencyMonthly: true,
		models.FrequencyCustom:  true,
	}

	tagPattern          = regexp.MustCompile(`<[^>]*>`)
	reminderTimePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// Sanitize strips markup from free text and trims surrounding whitespace.
// Tag contents survive but nothing executable does.
func Sanitize(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// Name sanitizes and bounds a ritual or step name.
func Name(field, raw string) (string, error) {
	name := Sanitize(raw)
	if name == "" {
		return "", fieldErr(field, "must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fieldErr(field, "must be at most %d characters", MaxNameLength)
	}
	return name, nil
}

// FreeText sanitizes and bounds an optional text field.
func FreeText(field, raw string, max int) (string, error) {
	text := Sanitize(raw)
	if utf8.RuneCountInString(text) > max {
		return "", fieldErr(field, "must be at most %d characters", max)
	}
	return text, nil
}

// Category rejects anything outside the declared literal set. No coercion.
func Category(v string) error {
	if !categories[v] {
		return fieldErr("category", "unknown value %q", v)
	}
	return nil
}

func Type(v string) error {
	if !ritualTypes[v] {
		return fieldErr("type", "unknown value %q", v)
	}
	return nil
}

// Frequency checks the frequency literal and, for custom, its expression.
func Frequency(freq, customExpr string) error {
	if !frequencies[freq] {
		return fieldErr("frequency", "unknown value %q", freq)
	}
	if freq == models.FrequencyCustom {
		if _, _, err := streak.ParseCustomExpr(customExpr); err != nil {
			return fieldErr("customFrequency", "must match <N>d, <N>w or <N>m")
		}
	}
	return nil
}

// Scale checks a 1-10 bounded value such as mood or energy. Nil passes.
func Scale(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < MinScale || *v > MaxScale {
		return fieldErr(field, "must be between %d and %d", MinScale, MaxScale)
	}
	return nil
}

func Difficulty(v int) error {
	if v < MinDifficulty || v > MaxDifficulty {
		return fieldErr("difficultyLevel", "must be between %d and %d", MinDifficulty, MaxDifficulty)
	}
	return nil
}

// Duration checks an optional positive minute count.
func Duration(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 {
		return fieldErr(field, "must not be negative")
	}
	return nil
}

func StepOrder(v int) error {
	if v < 0 {
		return fieldErr("order", "must be a non-negative integer")
	}
	return nil
}

func ReminderTime(v *string) error {
	if v == nil {
		return nil
	}
	if !reminderTimePattern.MatchString(*v) {
		return fieldErr("reminderTime", "must be HH:MM")
	}
	return nil
}

// Tags sanitizes each tag and deduplicates case-sensitively, preserving
// first-seen order.
func Tags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		tag := Sanitize(t)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
