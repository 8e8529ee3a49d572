package validation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSanitize_StripsMarkup(t *testing.T) {
	got := Sanitize("<script>alert(1)</script>Clean")
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("markup survived sanitization: %q", got)
	}
	if !strings.Contains(got, "Clean") {
		t.Errorf("legitimate text lost: %q", got)
	}
}

func TestSanitize_TrimsWhitespace(t *testing.T) {
	if got := Sanitize("  morning run  "); got != "morning run" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestName_Empty(t *testing.T) {
	if _, err := Name("name", "   "); err == nil {
		t.Error("expected error for blank name")
	}
	// markup-only input reduces to empty
	if _, err := Name("name", "<b></b>"); err == nil {
		t.Error("expected error for markup-only name")
	}
}

func TestName_TooLong(t *testing.T) {
	if _, err := Name("name", strings.Repeat("a", MaxNameLength+1)); err == nil {
		t.Error("expected error for overlong name")
	}
}

func TestName_LengthCountsRunesNotBytes(t *testing.T) {
	// 120 multi-byte runes are within the character limit
	name, err := Name("name", strings.Repeat("日", MaxNameLength))
	if err != nil {
		t.Fatalf("multi-byte name at the limit must pass: %v", err)
	}
	if name != strings.Repeat("日", MaxNameLength) {
		t.Errorf("name altered: %q", name)
	}
	if _, err := Name("name", strings.Repeat("日", MaxNameLength+1)); err == nil {
		t.Error("expected error one rune past the limit")
	}
}

func TestName_ReportsField(t *testing.T) {
	_, err := Name("name", "")
	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if vErr.Field != "name" {
		t.Errorf("expected field %q, got %q", "name", vErr.Field)
	}
}

func TestCategory(t *testing.T) {
	for _, v := range []string{"morning", "evening", "work", "health", "mindfulness", "custom"} {
		if err := Category(v); err != nil {
			t.Errorf("Category(%q): %v", v, err)
		}
	}
	for _, v := range []string{"Morning", "night", "", "MORNING"} {
		if err := Category(v); err == nil {
			t.Errorf("Category(%q): expected rejection, values are never coerced", v)
		}
	}
}

func TestType(t *testing.T) {
	for _, v := range []string{"habit", "routine", "sequence"} {
		if err := Type(v); err != nil {
			t.Errorf("Type(%q): %v", v, err)
		}
	}
	if err := Type("task"); err == nil {
		t.Error("expected rejection of unknown type")
	}
}

func TestFrequency(t *testing.T) {
	if err := Frequency("daily", ""); err != nil {
		t.Errorf("Frequency(daily): %v", err)
	}
	if err := Frequency("custom", "3d"); err != nil {
		t.Errorf("Frequency(custom, 3d): %v", err)
	}
	if err := Frequency("custom", "whenever"); err == nil {
		t.Error("expected rejection of malformed custom expression")
	}
	if err := Frequency("hourly", ""); err == nil {
		t.Error("expected rejection of unknown frequency")
	}
}

func TestScale(t *testing.T) {
	for _, v := range []int{1, 5, 10} {
		v := v
		if err := Scale("moodBefore", &v); err != nil {
			t.Errorf("Scale(%d): %v", v, err)
		}
	}
	for _, v := range []int{0, 11, -3} {
		v := v
		if err := Scale("moodBefore", &v); err == nil {
			t.Errorf("Scale(%d): expected out-of-range error", v)
		}
	}
	if err := Scale("moodBefore", nil); err != nil {
		t.Errorf("nil scale must pass: %v", err)
	}
}

func TestDifficulty(t *testing.T) {
	if err := Difficulty(3); err != nil {
		t.Errorf("Difficulty(3): %v", err)
	}
	if err := Difficulty(0); err == nil {
		t.Error("expected error for difficulty 0")
	}
	if err := Difficulty(6); err == nil {
		t.Error("expected error for difficulty 6")
	}
}

func TestStepOrder(t *testing.T) {
	if err := StepOrder(0); err != nil {
		t.Errorf("StepOrder(0): %v", err)
	}
	if err := StepOrder(-1); err == nil {
		t.Error("expected error for negative order")
	}
}

func TestReminderTime(t *testing.T) {
	for _, v := range []string{"07:30", "23:59", "0:05"} {
		v := v
		if err := ReminderTime(&v); err != nil {
			t.Errorf("ReminderTime(%q): %v", v, err)
		}
	}
	for _, v := range []string{"24:00", "7:75", "noon", ""} {
		v := v
		if err := ReminderTime(&v); err == nil {
			t.Errorf("ReminderTime(%q): expected error", v)
		}
	}
}

func TestTags_DeduplicatesCaseSensitively(t *testing.T) {
	got := Tags([]string{"focus", "Focus", "focus", "  deep<b></b>work  ", ""})
	want := []string{"focus", "Focus", "deepwork"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
