// Package streak computes current and best streaks from a ritual's
// completion history. It is a pure calculation: "now" is a parameter and the
// same inputs always produce the same output.
package streak

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
)

// Policy maps instants onto frequency periods. Start normalizes a time to
// its period's start; Next advances a period start to the following period.
type Policy struct {
	Start func(t time.Time) time.Time
	Next  func(start time.Time) time.Time
}

// PolicyFor builds the period policy for a frequency. For custom
// frequencies the expression must match "<N>d", "<N>w" or "<N>m" with N >= 1.
func PolicyFor(frequency, customExpr string) (Policy, error) {
	switch frequency {
	case models.FrequencyDaily:
		return Policy{
			Start: startOfDay,
			Next:  func(s time.Time) time.Time { return s.AddDate(0, 0, 1) },
		}, nil
	case models.FrequencyWeekly:
		return Policy{
			Start: startOfWeek,
			Next:  func(s time.Time) time.Time { return s.AddDate(0, 0, 7) },
		}, nil
	case models.FrequencyMonthly:
		return Policy{
			Start: startOfMonth,
			Next:  func(s time.Time) time.Time { return s.AddDate(0, 1, 0) },
		}, nil
	case models.FrequencyCustom:
		return customPolicy(customExpr)
	default:
		return Policy{}, fmt.Errorf("unknown frequency %q", frequency)
	}
}

// ParseCustomExpr validates a custom frequency expression and returns its
// interval count and unit.
func ParseCustomExpr(expr string) (int, byte, error) {
	if len(expr) < 2 {
		return 0, 0, fmt.Errorf("invalid custom frequency %q", expr)
	}
	unit := expr[len(expr)-1]
	if unit != 'd' && unit != 'w' && unit != 'm' {
		return 0, 0, fmt.Errorf("invalid custom frequency unit in %q", expr)
	}
	n, err := strconv.Atoi(strings.TrimSpace(expr[:len(expr)-1]))
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("invalid custom frequency interval in %q", expr)
	}
	return n, unit, nil
}

func customPolicy(expr string) (Policy, error) {
	n, unit, err := ParseCustomExpr(expr)
	if err != nil {
		return Policy{}, err
	}

	// Custom periods are anchored at the Unix epoch so bucketing stays
	// stable across recomputations.
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

	var next func(time.Time) time.Time
	var start func(time.Time) time.Time
	switch unit {
	case 'd':
		next = func(s time.Time) time.Time { return s.AddDate(0, 0, n) }
		start = func(t time.Time) time.Time {
			days := int(startOfDay(t).Sub(epoch).Hours() / 24)
			return epoch.AddDate(0, 0, (days/n)*n)
		}
	case 'w':
		next = func(s time.Time) time.Time { return s.AddDate(0, 0, 7*n) }
		start = func(t time.Time) time.Time {
			days := int(startOfWeek(t).Sub(epoch).Hours() / 24)
			// epoch is a Thursday; align to the Monday before it
			const epochOffset = 3
			weeks := (days + epochOffset) / 7
			return epoch.AddDate(0, 0, (weeks/n)*n*7-epochOffset)
		}
	case 'm':
		next = func(s time.Time) time.Time { return s.AddDate(0, n, 0) }
		start = func(t time.Time) time.Time {
			months := (t.Year()-1970)*12 + int(t.Month()) - 1
			aligned := (months / n) * n
			return time.Date(1970+aligned/12, time.Month(aligned%12+1), 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return Policy{Start: start, Next: next}, nil
}

// Calculate returns (current, best) streak counts for the given completion
// timestamps under the policy. A period counts as satisfied when at least one
// completion falls inside it. The current streak is the run of consecutive
// satisfied periods ending at the period containing now; if the latest
// completion falls in an earlier period the current streak is zero. The best
// streak is the longest run anywhere in the history and never depends on now.
func Calculate(p Policy, completions []time.Time, now time.Time) (current, best int) {
	if len(completions) == 0 {
		return 0, 0
	}

	seen := make(map[int64]time.Time, len(completions))
	for _, t := range completions {
		s := p.Start(t.UTC())
		seen[s.Unix()] = s
	}
	starts := make([]time.Time, 0, len(seen))
	for _, s := range seen {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	run := 1
	best = 1
	for i := 1; i < len(starts); i++ {
		if p.Next(starts[i-1]).Equal(starts[i]) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	// run now holds the length of the trailing run ending at the latest
	// satisfied period; it only counts as current if that period is still
	// the active one.
	if starts[len(starts)-1].Before(p.Start(now.UTC())) {
		return 0, best
	}
	return run, best
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startOfWeek normalizes to the Monday of t's calendar week.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
