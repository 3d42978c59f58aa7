package peakwindow

import (
	"fmt"
	"strings"
	"time"
)

// Schedule defines one peak time range on a set of weekdays. DayOfWeek
// uses 0-6 (Sunday=0, as time.Weekday) and accepts lists and ranges,
// e.g. "1-5" or "0,6". Start and End are "HH:MM" in 24h format and both
// bounds are inclusive.
type Schedule struct {
	DayOfWeek string `yaml:"dayOfWeek"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
}

// Window answers whether a point in time falls inside a configured
// high-demand window. The zero Window contains nothing.
type Window struct {
	schedules []Schedule
}

// Default is the fixed day/night boundary used when no schedules are
// configured: every day, 08:00 through 18:59.
func Default() *Window {
	w, _ := New([]Schedule{{DayOfWeek: "0-6", Start: "08:00", End: "18:59"}})
	return w
}

// New creates a window from validated schedules.
func New(schedules []Schedule) (*Window, error) {
	for i, s := range schedules {
		if err := validateSchedule(s); err != nil {
			return nil, fmt.Errorf("invalid schedule at index %d: %v", i, err)
		}
	}
	return &Window{schedules: schedules}, nil
}

// Contains reports whether t is within any peak schedule.
func (w *Window) Contains(t time.Time) bool {
	day := int(t.Weekday())
	clock := t.Format("15:04")

	for _, s := range w.schedules {
		if !containsDay(s.DayOfWeek, day) {
			continue
		}
		if clock >= s.Start && clock <= s.End {
			return true
		}
	}
	return false
}

// ContainsHour reports whether a whole hour of day (0-23) overlaps a
// peak schedule on the given weekday. Dataset rows carry hour-of-day
// rather than full timestamps, so this is the check used for records.
func (w *Window) ContainsHour(day time.Weekday, hour int) bool {
	at := time.Date(2000, 1, 2+int(day), hour, 0, 0, 0, time.UTC) // 2000-01-02 is a Sunday
	return w.Contains(at)
}

func validateSchedule(s Schedule) error {
	if _, err := expandDays(s.DayOfWeek); err != nil {
		return err
	}
	for _, v := range []string{s.Start, s.End} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("invalid time format: %s (must be HH:MM in 24h format)", v)
		}
	}
	if s.End < s.Start {
		return fmt.Errorf("end %s is before start %s", s.End, s.Start)
	}
	return nil
}

// containsDay checks membership of a weekday in a day expression like
// "1-5" or "0,6".
func containsDay(expr string, day int) bool {
	days, err := expandDays(expr)
	if err != nil {
		return false
	}
	return days[day]
}

func expandDays(expr string) (map[int]bool, error) {
	days := make(map[int]bool)
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if from, to, found := strings.Cut(part, "-"); found {
			lo, err := parseDay(from)
			if err != nil {
				return nil, err
			}
			hi, err := parseDay(to)
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, fmt.Errorf("invalid day range: %s", part)
			}
			for d := lo; d <= hi; d++ {
				days[d] = true
			}
			continue
		}
		d, err := parseDay(part)
		if err != nil {
			return nil, err
		}
		days[d] = true
	}
	return days, nil
}

func parseDay(s string) (int, error) {
	if len(s) != 1 || s[0] < '0' || s[0] > '6' {
		return 0, fmt.Errorf("invalid day of week: %s (must be 0-6)", s)
	}
	return int(s[0] - '0'), nil
}
