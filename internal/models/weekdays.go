package models

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

// Weekdays is a set of days. A nil or empty set means every day.
type Weekdays []time.Weekday

// ParseWeekdays parses a comma separated list of weekday names.
// An empty string (or "every day") yields nil, which applies to all days.
func ParseWeekdays(s string) (Weekdays, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	return WeekdaysFromNames(strings.Split(s, ","))
}

// WeekdaysFromNames builds a set from names, skipping blanks and duplicates.
func WeekdaysFromNames(names []string) (Weekdays, error) {
	seen := make(map[time.Weekday]struct{}, len(names))
	var days Weekdays

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if isEveryDay(name) {
			return nil, nil
		}

		wd, ok := parseWeekdayFlexible(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}

		if _, dup := seen[wd]; dup {
			continue
		}
		seen[wd] = struct{}{}
		days = append(days, wd)
	}

	if len(days) == 0 {
		return nil, nil
	}

	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	return days, nil
}

// Includes reports whether the set applies to wd. An empty set applies to every day.
func (w Weekdays) Includes(wd time.Weekday) bool {
	if len(w) == 0 {
		return true
	}

	return w.Explicitly(wd)
}

// Explicitly reports whether wd is a member of the set. An empty set has no members.
func (w Weekdays) Explicitly(wd time.Weekday) bool {
	for _, d := range w {
		if d == wd {
			return true
		}
	}

	return false
}

// Names returns English weekday names, nil for an empty set.
func (w Weekdays) Names() []string {
	if len(w) == 0 {
		return nil
	}

	names := make([]string, 0, len(w))
	for _, d := range w {
		names = append(names, d.String())
	}

	return names
}

func isEveryDay(s string) bool {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "every day", "everyday", "all", "*":
		return true
	}

	return false
}

// parseWeekdayFlexible accepts full and short English names and the
// numbers 0..6 (0 = Sunday) or 7 for Sunday.
func parseWeekdayFlexible(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n <= 6 {
			return time.Weekday(n), true
		}
		if n == 7 {
			return time.Sunday, true
		}
		return 0, false
	}

	switch s {
	case "sun", "sunday":
		return time.Sunday, true
	case "mon", "monday":
		return time.Monday, true
	case "tue", "tues", "tuesday":
		return time.Tuesday, true
	case "wed", "wednesday":
		return time.Wednesday, true
	case "thu", "thur", "thursday":
		return time.Thursday, true
	case "fri", "friday":
		return time.Friday, true
	case "sat", "saturday":
		return time.Saturday, true
	default:
		return 0, false
	}
}
