package services

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// DuenessChecker decides whether a recurring expense needs a new occurrence.
// last is the date of the most recent occurrence (the template's own date
// when none was generated yet) and start is the template date.
type DuenessChecker interface {
	IsDue(last, now, start core.Date) bool
}

// WeeklyChecker is due once seven days have passed since the last occurrence.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(last, now, _ core.Date) bool {
	if last.IsZero() {
		return true
	}
	return !now.Before(last.AddDays(7))
}

// MonthlyChecker is due in a later month than the last occurrence once the
// template's day of month is reached. Days past the end of a short month
// fall on its last day.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(last, now, start core.Date) bool {
	if last.IsZero() {
		return true
	}
	if !now.After(last) {
		return false
	}
	if last.Year() == now.Year() && last.Month() == now.Month() {
		return false
	}

	target := start.Day()
	if lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(); target > lastDay {
		target = lastDay
	}
	return now.Day() >= target
}

var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
}

// GetDuenessChecker returns the checker registered for frequency.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown recurring frequency: %q", frequency)
	}
	return checker, nil
}
