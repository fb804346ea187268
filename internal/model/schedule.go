package model

import (
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
)

// Frequency is a named recurrence interval offered by the forms.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"   // каждую неделю
	FrequencyBiweekly Frequency = "biweekly" // раз в две недели
	FrequencyMonthly  Frequency = "monthly"  // раз в четыре недели
	FrequencyCustom   Frequency = "custom"   // интервал задан явно
)

// Interval returns the number of weeks for a named frequency, 0 for custom or unknown.
func (f Frequency) Interval() int {
	switch f {
	case FrequencyWeekly:
		return 1
	case FrequencyBiweekly:
		return 2
	case FrequencyMonthly:
		return 4
	default:
		return 0
	}
}

// Schedule is either a recurring weekly booking or a single future one.
type Schedule struct {
	ID          int64 `json:"id" yaml:"id"`
	StudentID   int64 `json:"student_id" yaml:"student_id"`
	IsRecurring bool  `json:"is_recurring" yaml:"is_recurring"`

	// recurring
	DaysOfWeek []string       `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty"`
	Frequency  Frequency      `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Interval   int            `json:"interval,omitempty" yaml:"interval,omitempty"` // недели между занятиями
	EndDate    *calendar.Date `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Exceptions []Exception    `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`

	// Older records carry a single day here instead of DaysOfWeek.
	LegacyDayOfWeek string `json:"day_of_week,omitempty" yaml:"day_of_week,omitempty"`

	// one-off
	Date *calendar.Date `json:"date,omitempty" yaml:"date,omitempty"`

	Time            string    `json:"time" yaml:"time"` // "HH:MM"
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Notes           string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// Normalize folds legacy and missing fields into the canonical shape:
// a lowercase DaysOfWeek list and a positive Interval for recurring schedules.
func (s *Schedule) Normalize() {
	if !s.IsRecurring {
		return
	}

	if len(s.DaysOfWeek) == 0 && s.LegacyDayOfWeek != "" {
		s.DaysOfWeek = []string{s.LegacyDayOfWeek}
	}
	s.LegacyDayOfWeek = ""

	days := make([]string, 0, len(s.DaysOfWeek))
	seen := make(map[string]bool, len(s.DaysOfWeek))
	for _, day := range s.DaysOfWeek {
		day = strings.ToLower(strings.TrimSpace(day))
		if day == "" || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	s.DaysOfWeek = days

	if s.Interval < 1 {
		s.Interval = s.Frequency.Interval()
	}
	if s.Interval < 1 {
		s.Interval = 1
	}
}

// EffectiveInterval is Interval clamped to at least one week.
func (s *Schedule) EffectiveInterval() int {
	if s.Interval < 1 {
		return 1
	}
	return s.Interval
}

// HasAnchor reports whether the creation timestamp is known. Records saved
// without created_at have no recurrence anchor.
func (s *Schedule) HasAnchor() bool {
	return !s.CreatedAt.IsZero()
}

// Anchor is the Monday of the week the schedule was created in.
func (s *Schedule) Anchor() calendar.Date {
	return calendar.MondayOf(calendar.FromTime(s.CreatedAt))
}

// HasDay reports whether the recurring schedule runs on the named weekday.
func (s *Schedule) HasDay(day string) bool {
	for _, d := range s.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// ExceptionFor returns the exception keyed by the original date, if any.
func (s *Schedule) ExceptionFor(date calendar.Date) (*Exception, bool) {
	for i := range s.Exceptions {
		if s.Exceptions[i].Date.Equal(date) {
			return &s.Exceptions[i], true
		}
	}
	return nil, false
}

// SetException stores exc, replacing an existing one for the same date.
func (s *Schedule) SetException(exc Exception) {
	for i := range s.Exceptions {
		if s.Exceptions[i].Date.Equal(exc.Date) {
			s.Exceptions[i] = exc
			return
		}
	}
	s.Exceptions = append(s.Exceptions, exc)
}

// RemoveException drops the exception for date and reports whether one existed.
func (s *Schedule) RemoveException(date calendar.Date) bool {
	for i := range s.Exceptions {
		if s.Exceptions[i].Date.Equal(date) {
			s.Exceptions = append(s.Exceptions[:i], s.Exceptions[i+1:]...)
			return true
		}
	}
	return false
}

// ScheduleView is a Schedule with the student's display name.
type ScheduleView struct {
	Schedule
	StudentName string `json:"student_name"`
}
