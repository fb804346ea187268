// Package occurrence expands schedules into dated lesson occurrences.
//
// Everything here is a pure function of its arguments: no storage access, no
// clock reads, no mutation of the schedules passed in. Calls with overlapping
// windows are safe and return identical results for identical inputs.
package occurrence

import (
	"sort"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// Generate returns the occurrences of s dated inside the closed window
// [from, to], ordered by date and time.
//
// For recurring schedules a weekday date d is a valid occurrence when
// d is on one of DaysOfWeek, lies in a week at or after the anchor week,
// the week offset is a multiple of the interval, and d is not after EndDate.
// A skip exception on a valid date removes it. A reschedule exception removes
// it and adds an occurrence on the target date; targets are matched against
// the window on their own, so a move into the window shows up even when the
// original date lies outside of it.
func Generate(s *model.Schedule, from, to calendar.Date) []model.Occurrence {
	if s == nil || to.Before(from) {
		return nil
	}

	if !s.IsRecurring {
		return oneOff(s, from, to)
	}

	days := daySet(s)
	if len(days) == 0 {
		// Нет дней недели (старые данные без day_of_week) - ничего не генерируем
		return nil
	}
	if !s.HasAnchor() {
		// Без created_at не от чего считать недели
		return nil
	}

	anchor := s.Anchor()
	interval := s.EffectiveInterval()

	isValid := func(d calendar.Date) bool {
		if !days[calendar.DayName(d)] {
			return false
		}
		if s.EndDate != nil && d.After(*s.EndDate) {
			return false
		}
		weeks := calendar.WeeksBetweenMondays(anchor, d)
		return weeks >= 0 && weeks%interval == 0
	}

	excepted := make(map[string]bool, len(s.Exceptions))
	for _, exc := range s.Exceptions {
		excepted[exc.Date.String()] = true
	}

	var out []model.Occurrence

	// Обычный проход по дням окна. Если расписание закончилось до начала окна,
	// проход не нужен, но перенесённые занятия ниже всё равно проверяются.
	if s.EndDate == nil || !s.EndDate.Before(from) {
		for d := from; !d.After(to); d = d.AddDays(1) {
			if !isValid(d) {
				continue
			}
			if excepted[d.String()] {
				// skip и reschedule одинаково убирают исходную дату
				continue
			}
			out = append(out, instance(s, d, s.Time))
		}
	}

	// Переносы индексируются по дате назначения, независимо от окна исходной даты
	for i := range s.Exceptions {
		exc := &s.Exceptions[i]
		if !exc.IsReschedule() || exc.RescheduleTo == nil {
			continue
		}
		if !exc.RescheduleTo.Between(from, to) || !isValid(exc.Date) {
			continue
		}

		clock := s.Time
		if exc.RescheduleTime != "" {
			clock = exc.RescheduleTime
		}
		occ := instance(s, *exc.RescheduleTo, clock)
		original := exc.Date
		occ.IsRescheduled = true
		occ.OriginalDate = &original
		out = append(out, occ)
	}

	Sort(out)
	return out
}

func oneOff(s *model.Schedule, from, to calendar.Date) []model.Occurrence {
	if s.Date == nil || !s.Date.Between(from, to) {
		return nil
	}
	occ := instance(s, *s.Date, s.Time)
	occ.IsRecurringInstance = false
	return []model.Occurrence{occ}
}

func instance(s *model.Schedule, date calendar.Date, clock string) model.Occurrence {
	return model.Occurrence{
		ScheduleID:          s.ID,
		StudentID:           s.StudentID,
		Date:                date,
		Time:                clock,
		DurationMinutes:     s.DurationMinutes,
		Notes:               s.Notes,
		IsRecurringInstance: s.IsRecurring,
	}
}

// daySet normalizes the schedule's weekday names without touching s.
func daySet(s *model.Schedule) map[string]bool {
	names := s.DaysOfWeek
	if len(names) == 0 && s.LegacyDayOfWeek != "" {
		names = []string{s.LegacyDayOfWeek}
	}

	set := make(map[string]bool, len(names))
	for _, name := range names {
		if w, ok := calendar.ParseDayName(name); ok {
			set[calendar.WeekdayName(w)] = true
		}
	}
	return set
}

// Sort orders occurrences by (date, time), keeping the input order for ties.
func Sort(occ []model.Occurrence) {
	sort.SliceStable(occ, func(i, j int) bool {
		if c := occ[i].Date.Compare(occ[j].Date); c != 0 {
			return c < 0
		}
		return occ[i].Time < occ[j].Time
	})
}
