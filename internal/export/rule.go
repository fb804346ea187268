package export

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// ScheduleRule строит RRULE регулярного расписания: WEEKLY с интервалом,
// неделя начинается с понедельника, первый DTSTART в якорной неделе.
// Исключения сюда не входят, см. ScheduleSet.
func ScheduleRule(s *model.Schedule, loc *time.Location) (*rrule.RRule, error) {
	if s == nil || !s.IsRecurring {
		return nil, fmt.Errorf("schedule rule: not a recurring schedule")
	}
	if loc == nil {
		loc = time.UTC
	}

	days := scheduleWeekdays(s)
	if len(days) == 0 {
		return nil, fmt.Errorf("schedule rule: schedule %d has no days", s.ID)
	}
	if !s.HasAnchor() {
		return nil, fmt.Errorf("schedule rule: schedule %d has no created_at", s.ID)
	}

	first := firstDay(s.Anchor(), days)
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Interval:  s.EffectiveInterval(),
		Wkst:      rrule.MO,
		Dtstart:   first.At(s.Time, loc),
		Byweekday: make([]rrule.Weekday, 0, len(days)),
	}
	for _, wd := range days {
		opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
	}
	if s.EndDate != nil && !s.EndDate.IsZero() {
		opt.Until = s.EndDate.At("23:59", loc).Add(59 * time.Second)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("schedule rule: %w", err)
	}
	return r, nil
}

// ScheduleSet правило расписания вместе с EXDATE для всех дат-исключений
func ScheduleSet(s *model.Schedule, loc *time.Location) (*rrule.Set, error) {
	r, err := ScheduleRule(s, loc)
	if err != nil {
		return nil, err
	}

	set := &rrule.Set{}
	set.RRule(r)
	for _, exc := range s.Exceptions {
		set.ExDate(exc.Date.At(s.Time, loc))
	}
	return set, nil
}

func scheduleWeekdays(s *model.Schedule) []time.Weekday {
	names := s.DaysOfWeek
	if len(names) == 0 && s.LegacyDayOfWeek != "" {
		names = []string{s.LegacyDayOfWeek}
	}

	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, name := range names {
		wd, ok := calendar.ParseDayName(name)
		if !ok || seen[wd] {
			continue
		}
		seen[wd] = true
		days = append(days, wd)
	}
	return days
}

// firstDay самый ранний из дней расписания в неделе, начинающейся с monday
func firstDay(monday calendar.Date, days []time.Weekday) calendar.Date {
	best := 6
	for _, wd := range days {
		offset := (int(wd) + 6) % 7
		best = min(best, offset)
	}
	return monday.AddDays(best)
}
