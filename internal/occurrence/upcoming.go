package occurrence

import (
	"iter"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// NameLookup resolves a student id to a display name.
type NameLookup func(studentID int64) string

// NamesFrom adapts an id->name map, falling back to model.UnknownStudentName.
func NamesFrom(names map[int64]string) NameLookup {
	return func(id int64) string {
		if name, ok := names[id]; ok {
			return name
		}
		return model.UnknownStudentName
	}
}

// InRange merges the occurrences of all schedules inside [from, to] into one
// list sorted by (date, time). Ties keep the schedules' order.
func InRange(schedules []model.Schedule, names NameLookup, from, to calendar.Date) []model.Occurrence {
	var all []model.Occurrence
	for i := range schedules {
		for _, occ := range Generate(&schedules[i], from, to) {
			if names != nil {
				occ.StudentName = names(occ.StudentID)
			}
			all = append(all, occ)
		}
	}
	Sort(all)
	return all
}

// Window returns the inclusive window [today, today+days].
func Window(today calendar.Date, days int) (calendar.Date, calendar.Date) {
	if days < 0 {
		days = 0
	}
	return today, today.AddDays(days)
}

// Upcoming lists occurrences from today through today+days.
func Upcoming(schedules []model.Schedule, names NameLookup, today calendar.Date, days int) []model.Occurrence {
	from, to := Window(today, days)
	return InRange(schedules, names, from, to)
}

// Seq is Upcoming as a sequence. Every range over it recomputes the list from
// the inputs, so it can be consumed partially and restarted.
func Seq(schedules []model.Schedule, names NameLookup, today calendar.Date, days int) iter.Seq[model.Occurrence] {
	return func(yield func(model.Occurrence) bool) {
		for _, occ := range Upcoming(schedules, names, today, days) {
			if !yield(occ) {
				return
			}
		}
	}
}

// Take returns at most n items of seq.
func Take(seq iter.Seq[model.Occurrence], n int) []model.Occurrence {
	if n <= 0 {
		return nil
	}
	out := make([]model.Occurrence, 0, n)
	for occ := range seq {
		out = append(out, occ)
		if len(out) == n {
			break
		}
	}
	return out
}

// WeekOf returns the Monday..Sunday window containing d.
func WeekOf(d calendar.Date) (calendar.Date, calendar.Date) {
	monday := calendar.MondayOf(d)
	return monday, monday.AddDays(6)
}

// MonthOf returns the first..last day window of d's month.
func MonthOf(d calendar.Date) (calendar.Date, calendar.Date) {
	first := calendar.NewDate(d.Year(), d.Month(), 1)
	return first, calendar.NewDate(d.Year(), d.Month()+1, 1).AddDays(-1)
}
