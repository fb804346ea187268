package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// FormatRecurrence описывает периодичность: "каждую неделю" / "каждые 2 недели"
func FormatRecurrence(interval int) string {
	if interval <= 1 {
		return "каждую неделю"
	}
	return fmt.Sprintf("каждые %d %s", interval, PluralizeWeeks(interval))
}

// FormatDays перечисляет дни расписания коротко: "Пн, Ср"
func FormatDays(days []string) string {
	names := make([]string, 0, len(days))
	for _, day := range days {
		wd, ok := calendar.ParseDayName(day)
		if !ok {
			names = append(names, day)
			continue
		}
		names = append(names, GetWeekdayShortName(wd))
	}
	return strings.Join(names, ", ")
}

// FormatSchedule одна строка списка /schedules
func FormatSchedule(s *model.ScheduleView) string {
	var sb strings.Builder

	if s.IsRecurring {
		fmt.Fprintf(&sb, "🔁 #%d %s: %s %s, %s (%s)",
			s.ID, s.StudentName, FormatDays(s.DaysOfWeek), s.Time,
			FormatRecurrence(s.EffectiveInterval()), FormatDuration(s.DurationMinutes))
		if s.EndDate != nil {
			fmt.Fprintf(&sb, ", до %s", FormatDate(*s.EndDate))
		}
		if n := len(s.Exceptions); n > 0 {
			fmt.Fprintf(&sb, "\n   исключений: %d", n)
			for _, exc := range s.Exceptions {
				sb.WriteString("\n   ")
				sb.WriteString(FormatException(exc))
			}
		}
	} else {
		date := "?"
		if s.Date != nil {
			date = FormatDate(*s.Date)
		}
		fmt.Fprintf(&sb, "📅 #%d %s: %s %s (%s)",
			s.ID, s.StudentName, date, s.Time, FormatDuration(s.DurationMinutes))
	}

	if s.Notes != "" {
		fmt.Fprintf(&sb, "\n   📝 %s", s.Notes)
	}

	return sb.String()
}

// FormatException описывает исключение: пропуск или перенос
func FormatException(exc model.Exception) string {
	if exc.IsReschedule() && exc.RescheduleTo != nil {
		target := FormatDate(*exc.RescheduleTo)
		if exc.RescheduleTime != "" {
			target += " " + exc.RescheduleTime
		}
		return fmt.Sprintf("↪️ %s → %s", FormatDate(exc.Date), target)
	}
	return fmt.Sprintf("⏭ %s пропуск", FormatDate(exc.Date))
}

// FormatScheduleList список расписаний
func FormatScheduleList(schedules []model.ScheduleView) string {
	if len(schedules) == 0 {
		return "📭 Расписаний пока нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 %d %s:\n", len(schedules), PluralizeSchedules(len(schedules)))
	for i := range schedules {
		sb.WriteString("\n")
		sb.WriteString(FormatSchedule(&schedules[i]))
	}
	return sb.String()
}
