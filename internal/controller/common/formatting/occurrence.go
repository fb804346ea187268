package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// FormatOccurrence одна строка занятия без даты: "18:00 Liam (1 ч) #7"
func FormatOccurrence(o *model.Occurrence) string {
	var sb strings.Builder

	icon := "📅"
	if o.IsRecurringInstance {
		icon = "🔁"
	}
	if o.IsRescheduled {
		icon = "↪️"
	}

	fmt.Fprintf(&sb, "%s %s %s (%s) #%d", icon, o.Time, o.StudentName, FormatDuration(o.DurationMinutes), o.ScheduleID)
	if o.IsRescheduled && o.OriginalDate != nil {
		fmt.Fprintf(&sb, ", перенесено с %s", FormatDate(*o.OriginalDate))
	}
	if o.Notes != "" {
		fmt.Fprintf(&sb, "\n      📝 %s", o.Notes)
	}

	return sb.String()
}

// FormatOccurrenceList группирует занятия по дням; occurrences уже отсортированы
func FormatOccurrenceList(title string, occurrences []model.Occurrence) string {
	if len(occurrences) == 0 {
		return title + "\n\n📭 Занятий нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%d %s", title, len(occurrences), PluralizeLessons(len(occurrences)))

	var current calendar.Date
	for i := range occurrences {
		o := &occurrences[i]
		if i == 0 || !o.Date.Equal(current) {
			current = o.Date
			fmt.Fprintf(&sb, "\n\n%s", FormatDateWithWeekday(current))
		}
		sb.WriteString("\n  ")
		sb.WriteString(FormatOccurrence(o))
	}

	return sb.String()
}

// FormatDigest утреннее сообщение с занятиями на сегодня
func FormatDigest(day calendar.Date, occurrences []model.Occurrence) string {
	return FormatOccurrenceList(fmt.Sprintf("☀️ Сегодня, %s", FormatDate(day)), occurrences)
}

// FormatLesson подтверждение записанного занятия
func FormatLesson(l *model.LessonView, currency string) string {
	status := "не оплачено"
	if l.IsPaid {
		status = "оплачено"
	}
	return fmt.Sprintf("✅ Занятие #%d записано\n\n👤 %s\n📅 %s\n⏱ %s\n💰 %s (%s)",
		l.ID, l.StudentName, FormatDate(l.Date), FormatDuration(l.DurationMinutes),
		FormatMoney(l.Amount(), currency), status)
}
