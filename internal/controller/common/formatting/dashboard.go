package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// FormatDebts список долгов по ученикам со сводкой
func FormatDebts(stats *model.Stats, debts []model.StudentDebt, currency string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "💰 Не оплачено: %s за %d %s",
		FormatMoney(stats.UnpaidAmount, currency), stats.UnpaidLessons, PluralizeLessons(stats.UnpaidLessons))
	fmt.Fprintf(&sb, "\n📈 В этом месяце: %s, %d %s",
		FormatMoney(stats.MonthlyEarnings, currency), stats.MonthlyLessons, PluralizeLessons(stats.MonthlyLessons))

	if len(debts) == 0 {
		sb.WriteString("\n\n🎉 Долгов нет.")
		return sb.String()
	}

	sb.WriteString("\n")
	for _, d := range debts {
		fmt.Fprintf(&sb, "\n👤 %s (#%d): %s, %d %s",
			d.Name, d.StudentID, FormatMoney(d.UnpaidAmount, currency), d.UnpaidCount, PluralizeLessons(d.UnpaidCount))
	}

	return sb.String()
}

// FormatStudents список учеников с долгами
func FormatStudents(students []model.StudentSummary, currency string) string {
	if len(students) == 0 {
		return "📭 Учеников пока нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 %d %s:\n", len(students), PluralizeStudents(len(students)))
	for _, st := range students {
		fmt.Fprintf(&sb, "\n#%d %s, %s/ч, %d %s",
			st.ID, st.Name, FormatMoneyShort(st.HourlyRate, currency), st.LessonCount, PluralizeLessons(st.LessonCount))
		if st.UnpaidCount > 0 {
			fmt.Fprintf(&sb, ", долг %s", FormatMoney(st.UnpaidAmount, currency))
		}
	}
	return sb.String()
}
