package calendar

import (
	"fmt"
	"strings"
	"time"
)

var dayNames = [...]string{
	"sunday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
}

// WeekDays lists day names Monday first, the order used in forms and listings.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// MondayOf returns the Monday of the Monday-start week containing d.
// Sunday maps back six days.
func MondayOf(d Date) Date {
	back := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		back = 6
	}
	return d.AddDays(-back)
}

// WeeksBetweenMondays counts whole weeks from MondayOf(a) to MondayOf(b);
// negative when b lies in an earlier week.
func WeeksBetweenMondays(a, b Date) int {
	days := MondayOf(b).DaysSince(MondayOf(a))
	if days%7 != 0 {
		panic(fmt.Sprintf("calendar: %d days between Mondays %s and %s is not whole weeks",
			days, MondayOf(a), MondayOf(b)))
	}
	return days / 7
}

// DayName returns the lowercase English weekday name of d.
func DayName(d Date) string {
	return dayNames[d.Weekday()]
}

// WeekdayName returns the lowercase name of a time.Weekday.
func WeekdayName(w time.Weekday) string {
	if w < time.Sunday || w > time.Saturday {
		return ""
	}
	return dayNames[w]
}

// ParseDayName accepts a weekday name in any case, full or three-letter.
func ParseDayName(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	for i, name := range dayNames {
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// IsDayName reports whether s is one of the seven canonical lowercase names.
func IsDayName(s string) bool {
	for _, name := range dayNames {
		if s == name {
			return true
		}
	}
	return false
}
