package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

// maxWindowDays верхняя граница окна для /upcoming и /ics
const maxWindowDays = 90

// commandArgs возвращает аргументы команды без самой команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", common.ErrUsage, s)
	}
	return id, nil
}

// parseDate принимает YYYY-MM-DD и ДД.ММ.ГГГГ
func parseDate(s string) (calendar.Date, error) {
	if d, err := calendar.ParseDate(s); err == nil {
		return d, nil
	}
	if d, err := calendar.ParseDate(reorderDotted(s)); err == nil {
		return d, nil
	}
	return calendar.Date{}, fmt.Errorf("%w: bad date %q", common.ErrUsage, s)
}

func reorderDotted(s string) string {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return s
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// parseDays окно в днях; без аргумента - значение по умолчанию
func parseDays(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days < 1 || days > maxWindowDays {
		return 0, fmt.Errorf("%w: days must be 1..%d", common.ErrUsage, maxWindowDays)
	}
	return days, nil
}

// occurrenceArgs "<id> <date> [остаток...]"
type occurrenceArgs struct {
	ScheduleID int64
	Date       calendar.Date
	Rest       []string
}

func parseOccurrenceArgs(args []string) (occurrenceArgs, error) {
	if len(args) < 2 {
		return occurrenceArgs{}, fmt.Errorf("%w: expected <id> <date>", common.ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return occurrenceArgs{}, err
	}
	date, err := parseDate(args[1])
	if err != nil {
		return occurrenceArgs{}, err
	}
	return occurrenceArgs{ScheduleID: id, Date: date, Rest: args[2:]}, nil
}

// moveArgs "<id> <date> <new-date> [HH:MM]"
type moveArgs struct {
	ScheduleID int64
	Date       calendar.Date
	Target     calendar.Date
	Time       string
}

func parseMoveArgs(args []string) (moveArgs, error) {
	base, err := parseOccurrenceArgs(args)
	if err != nil {
		return moveArgs{}, err
	}
	if len(base.Rest) < 1 || len(base.Rest) > 2 {
		return moveArgs{}, fmt.Errorf("%w: expected <id> <date> <new-date> [HH:MM]", common.ErrUsage)
	}

	target, err := parseDate(base.Rest[0])
	if err != nil {
		return moveArgs{}, err
	}

	m := moveArgs{ScheduleID: base.ScheduleID, Date: base.Date, Target: target}
	if len(base.Rest) == 2 {
		if !service.IsClock(base.Rest[1]) {
			return moveArgs{}, fmt.Errorf("%w: bad time %q", common.ErrUsage, base.Rest[1])
		}
		m.Time = base.Rest[1]
	}
	return m, nil
}
