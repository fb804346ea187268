package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
)

// Callback data кнопок под занятиями: done:<schedule_id>:<YYYY-MM-DD>
const (
	ActionDone = "done"
	ActionSkip = "skip"
)

// OccurrenceAction разобранные данные кнопки занятия
type OccurrenceAction struct {
	Action     string
	ScheduleID int64
	Date       calendar.Date
}

// Data собирает callback data; влезает в лимит Telegram в 64 байта
func (a OccurrenceAction) Data() string {
	return fmt.Sprintf("%s:%d:%s", a.Action, a.ScheduleID, a.Date)
}

// ParseOccurrenceAction разбирает "done:7:2024-01-10"
func ParseOccurrenceAction(data string) (OccurrenceAction, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return OccurrenceAction{}, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}

	action := parts[0]
	if action != ActionDone && action != ActionSkip {
		return OccurrenceAction{}, fmt.Errorf("%w: unknown action %q", ErrInvalidFormat, action)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return OccurrenceAction{}, fmt.Errorf("%w: bad schedule id %q", ErrInvalidFormat, parts[1])
	}

	date, err := calendar.ParseDate(parts[2])
	if err != nil {
		return OccurrenceAction{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return OccurrenceAction{Action: action, ScheduleID: id, Date: date}, nil
}
