package model

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
)

// Occurrence is one concrete dated lesson derived from a Schedule. It is
// computed on demand and never stored.
type Occurrence struct {
	ScheduleID          int64          `json:"schedule_id"`
	StudentID           int64          `json:"student_id"`
	StudentName         string         `json:"student_name,omitempty"`
	Date                calendar.Date  `json:"date"`
	Time                string         `json:"time"`
	DurationMinutes     int            `json:"duration_minutes"`
	Notes               string         `json:"notes,omitempty"`
	IsRecurringInstance bool           `json:"is_recurring_instance"`
	IsRescheduled       bool           `json:"is_rescheduled"`
	OriginalDate        *calendar.Date `json:"original_date,omitempty"`
}

// Key identifies the occurrence within its schedule by the date it was
// originally generated for.
func (o *Occurrence) Key() string {
	date := o.Date
	if o.OriginalDate != nil {
		date = *o.OriginalDate
	}
	return fmt.Sprintf("%d:%s", o.ScheduleID, date)
}

// Start returns the occurrence start in loc.
func (o *Occurrence) Start(loc *time.Location) time.Time {
	return o.Date.At(o.Time, loc)
}

// End returns Start plus the duration.
func (o *Occurrence) End(loc *time.Location) time.Time {
	return o.Start(loc).Add(time.Duration(o.DurationMinutes) * time.Minute)
}
