package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/occurrence"
)

const (
	productID = "-//tutor_bot//lessons//EN"
	uidDomain = "tutor-bot"

	icsLocalLayout = "20060102T150405"
	icsUTCLayout   = "20060102T150405Z"
)

// uidNamespace делает UID событий стабильными между выгрузками
var uidNamespace = uuid.MustParse("6f0d7f5e-2b1c-4c55-9a57-5b8f0f6c1a40")

// ICSOptions параметры выгрузки календаря
type ICSOptions struct {
	Name     string
	Location *time.Location
	Now      time.Time // DTSTAMP
}

func (o ICSOptions) withDefaults() ICSOptions {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Name == "" {
		o.Name = "Lessons"
	}
	return o
}

// OccurrencesICS выгружает конкретные занятия, по событию на каждое
func OccurrencesICS(occ []model.Occurrence, opts ICSOptions) string {
	opts = opts.withDefaults()
	cal := newCalendar(opts)

	for i := range occ {
		o := &occ[i]
		ev := cal.AddEvent(eventUID(o.Key()))
		ev.SetDtStampTime(opts.Now)
		setTime(ev, ics.ComponentPropertyDtStart, o.Start(opts.Location))
		setTime(ev, ics.ComponentPropertyDtEnd, o.End(opts.Location))
		ev.SetSummary(summary(o.StudentName))

		var desc []string
		if o.Notes != "" {
			desc = append(desc, o.Notes)
		}
		if o.IsRescheduled && o.OriginalDate != nil {
			desc = append(desc, "Moved from "+o.OriginalDate.String())
		}
		if len(desc) > 0 {
			ev.SetDescription(strings.Join(desc, "\n"))
		}
	}

	return cal.Serialize()
}

// SchedulesICS выгружает определения расписаний: регулярные с RRULE и EXDATE,
// переносы отдельными событиями, разовые как обычные события.
func SchedulesICS(schedules []model.Schedule, names occurrence.NameLookup, opts ICSOptions) (string, error) {
	opts = opts.withDefaults()
	if names == nil {
		names = occurrence.NamesFrom(nil)
	}
	cal := newCalendar(opts)

	for i := range schedules {
		s := &schedules[i]
		name := names(s.StudentID)

		if !s.IsRecurring {
			if s.Date == nil || s.Date.IsZero() {
				continue
			}
			addSingle(cal, fmt.Sprintf("%d:%s", s.ID, s.Date), *s.Date, s.Time, s, name, "", opts)
			continue
		}

		if len(scheduleWeekdays(s)) == 0 || !s.HasAnchor() {
			continue
		}
		r, err := ScheduleRule(s, opts.Location)
		if err != nil {
			return "", err
		}

		ev := cal.AddEvent(eventUID(fmt.Sprintf("schedule:%d", s.ID)))
		ev.SetDtStampTime(opts.Now)
		start := r.OrigOptions.Dtstart
		setTime(ev, ics.ComponentPropertyDtStart, start)
		setTime(ev, ics.ComponentPropertyDtEnd, start.Add(time.Duration(s.DurationMinutes)*time.Minute))
		ev.SetSummary(summary(name))
		if s.Notes != "" {
			ev.SetDescription(s.Notes)
		}
		ev.AddRrule(r.OrigOptions.RRuleString())

		for _, exc := range s.Exceptions {
			setTime(ev, ics.ComponentPropertyExdate, exc.Date.At(s.Time, opts.Location))

			if exc.IsReschedule() && exc.RescheduleTo != nil {
				clock := exc.RescheduleTime
				if clock == "" {
					clock = s.Time
				}
				addSingle(cal, fmt.Sprintf("%d:%s", s.ID, exc.Date), *exc.RescheduleTo, clock, s, name,
					"Moved from "+exc.Date.String(), opts)
			}
		}
	}

	return cal.Serialize(), nil
}

func newCalendar(opts ICSOptions) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(opts.Name)
	cal.SetXWRCalName(opts.Name)
	if opts.Location != time.UTC {
		cal.SetXWRTimezone(opts.Location.String())
	}
	return cal
}

func addSingle(cal *ics.Calendar, key string, date calendar.Date, clock string, s *model.Schedule, name, note string, opts ICSOptions) {
	start := date.At(clock, opts.Location)

	ev := cal.AddEvent(eventUID(key))
	ev.SetDtStampTime(opts.Now)
	setTime(ev, ics.ComponentPropertyDtStart, start)
	setTime(ev, ics.ComponentPropertyDtEnd, start.Add(time.Duration(s.DurationMinutes)*time.Minute))
	ev.SetSummary(summary(name))

	desc := strings.TrimSpace(strings.Join([]string{s.Notes, note}, "\n"))
	if desc != "" {
		ev.SetDescription(desc)
	}
}

// setTime пишет время в UTC, если пояс UTC, иначе локальное с TZID:
// так BYDAY правила совпадает с днём недели занятия у репетитора
func setTime(ev *ics.VEvent, prop ics.ComponentProperty, t time.Time) {
	loc := t.Location()
	if loc == time.UTC {
		ev.AddProperty(prop, t.UTC().Format(icsUTCLayout))
		return
	}
	ev.AddProperty(prop, t.Format(icsLocalLayout), ics.WithTZID(loc.String()))
}

func eventUID(key string) string {
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@" + uidDomain
}

func summary(name string) string {
	if name == "" {
		name = model.UnknownStudentName
	}
	return "Lesson: " + name
}
