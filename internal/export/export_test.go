package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/occurrence"
)

var created = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func date(s string) calendar.Date {
	return calendar.MustParseDate(s)
}

func datePtr(s string) *calendar.Date {
	d := date(s)
	return &d
}

func biweekly() model.Schedule {
	return model.Schedule{
		ID: 10, StudentID: 1, IsRecurring: true,
		DaysOfWeek: []string{"wednesday"}, Interval: 2,
		Time: "18:00", DurationMinutes: 60, Notes: "JLPT N3 prep", CreatedAt: created,
	}
}

// ruleDates даты занятий по правилу за окно [from, to]
func ruleDates(t *testing.T, s *model.Schedule, from, to calendar.Date) []string {
	t.Helper()
	set, err := ScheduleSet(s, time.UTC)
	require.NoError(t, err)

	var out []string
	for _, tm := range set.Between(from.At("00:00", time.UTC), to.At("23:59", time.UTC), true) {
		out = append(out, calendar.FromTime(tm).String())
	}
	return out
}

// generatedDates даты из генератора без перенесённых занятий
func generatedDates(s *model.Schedule, from, to calendar.Date) []string {
	var out []string
	for _, o := range occurrence.Generate(s, from, to) {
		if !o.IsRescheduled {
			out = append(out, o.Date.String())
		}
	}
	return out
}

func TestScheduleRuleString(t *testing.T) {
	s := biweekly()
	s.DaysOfWeek = []string{"friday", "wednesday"}
	s.EndDate = datePtr("2024-03-31")

	r, err := ScheduleRule(&s, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-03", calendar.FromTime(r.OrigOptions.Dtstart).String())
	assert.Equal(t, 18, r.OrigOptions.Dtstart.Hour())
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;UNTIL=20240331T235959Z;BYDAY=FR,WE", r.OrigOptions.RRuleString())
}

func TestScheduleRuleRejectsOneOff(t *testing.T) {
	s := model.Schedule{ID: 1, Date: datePtr("2024-01-10"), Time: "10:00"}
	_, err := ScheduleRule(&s, time.UTC)
	assert.Error(t, err)

	empty := biweekly()
	empty.DaysOfWeek = nil
	_, err = ScheduleRule(&empty, time.UTC)
	assert.Error(t, err)

	legacy := biweekly()
	legacy.CreatedAt = time.Time{}
	_, err = ScheduleRule(&legacy, time.UTC)
	assert.Error(t, err)
}

func TestScheduleRuleMatchesGenerator(t *testing.T) {
	from, to := date("2023-12-01"), date("2024-06-30")

	for _, interval := range []int{1, 2, 3, 4} {
		for _, createdOn := range []string{"2024-01-01", "2024-01-04", "2024-01-07"} {
			s := biweekly()
			s.DaysOfWeek = []string{"monday", "wednesday", "sunday"}
			s.Interval = interval
			s.CreatedAt = date(createdOn).At("12:00", time.UTC)
			s.EndDate = datePtr("2024-05-15")

			assert.Equal(t, generatedDates(&s, from, to), ruleDates(t, &s, from, to),
				"interval %d created %s", interval, createdOn)
		}
	}
}

func TestScheduleSetExcludesExceptions(t *testing.T) {
	s := biweekly()
	s.SetException(model.Exception{Date: date("2024-01-17"), Action: model.ExceptionSkip})
	s.SetException(model.Exception{Date: date("2024-01-03"), Action: model.ExceptionReschedule, RescheduleTo: datePtr("2024-01-05")})

	from, to := date("2024-01-01"), date("2024-01-31")
	assert.Equal(t, []string{"2024-01-31"}, ruleDates(t, &s, from, to))
	assert.Equal(t, generatedDates(&s, from, to), ruleDates(t, &s, from, to))
}

func parse(t *testing.T, data string) *ics.Calendar {
	t.Helper()
	cal, err := ics.ParseCalendar(strings.NewReader(data))
	require.NoError(t, err)
	return cal
}

func prop(ev *ics.VEvent, p ics.ComponentProperty) string {
	if v := ev.GetProperty(p); v != nil {
		return v.Value
	}
	return ""
}

func TestOccurrencesICS(t *testing.T) {
	s := biweekly()
	s.SetException(model.Exception{Date: date("2024-01-03"), Action: model.ExceptionReschedule, RescheduleTo: datePtr("2024-01-05"), RescheduleTime: "15:00"})
	occ := occurrence.InRange([]model.Schedule{s}, occurrence.NamesFrom(map[int64]string{1: "Liam"}), date("2024-01-01"), date("2024-01-31"))

	opts := ICSOptions{Name: "Liam", Location: time.UTC, Now: created}
	out := OccurrencesICS(occ, opts)
	assert.Equal(t, out, OccurrencesICS(occ, opts), "output must be stable")

	events := parse(t, out).Events()
	require.Len(t, events, 3)

	first := events[0]
	assert.Equal(t, "Lesson: Liam", prop(first, ics.ComponentPropertySummary))
	assert.Equal(t, "20240105T150000Z", prop(first, ics.ComponentPropertyDtStart))
	assert.Equal(t, "20240105T160000Z", prop(first, ics.ComponentPropertyDtEnd))
	assert.Contains(t, prop(first, ics.ComponentPropertyDescription), "Moved from 2024-01-03")
	assert.Equal(t, eventUID("10:2024-01-03"), first.Id())

	assert.Equal(t, "20240117T180000Z", prop(events[1], ics.ComponentPropertyDtStart))
	assert.NotEqual(t, first.Id(), events[1].Id())
}

func TestOccurrencesICSLocalTime(t *testing.T) {
	loc := time.FixedZone("IST", 3600)

	occ := occurrence.Generate(&model.Schedule{ID: 1, StudentID: 1, Date: datePtr("2024-07-10"), Time: "10:00", DurationMinutes: 45, CreatedAt: created}, date("2024-07-01"), date("2024-07-31"))
	events := parse(t, OccurrencesICS(occ, ICSOptions{Location: loc, Now: created})).Events()
	require.Len(t, events, 1)

	start := events[0].GetProperty(ics.ComponentPropertyDtStart)
	require.NotNil(t, start)
	assert.Equal(t, "20240710T100000", start.Value)
	assert.Equal(t, []string{"IST"}, start.ICalParameters[string(ics.ParameterTzid)])
	assert.Equal(t, "Lesson: Unknown", prop(events[0], ics.ComponentPropertySummary))
}

func TestSchedulesICS(t *testing.T) {
	recurring := biweekly()
	recurring.SetException(model.Exception{Date: date("2024-01-17"), Action: model.ExceptionSkip})
	recurring.SetException(model.Exception{Date: date("2024-01-31"), Action: model.ExceptionReschedule, RescheduleTo: datePtr("2024-02-01")})
	oneOff := model.Schedule{ID: 11, StudentID: 2, Date: datePtr("2024-01-12"), Time: "10:00", DurationMinutes: 45, CreatedAt: created}
	noDays := model.Schedule{ID: 12, StudentID: 2, IsRecurring: true, Time: "10:00", CreatedAt: created}

	names := occurrence.NamesFrom(map[int64]string{1: "Liam", 2: "Emma"})
	out, err := SchedulesICS([]model.Schedule{recurring, oneOff, noDays}, names, ICSOptions{Location: time.UTC, Now: created})
	require.NoError(t, err)

	events := parse(t, out).Events()
	require.Len(t, events, 3)

	series := events[0]
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;BYDAY=WE", prop(series, ics.ComponentPropertyRrule))
	assert.Equal(t, "20240103T180000Z", prop(series, ics.ComponentPropertyDtStart))
	var exdates []string
	for _, p := range series.GetProperties(ics.ComponentPropertyExdate) {
		exdates = append(exdates, p.Value)
	}
	assert.Equal(t, []string{"20240117T180000Z", "20240131T180000Z"}, exdates)

	moved := events[1]
	assert.Equal(t, "20240201T180000Z", prop(moved, ics.ComponentPropertyDtStart))
	assert.Contains(t, prop(moved, ics.ComponentPropertyDescription), "Moved from 2024-01-31")

	single := events[2]
	assert.Equal(t, "Lesson: Emma", prop(single, ics.ComponentPropertySummary))
	assert.Equal(t, "20240112T100000Z", prop(single, ics.ComponentPropertyDtStart))
	assert.Empty(t, prop(single, ics.ComponentPropertyRrule))
}

func statement() Statement {
	return Statement{
		Student: model.Student{ID: 1, Name: "Emma O'Brien", HourlyRate: 35},
		Lessons: []model.Lesson{
			{ID: 2, StudentID: 1, Date: date("2024-01-09"), DurationMinutes: 90, HourlyRate: 35, Notes: "Katakana, \"menu\" reading"},
			{ID: 3, StudentID: 1, Date: date("2024-01-02"), DurationMinutes: 60, HourlyRate: 35, IsPaid: true},
		},
		IssuedOn: date("2024-01-15"),
		Currency: "€",
	}
}

func TestStatementCSV(t *testing.T) {
	data, err := StatementCSV(statement())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Minutes", "Rate", "Amount", "Paid", "Notes"},
		{"2024-01-09", "90", "35.00", "52.50", "no", "Katakana, \"menu\" reading"},
		{"2024-01-02", "60", "35.00", "35.00", "yes", ""},
	}, records)
}

func TestStatementPDF(t *testing.T) {
	s := statement()
	assert.Equal(t, 52.5, s.Total())

	data, err := StatementPDF(s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	empty := Statement{Student: model.Student{Name: "Sophie"}}
	data, err = StatementPDF(empty)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
