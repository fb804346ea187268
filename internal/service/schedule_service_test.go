package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

func newScheduleService(store *repository.MemoryStore) *ScheduleService {
	svc := NewScheduleService(store, nil, testSettings(), zap.NewNop())
	svc.now = fixedClock()
	return svc
}

func TestScheduleCreateRecurringNormalizesDays(t *testing.T) {
	store := seededStore()
	svc := newScheduleService(store)

	view, err := svc.Create(context.Background(), ScheduleInput{
		StudentID:   1,
		IsRecurring: true,
		DaysOfWeek:  []string{"Wed", "MONDAY", "wednesday"},
		Frequency:   model.FrequencyBiweekly,
		Time:        "16:30",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), view.ID)
	assert.Equal(t, "Emma", view.StudentName)
	assert.Equal(t, []string{"wednesday", "monday"}, view.DaysOfWeek)
	assert.Equal(t, 2, view.Interval)
	assert.Equal(t, 60, view.DurationMinutes)
	assert.Nil(t, view.Date)
	assert.Equal(t, testNow, view.CreatedAt)

	got, err := svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Schedule, got.Schedule)
}

func TestScheduleCreateIntervalFromFrequency(t *testing.T) {
	tests := []struct {
		name      string
		frequency model.Frequency
		interval  int
		wantFreq  model.Frequency
		wantWeeks int
	}{
		{"weekly ignores interval", model.FrequencyWeekly, 3, model.FrequencyWeekly, 1},
		{"monthly is four weeks", model.FrequencyMonthly, 0, model.FrequencyMonthly, 4},
		{"custom uses interval", model.FrequencyCustom, 3, model.FrequencyCustom, 3},
		{"no frequency, interval 2", "", 2, model.FrequencyBiweekly, 2},
		{"no frequency, interval 5", "", 5, model.FrequencyCustom, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newScheduleService(seededStore())
			view, err := svc.Create(context.Background(), ScheduleInput{
				StudentID:   2,
				IsRecurring: true,
				DaysOfWeek:  []string{"friday"},
				Frequency:   tt.frequency,
				Interval:    tt.interval,
				Time:        "09:00",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantFreq, view.Frequency)
			assert.Equal(t, tt.wantWeeks, view.Interval)
		})
	}
}

func TestScheduleCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input ScheduleInput
		want  error
	}{
		{"recurring without days", ScheduleInput{StudentID: 1, IsRecurring: true, Time: "10:00"}, ErrInvalidInput},
		{"unknown day", ScheduleInput{StudentID: 1, IsRecurring: true, DaysOfWeek: []string{"funday"}, Time: "10:00"}, ErrInvalidInput},
		{"custom without interval", ScheduleInput{StudentID: 1, IsRecurring: true, DaysOfWeek: []string{"monday"}, Frequency: model.FrequencyCustom, Time: "10:00"}, ErrInvalidInput},
		{"unknown frequency", ScheduleInput{StudentID: 1, IsRecurring: true, DaysOfWeek: []string{"monday"}, Frequency: "daily", Time: "10:00"}, ErrInvalidInput},
		{"one-off without date", ScheduleInput{StudentID: 1, Time: "10:00"}, ErrInvalidInput},
		{"bad time", ScheduleInput{StudentID: 1, Date: dp("2024-02-01"), Time: "25:00"}, ErrInvalidInput},
		{"short time", ScheduleInput{StudentID: 1, Date: dp("2024-02-01"), Time: "9:00"}, ErrInvalidInput},
		{"missing student id", ScheduleInput{Date: dp("2024-02-01"), Time: "10:00"}, ErrInvalidInput},
		{"unknown student", ScheduleInput{StudentID: 42, Date: dp("2024-02-01"), Time: "10:00"}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			svc := newScheduleService(store)

			_, err := svc.Create(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Zero(t, store.Saves())
		})
	}
}

func TestScheduleUpdatePreservesAnchorAndExceptions(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(seededStore())

	_, err := svc.AddException(ctx, 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionSkip})
	require.NoError(t, err)

	view, err := svc.Update(ctx, 7, ScheduleInput{
		StudentID:   2,
		IsRecurring: true,
		DaysOfWeek:  []string{"wednesday"},
		Frequency:   model.FrequencyBiweekly,
		Time:        "19:00",
		Notes:       "Reading practice",
	})
	require.NoError(t, err)

	assert.Equal(t, seedCreated, view.CreatedAt)
	assert.Equal(t, "19:00", view.Time)
	require.Len(t, view.Exceptions, 1)

	occ, err := svc.Range(ctx, d("2024-01-01"), d("2024-01-31"))
	require.NoError(t, err)
	var liam []string
	for _, o := range occ {
		if o.ScheduleID == 7 {
			liam = append(liam, o.Date.String())
		}
	}
	assert.Equal(t, []string{"2024-01-03", "2024-01-31"}, liam)
}

func TestScheduleUpdateNotFound(t *testing.T) {
	svc := newScheduleService(seededStore())
	_, err := svc.Update(context.Background(), 100, ScheduleInput{StudentID: 1, Date: dp("2024-02-01"), Time: "10:00"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleDelete(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	svc := newScheduleService(store)

	require.NoError(t, svc.Delete(ctx, 8))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].ID)
	assert.Equal(t, "Liam", list[0].StudentName)

	assert.ErrorIs(t, svc.Delete(ctx, 8), ErrNotFound)
}

func TestExceptionScenarios(t *testing.T) {
	january := func(t *testing.T, svc *ScheduleService) []model.Occurrence {
		occ, err := svc.Range(context.Background(), d("2024-01-01"), d("2024-01-31"))
		require.NoError(t, err)
		var out []model.Occurrence
		for _, o := range occ {
			if o.ScheduleID == 7 {
				out = append(out, o)
			}
		}
		return out
	}

	t.Run("no exceptions", func(t *testing.T) {
		svc := newScheduleService(seededStore())
		assert.Equal(t, []string{"2024-01-03", "2024-01-17", "2024-01-31"}, occurrenceDates(january(t, svc)))
	})

	t.Run("skip", func(t *testing.T) {
		svc := newScheduleService(seededStore())
		_, err := svc.AddException(context.Background(), 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionSkip})
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-03", "2024-01-31"}, occurrenceDates(january(t, svc)))
	})

	t.Run("reschedule", func(t *testing.T) {
		svc := newScheduleService(seededStore())
		_, err := svc.AddException(context.Background(), 7, ExceptionInput{
			Date:           d("2024-01-03"),
			Action:         model.ExceptionReschedule,
			RescheduleTo:   dp("2024-01-05"),
			RescheduleTime: "15:00",
		})
		require.NoError(t, err)

		occ := january(t, svc)
		assert.Equal(t, []string{"2024-01-05", "2024-01-17", "2024-01-31"}, occurrenceDates(occ))
		assert.True(t, occ[0].IsRescheduled)
		assert.Equal(t, "15:00", occ[0].Time)
		assert.Equal(t, "2024-01-03", occ[0].OriginalDate.String())
	})

	t.Run("last write wins", func(t *testing.T) {
		ctx := context.Background()
		svc := newScheduleService(seededStore())
		_, err := svc.AddException(ctx, 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionSkip})
		require.NoError(t, err)
		sc, err := svc.AddException(ctx, 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionReschedule, RescheduleTo: dp("2024-01-18")})
		require.NoError(t, err)

		require.Len(t, sc.Exceptions, 1)
		occ := january(t, svc)
		assert.Equal(t, []string{"2024-01-03", "2024-01-18", "2024-01-31"}, occurrenceDates(occ))
		assert.Equal(t, "18:00", occ[1].Time)
	})

	t.Run("skip drops reschedule fields", func(t *testing.T) {
		svc := newScheduleService(seededStore())
		sc, err := svc.AddException(context.Background(), 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionSkip, RescheduleTo: dp("2024-01-18"), RescheduleTime: "10:00"})
		require.NoError(t, err)
		assert.Nil(t, sc.Exceptions[0].RescheduleTo)
		assert.Empty(t, sc.Exceptions[0].RescheduleTime)
	})
}

func TestAddExceptionErrors(t *testing.T) {
	tests := []struct {
		name       string
		scheduleID int64
		input      ExceptionInput
		want       error
	}{
		{"schedule not found", 100, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionSkip}, ErrNotFound},
		{"one-off schedule", 8, ExceptionInput{Date: d("2024-01-12"), Action: model.ExceptionSkip}, ErrNotRecurring},
		{"reschedule without target", 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionReschedule}, ErrInvalidInput},
		{"unknown action", 7, ExceptionInput{Date: d("2024-01-17"), Action: "cancel"}, ErrInvalidInput},
		{"missing date", 7, ExceptionInput{Action: model.ExceptionSkip}, ErrInvalidInput},
		{"bad reschedule time", 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionReschedule, RescheduleTo: dp("2024-01-18"), RescheduleTime: "7pm"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			svc := newScheduleService(store)

			_, err := svc.AddException(context.Background(), tt.scheduleID, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, store.Saves())
		})
	}

	assert.ErrorIs(t, ErrNotRecurring, ErrInvalidInput)
}

func TestRemoveException(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	svc := newScheduleService(store)

	_, err := svc.AddException(ctx, 7, ExceptionInput{Date: d("2024-01-17"), Action: model.ExceptionSkip})
	require.NoError(t, err)
	require.Equal(t, 1, store.Saves())

	removed, err := svc.RemoveException(ctx, 7, d("2024-01-17"))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 2, store.Saves())

	removed, err = svc.RemoveException(ctx, 7, d("2024-01-17"))
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, store.Saves(), "absent exception must not rewrite the store")

	_, err = svc.RemoveException(ctx, 100, d("2024-01-17"))
	assert.ErrorIs(t, err, ErrNotFound)

	sc, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, sc.Exceptions)
}

func TestCompleteOccurrenceRecurring(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(seededStore())

	lesson, err := svc.CompleteOccurrence(ctx, 7, d("2024-01-17"), "  ")
	require.NoError(t, err)

	assert.Equal(t, int64(9), lesson.ID)
	assert.Equal(t, int64(2), lesson.StudentID)
	assert.Equal(t, "Liam", lesson.StudentName)
	assert.Equal(t, "2024-01-17", lesson.Date.String())
	assert.Equal(t, 60, lesson.DurationMinutes)
	assert.Equal(t, 40.0, lesson.HourlyRate)
	assert.Equal(t, "JLPT N3 prep", lesson.Notes)
	assert.False(t, lesson.IsPaid)

	sc, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, seedCreated, sc.CreatedAt)

	occ, err := svc.Range(ctx, d("2024-01-17"), d("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-17", "2024-01-31"}, occurrenceDates(occ))
}

func TestCompleteOccurrenceUsesCurrentStudentRate(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	svc := newScheduleService(store)
	students := NewStudentService(store, nil, testSettings(), zap.NewNop())

	_, err := students.Update(ctx, 2, StudentInput{Name: "Liam", HourlyRate: 50})
	require.NoError(t, err)

	lesson, err := svc.CompleteOccurrence(ctx, 7, d("2024-01-17"), "Mock test")
	require.NoError(t, err)
	assert.Equal(t, 50.0, lesson.HourlyRate)
	assert.Equal(t, "Mock test", lesson.Notes)
}

func TestCompleteOccurrenceOneOffConsumesSchedule(t *testing.T) {
	ctx := context.Background()
	svc := newScheduleService(seededStore())

	lesson, err := svc.CompleteOccurrence(ctx, 8, d("2024-01-12"), "Kanji review")
	require.NoError(t, err)
	assert.Equal(t, 35.0, lesson.HourlyRate)
	assert.Equal(t, 45, lesson.DurationMinutes)
	assert.Equal(t, "Kanji review", lesson.Notes)

	_, err = svc.Get(ctx, 8)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CompleteOccurrence(ctx, 8, d("2024-01-12"), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteOccurrenceMissingStudentUsesDefaultRate(t *testing.T) {
	state := seedState()
	state.Schedules[0].StudentID = 99
	svc := newScheduleService(repository.NewMemoryStore(state))

	lesson, err := svc.CompleteOccurrence(context.Background(), 7, d("2024-01-17"), "")
	require.NoError(t, err)
	assert.Equal(t, 30.0, lesson.HourlyRate)
	assert.Equal(t, model.UnknownStudentName, lesson.StudentName)
}

func TestCompleteOccurrenceErrorsLeaveStoreUntouched(t *testing.T) {
	store := seededStore()
	svc := newScheduleService(store)

	_, err := svc.CompleteOccurrence(context.Background(), 100, d("2024-01-17"), "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CompleteOccurrence(context.Background(), 7, calendar.Date{}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, store.Saves())
}

func TestScheduleUpcomingDefaultWindow(t *testing.T) {
	svc := newScheduleService(seededStore())

	occ, err := svc.Upcoming(context.Background(), d("2024-01-08"), 0)
	require.NoError(t, err)

	require.Len(t, occ, 2)
	assert.Equal(t, "2024-01-12", occ[0].Date.String())
	assert.Equal(t, "Emma", occ[0].StudentName)
	assert.False(t, occ[0].IsRecurringInstance)
	assert.Equal(t, "2024-01-17", occ[1].Date.String())
	assert.Equal(t, "Liam", occ[1].StudentName)

	assert.Equal(t, "2024-01-08", svc.Today().String())
}
