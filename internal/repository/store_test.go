package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

func sampleState() *model.State {
	created := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	to := calendar.MustParseDate("2024-01-11")

	state := model.NewState()
	state.Students = append(state.Students, model.Student{ID: 1, Name: "Emma", HourlyRate: 40, CreatedAt: created})
	state.Lessons = append(state.Lessons, model.Lesson{ID: 2, StudentID: 1, Date: calendar.MustParseDate("2024-01-09"), DurationMinutes: 60, HourlyRate: 40, CreatedAt: created})
	state.Payments = append(state.Payments, model.Payment{ID: 3, StudentID: 1, Amount: 40, Date: calendar.MustParseDate("2024-01-10"), LessonIDs: []int64{2}, CreatedAt: created})
	state.Schedules = append(state.Schedules, model.Schedule{
		ID:              4,
		StudentID:       1,
		IsRecurring:     true,
		DaysOfWeek:      []string{"tuesday"},
		Frequency:       model.FrequencyWeekly,
		Interval:        1,
		Time:            "16:00",
		DurationMinutes: 60,
		CreatedAt:       created,
		Exceptions: []model.Exception{
			{Date: calendar.MustParseDate("2024-01-16"), Action: model.ExceptionSkip},
			{Date: calendar.MustParseDate("2024-01-09"), Action: model.ExceptionReschedule, RescheduleTo: &to, RescheduleTime: "09:00"},
		},
	})
	state.NextID = 5
	return state
}

func TestMemoryStoreEmptyLoad(t *testing.T) {
	store := NewMemoryStore(nil)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.NewState(), state)
}

func TestMemoryStoreRoundTripIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(sampleState())

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), state)

	state.Students[0].Name = "Changed"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Emma", again.Students[0].Name)

	require.NoError(t, store.Save(ctx, state))
	again, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Changed", again.Students[0].Name)
	assert.Equal(t, 1, store.Saves())
}

func TestMemoryStoreRejectsNil(t *testing.T) {
	assert.Error(t, NewMemoryStore(nil).Save(context.Background(), nil))
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "none.json"), zap.NewNop())

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.NewState(), state)
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, name := range []string{"data.json", "data.yaml", "data.yml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "nested", name)
			store := NewFileStore(path, zap.NewNop())

			require.NoError(t, store.Save(ctx, sampleState()))

			state, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleState(), state)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file must not be left behind")
		})
	}
}

func TestFileStoreNormalizesLegacyBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `{
		"students": [{"id": 1, "name": "Emma", "hourly_rate": 30, "created_at": "2024-01-01T09:00:00Z"}],
		"schedules": [{"id": 7, "student_id": 1, "is_recurring": true, "day_of_week": "Wednesday",
			"time": "18:00", "duration_minutes": 60, "created_at": "2024-01-01T09:00:00Z"}],
		"nextId": 2
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	state, err := NewFileStore(path, nil).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, state.Schedules, 1)
	sc := state.Schedules[0]
	assert.Equal(t, []string{"wednesday"}, sc.DaysOfWeek)
	assert.Empty(t, sc.LegacyDayOfWeek)
	assert.Equal(t, 1, sc.Interval)
	assert.Equal(t, int64(8), state.NextID)
	assert.NotNil(t, state.Lessons)
	assert.NotNil(t, state.Payments)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path, nil).Load(context.Background())
	assert.Error(t, err)
}
