package callbacks

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

func seed() *model.State {
	created := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	oneOff := calendar.MustParseDate("2024-01-12")

	state := model.NewState()
	state.Students = []model.Student{
		{ID: 1, Name: "Emma", HourlyRate: 35, CreatedAt: created},
		{ID: 2, Name: "Liam", HourlyRate: 40, CreatedAt: created},
	}
	state.Schedules = []model.Schedule{
		{
			ID: 7, StudentID: 2, IsRecurring: true,
			DaysOfWeek: []string{"wednesday"}, Frequency: model.FrequencyBiweekly, Interval: 2,
			Time: "18:00", DurationMinutes: 60, CreatedAt: created,
		},
		{ID: 8, StudentID: 1, Date: &oneOff, Time: "10:00", DurationMinutes: 45, CreatedAt: created},
	}
	state.NextID = 9
	return state
}

func newTestHandler(t *testing.T) (*Handler, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore(seed())
	validate := validator.New()
	settings := service.DefaultSettings()
	settings.Location = time.UTC
	logger := zap.NewNop()

	h := handlers.NewHandlers(
		service.NewStudentService(store, validate, settings, logger),
		service.NewLessonService(store, validate, settings, logger),
		service.NewPaymentService(store, validate, settings, logger),
		service.NewScheduleService(store, validate, settings, logger),
		service.NewDashboardService(store, validate, settings, logger),
		handlers.Options{Currency: "€", Location: time.UTC},
		logger,
	)

	return NewHandler(h, logger), store
}

func TestDispatchDone(t *testing.T) {
	h, store := newTestHandler(t)

	answer, alert, followUp := h.Dispatch(context.Background(), "done:7:2024-01-17")
	assert.Equal(t, "✅ Записано", answer)
	assert.False(t, alert)
	assert.Contains(t, followUp, "👤 Liam")
	assert.Contains(t, followUp, "💰 €40.00 (не оплачено)")

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Lessons, 1)
	assert.Equal(t, int64(2), state.Lessons[0].StudentID)
	assert.True(t, state.Lessons[0].Date.Equal(calendar.MustParseDate("2024-01-17")))
	assert.Len(t, state.Schedules, 2, "recurring schedule is kept")
}

func TestDispatchDoneConsumesOneOff(t *testing.T) {
	h, store := newTestHandler(t)

	_, alert, _ := h.Dispatch(context.Background(), "done:8:2024-01-12")
	assert.False(t, alert)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Schedules, 1)
	assert.Equal(t, int64(7), state.Schedules[0].ID)
}

func TestDispatchSkip(t *testing.T) {
	h, store := newTestHandler(t)

	answer, alert, followUp := h.Dispatch(context.Background(), "skip:7:2024-01-31")
	assert.Equal(t, "⏭ Пропущено", answer)
	assert.False(t, alert)
	assert.Equal(t, "⏭ Занятие #7 на 31.01.2024 пропущено", followUp)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	exc, ok := state.Schedules[0].ExceptionFor(calendar.MustParseDate("2024-01-31"))
	require.True(t, ok)
	assert.True(t, exc.IsSkip())
}

func TestDispatchErrors(t *testing.T) {
	h, store := newTestHandler(t)

	tests := []struct {
		data string
		want string
	}{
		{"skip:8:2024-01-12", "❌ Пропуск и перенос возможны только для повторяющегося расписания"},
		{"done:99:2024-01-12", "❌ Не найдено"},
		{"book:7:2024-01-17", "❌ Неверный формат данных"},
		{"done:7", "❌ Неверный формат данных"},
	}
	for _, tt := range tests {
		answer, alert, followUp := h.Dispatch(context.Background(), tt.data)
		assert.Equal(t, tt.want, answer, tt.data)
		assert.True(t, alert, tt.data)
		assert.Empty(t, followUp, tt.data)
	}

	assert.Zero(t, store.Saves())
}
