package service

import (
	"time"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

var (
	seedCreated = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	testNow     = time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC)
)

func d(s string) calendar.Date {
	return calendar.MustParseDate(s)
}

func dp(s string) *calendar.Date {
	v := calendar.MustParseDate(s)
	return &v
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Location = time.UTC
	return s
}

// seedState: Emma (35/h) и Liam (40/h), три занятия, одна оплата,
// регулярное расписание Liam по средам раз в две недели и разовое у Emma
func seedState() *model.State {
	state := model.NewState()
	state.Students = []model.Student{
		{ID: 1, Name: "Emma", HourlyRate: 35, CreatedAt: seedCreated},
		{ID: 2, Name: "Liam", HourlyRate: 40, CreatedAt: seedCreated},
	}
	state.Lessons = []model.Lesson{
		{ID: 3, StudentID: 1, Date: d("2024-01-02"), DurationMinutes: 60, HourlyRate: 35, IsPaid: true, CreatedAt: seedCreated},
		{ID: 4, StudentID: 1, Date: d("2024-01-09"), DurationMinutes: 90, HourlyRate: 35, CreatedAt: seedCreated},
		{ID: 5, StudentID: 2, Date: d("2023-12-20"), DurationMinutes: 60, HourlyRate: 40, CreatedAt: seedCreated},
	}
	state.Payments = []model.Payment{
		{ID: 6, StudentID: 1, Amount: 35, Date: d("2024-01-03"), LessonIDs: []int64{3}, CreatedAt: seedCreated},
	}
	state.Schedules = []model.Schedule{
		{
			ID: 7, StudentID: 2, IsRecurring: true,
			DaysOfWeek: []string{"wednesday"}, Frequency: model.FrequencyBiweekly, Interval: 2,
			Time: "18:00", DurationMinutes: 60, Notes: "JLPT N3 prep", CreatedAt: seedCreated,
		},
		{ID: 8, StudentID: 1, Date: dp("2024-01-12"), Time: "10:00", DurationMinutes: 45, CreatedAt: seedCreated},
	}
	state.NextID = 9
	return state
}

func seededStore() *repository.MemoryStore {
	return repository.NewMemoryStore(seedState())
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func occurrenceDates(occ []model.Occurrence) []string {
	out := make([]string, len(occ))
	for i, o := range occ {
		out[i] = o.Date.String()
	}
	return out
}
