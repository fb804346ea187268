package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

func newDashboardService(store *repository.MemoryStore, settings Settings) *DashboardService {
	svc := NewDashboardService(store, nil, settings, zap.NewNop())
	svc.now = fixedClock()
	return svc
}

func TestDashboardStats(t *testing.T) {
	svc := newDashboardService(seededStore(), testSettings())

	stats, err := svc.Stats(context.Background(), d("2024-01-15"))
	require.NoError(t, err)

	assert.Equal(t, &model.Stats{
		TotalStudents:   2,
		TotalLessons:    3,
		UnpaidLessons:   2,
		UnpaidAmount:    92.5,
		MonthlyEarnings: 35,
		MonthlyLessons:  2,
	}, stats)
}

func TestDashboardRecentLessons(t *testing.T) {
	svc := newDashboardService(seededStore(), testSettings())

	recent, err := svc.RecentLessons(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3}, lessonIDs(recent))

	recent, err = svc.RecentLessons(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestDashboardUnpaidByStudent(t *testing.T) {
	svc := newDashboardService(seededStore(), testSettings())

	debts, err := svc.UnpaidByStudent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.StudentDebt{
		{StudentID: 1, Name: "Emma", UnpaidCount: 1, UnpaidAmount: 52.5},
		{StudentID: 2, Name: "Liam", UnpaidCount: 1, UnpaidAmount: 40},
	}, debts)
}

func TestDashboardMonthlySummary(t *testing.T) {
	svc := newDashboardService(seededStore(), testSettings())

	months, err := svc.MonthlySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.MonthSummary{
		{Month: "2024-01", LessonCount: 2, PaidAmount: 35, UnpaidAmount: 52.5, TotalAmount: 87.5},
		{Month: "2023-12", LessonCount: 1, UnpaidAmount: 40, TotalAmount: 40},
	}, months)
}

func TestDashboardMonthlySummaryKeepsTwelveMonths(t *testing.T) {
	state := model.NewState()
	state.Students = []model.Student{{ID: 1, Name: "Emma", HourlyRate: 30}}
	for m := 1; m <= 14; m++ {
		state.Lessons = append(state.Lessons, model.Lesson{
			ID: int64(m + 1), StudentID: 1, DurationMinutes: 60, HourlyRate: 30,
			Date: d("2023-01-15").AddDays(31 * (m - 1)),
		})
	}
	svc := newDashboardService(repository.NewMemoryStore(state), testSettings())

	months, err := svc.MonthlySummary(context.Background())
	require.NoError(t, err)
	require.Len(t, months, 12)
	assert.Greater(t, months[0].Month, months[11].Month)
}

func TestDashboardUpcomingPreview(t *testing.T) {
	settings := testSettings()
	settings.PreviewDays = 14
	settings.PreviewCount = 1
	svc := newDashboardService(seededStore(), settings)

	preview, err := svc.UpcomingPreview(context.Background(), d("2024-01-08"))
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, "2024-01-12", preview[0].Date.String())

	svc = newDashboardService(seededStore(), testSettings())
	preview, err = svc.UpcomingPreview(context.Background(), d("2024-01-13"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-17"}, occurrenceDates(preview))
}
