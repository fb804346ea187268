package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/occurrence"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

const (
	recentLessonsLimit = 10
	summaryMonths      = 12
)

type DashboardService struct {
	stateAccess
}

func NewDashboardService(store repository.Store, validate *validator.Validate, settings Settings, logger *zap.Logger) *DashboardService {
	return &DashboardService{stateAccess: newStateAccess(store, validate, settings, logger)}
}

// Stats считает сводку; "месяц" - календарный месяц даты today
func (s *DashboardService) Stats(ctx context.Context, today calendar.Date) (*model.Stats, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := occurrence.MonthOf(today)
	stats := &model.Stats{
		TotalStudents: len(state.Students),
		TotalLessons:  len(state.Lessons),
	}
	for _, l := range state.Lessons {
		if !l.IsPaid {
			stats.UnpaidLessons++
			stats.UnpaidAmount += l.Amount()
		}
		if l.Date.Between(monthStart, monthEnd) {
			stats.MonthlyLessons++
			if l.IsPaid {
				stats.MonthlyEarnings += l.Amount()
			}
		}
	}

	return stats, nil
}

// RecentLessons возвращает последние занятия; limit <= 0 - десять
func (s *DashboardService) RecentLessons(ctx context.Context, limit int) ([]model.LessonView, error) {
	if limit <= 0 {
		limit = recentLessonsLimit
	}

	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	names := state.StudentNames()
	lessons := make([]model.LessonView, 0, len(state.Lessons))
	for _, l := range state.Lessons {
		lessons = append(lessons, lessonView(l, names))
	}
	slices.SortStableFunc(lessons, func(a, b model.LessonView) int { return b.Date.Compare(a.Date) })

	return lessons[:min(limit, len(lessons))], nil
}

// UnpaidByStudent группирует долги по ученикам, крупные сверху
func (s *DashboardService) UnpaidByStudent(ctx context.Context) ([]model.StudentDebt, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var order []int64
	debts := make(map[int64]*model.StudentDebt)
	for _, l := range state.Lessons {
		if l.IsPaid {
			continue
		}
		d, ok := debts[l.StudentID]
		if !ok {
			d = &model.StudentDebt{StudentID: l.StudentID, Name: state.StudentName(l.StudentID)}
			debts[l.StudentID] = d
			order = append(order, l.StudentID)
		}
		d.UnpaidCount++
		d.UnpaidAmount += l.Amount()
	}

	result := make([]model.StudentDebt, 0, len(order))
	for _, id := range order {
		result = append(result, *debts[id])
	}
	slices.SortStableFunc(result, func(a, b model.StudentDebt) int { return cmp.Compare(b.UnpaidAmount, a.UnpaidAmount) })

	return result, nil
}

// MonthlySummary возвращает итоги последних двенадцати месяцев с занятиями
func (s *DashboardService) MonthlySummary(ctx context.Context) ([]model.MonthSummary, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	months := make(map[string]*model.MonthSummary)
	for _, l := range state.Lessons {
		if l.Date.IsZero() {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", l.Date.Year(), int(l.Date.Month()))
		m, ok := months[key]
		if !ok {
			m = &model.MonthSummary{Month: key}
			months[key] = m
		}

		amount := l.Amount()
		m.LessonCount++
		m.TotalAmount += amount
		if l.IsPaid {
			m.PaidAmount += amount
		} else {
			m.UnpaidAmount += amount
		}
	}

	result := make([]model.MonthSummary, 0, len(months))
	for _, m := range months {
		result = append(result, *m)
	}
	slices.SortFunc(result, func(a, b model.MonthSummary) int { return cmp.Compare(b.Month, a.Month) })

	return result[:min(summaryMonths, len(result))], nil
}

// UpcomingPreview первые несколько занятий ближайших дней для главного экрана
func (s *DashboardService) UpcomingPreview(ctx context.Context, today calendar.Date) ([]model.Occurrence, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	seq := occurrence.Seq(state.Schedules, occurrence.NamesFrom(state.StudentNames()), today, s.settings.PreviewDays)
	return occurrence.Take(seq, s.settings.PreviewCount), nil
}
