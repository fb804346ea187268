package service

import (
	"context"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

// LessonInput данные формы занятия
type LessonInput struct {
	StudentID       int64         `json:"student_id" validate:"required,gt=0"`
	Date            calendar.Date `json:"date"`
	DurationMinutes int           `json:"duration_minutes" validate:"gte=0,lte=1440"`
	HourlyRate      float64       `json:"hourly_rate" validate:"gte=0"`
	Notes           string        `json:"notes" validate:"max=5000"`
	IsPaid          bool          `json:"is_paid"`
}

// LessonFilter фильтр списка занятий; нулевые поля не ограничивают выборку
type LessonFilter struct {
	StudentID  int64
	UnpaidOnly bool
}

type LessonService struct {
	stateAccess
}

func NewLessonService(store repository.Store, validate *validator.Validate, settings Settings, logger *zap.Logger) *LessonService {
	return &LessonService{stateAccess: newStateAccess(store, validate, settings, logger)}
}

// List возвращает занятия от новых к старым с именами учеников
func (s *LessonService) List(ctx context.Context, filter LessonFilter) ([]model.LessonView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	names := state.StudentNames()
	result := make([]model.LessonView, 0, len(state.Lessons))
	for _, l := range state.Lessons {
		if filter.StudentID != 0 && l.StudentID != filter.StudentID {
			continue
		}
		if filter.UnpaidOnly && l.IsPaid {
			continue
		}
		result = append(result, lessonView(l, names))
	}

	slices.SortStableFunc(result, func(a, b model.LessonView) int { return b.Date.Compare(a.Date) })
	return result, nil
}

func (s *LessonService) Get(ctx context.Context, id int64) (*model.LessonView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	lesson := state.FindLesson(id)
	if lesson == nil {
		return nil, notFound("lesson", id)
	}

	view := lessonView(*lesson, state.StudentNames())
	return &view, nil
}

// Create записывает проведённое занятие. Ставка берётся из формы,
// затем у ученика, затем по умолчанию.
func (s *LessonService) Create(ctx context.Context, in LessonInput) (*model.LessonView, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, invalidf("lesson date is required")
	}

	var view model.LessonView
	err := s.mutate(ctx, func(state *model.State) error {
		student := state.FindStudent(in.StudentID)
		if student == nil {
			return notFound("student", in.StudentID)
		}

		rate := in.HourlyRate
		if rate <= 0 {
			rate = student.HourlyRate
		}
		if rate <= 0 {
			rate = s.settings.DefaultHourlyRate
		}

		lesson := model.Lesson{
			ID:              state.NewID(),
			StudentID:       in.StudentID,
			Date:            in.Date,
			DurationMinutes: s.duration(in.DurationMinutes),
			HourlyRate:      rate,
			Notes:           in.Notes,
			CreatedAt:       s.nowUTC(),
		}
		state.Lessons = append(state.Lessons, lesson)
		view = model.LessonView{Lesson: lesson, StudentName: student.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson created",
		zap.Int64("lesson_id", view.ID),
		zap.Int64("student_id", view.StudentID),
		zap.String("date", view.Date.String()))

	return &view, nil
}

// Update перезаписывает поля занятия; ученик не меняется
func (s *LessonService) Update(ctx context.Context, id int64, in LessonInput) (*model.LessonView, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Date.IsZero() {
		return nil, invalidf("lesson date is required")
	}
	if in.DurationMinutes < 0 || in.HourlyRate < 0 {
		return nil, invalidf("duration and rate must not be negative")
	}

	var view model.LessonView
	err := s.mutate(ctx, func(state *model.State) error {
		lesson := state.FindLesson(id)
		if lesson == nil {
			return notFound("lesson", id)
		}

		lesson.Date = in.Date
		lesson.DurationMinutes = s.duration(in.DurationMinutes)
		lesson.HourlyRate = in.HourlyRate
		lesson.Notes = in.Notes
		lesson.IsPaid = in.IsPaid

		view = lessonView(*lesson, state.StudentNames())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson updated", zap.Int64("lesson_id", id))
	return &view, nil
}

func (s *LessonService) Delete(ctx context.Context, id int64) error {
	err := s.mutate(ctx, func(state *model.State) error {
		if state.FindLesson(id) == nil {
			return notFound("lesson", id)
		}
		state.Lessons = slices.DeleteFunc(state.Lessons, func(l model.Lesson) bool { return l.ID == id })
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Lesson deleted", zap.Int64("lesson_id", id))
	return nil
}

// MarkPaid выставляет флаг оплаты одного занятия
func (s *LessonService) MarkPaid(ctx context.Context, id int64, paid bool) (*model.LessonView, error) {
	var view model.LessonView
	err := s.mutate(ctx, func(state *model.State) error {
		lesson := state.FindLesson(id)
		if lesson == nil {
			return notFound("lesson", id)
		}
		lesson.IsPaid = paid
		view = lessonView(*lesson, state.StudentNames())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson payment flag changed", zap.Int64("lesson_id", id), zap.Bool("is_paid", paid))
	return &view, nil
}

// MarkMultiplePaid отмечает оплаченными все найденные занятия.
// Неизвестные id пропускаются; возвращается число отмеченных.
func (s *LessonService) MarkMultiplePaid(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	updated := 0
	err := s.mutate(ctx, func(state *model.State) error {
		updated = markPaid(state, ids, true)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Lessons marked paid", zap.Int("requested", len(ids)), zap.Int("updated", updated))
	return updated, nil
}

func (s *LessonService) duration(minutes int) int {
	if minutes <= 0 {
		return s.settings.DefaultDurationMinutes
	}
	return minutes
}

func markPaid(state *model.State, ids []int64, paid bool) int {
	n := 0
	for _, id := range ids {
		if lesson := state.FindLesson(id); lesson != nil {
			lesson.IsPaid = paid
			n++
		}
	}
	return n
}

func lessonView(l model.Lesson, names map[int64]string) model.LessonView {
	name, ok := names[l.StudentID]
	if !ok {
		name = model.UnknownStudentName
	}
	return model.LessonView{Lesson: l, StudentName: name}
}
