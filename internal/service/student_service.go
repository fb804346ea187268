package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

// StudentInput данные формы ученика
type StudentInput struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Phone      string  `json:"phone" validate:"omitempty,max=50"`
	Notes      string  `json:"notes" validate:"max=5000"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
}

type StudentService struct {
	stateAccess
}

func NewStudentService(store repository.Store, validate *validator.Validate, settings Settings, logger *zap.Logger) *StudentService {
	return &StudentService{stateAccess: newStateAccess(store, validate, settings, logger)}
}

// List возвращает учеников по имени со счётчиками занятий и долга
func (s *StudentService) List(ctx context.Context) ([]model.StudentSummary, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[int64]*model.StudentSummary, len(state.Students))
	result := make([]model.StudentSummary, len(state.Students))
	for i, st := range state.Students {
		result[i] = model.StudentSummary{Student: st}
		byStudent[st.ID] = &result[i]
	}

	for _, l := range state.Lessons {
		sum, ok := byStudent[l.StudentID]
		if !ok {
			continue
		}
		sum.LessonCount++
		if !l.IsPaid {
			sum.UnpaidCount++
			sum.UnpaidAmount += l.Amount()
		}
	}

	slices.SortStableFunc(result, func(a, b model.StudentSummary) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return result, nil
}

// Get возвращает ученика с историей занятий и оплат, новые сверху
func (s *StudentService) Get(ctx context.Context, id int64) (*model.StudentDetail, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	student := state.FindStudent(id)
	if student == nil {
		return nil, notFound("student", id)
	}

	detail := &model.StudentDetail{
		Student:  *student,
		Lessons:  []model.Lesson{},
		Payments: []model.Payment{},
	}
	for _, l := range state.Lessons {
		if l.StudentID == id {
			detail.Lessons = append(detail.Lessons, l)
		}
	}
	for _, p := range state.Payments {
		if p.StudentID == id {
			detail.Payments = append(detail.Payments, p)
		}
	}

	slices.SortStableFunc(detail.Lessons, func(a, b model.Lesson) int { return b.Date.Compare(a.Date) })
	slices.SortStableFunc(detail.Payments, func(a, b model.Payment) int { return b.Date.Compare(a.Date) })

	return detail, nil
}

func (s *StudentService) Create(ctx context.Context, in StudentInput) (*model.Student, error) {
	in = s.normalize(in)
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var created model.Student
	err := s.mutate(ctx, func(state *model.State) error {
		created = model.Student{
			ID:         state.NewID(),
			Name:       in.Name,
			Email:      in.Email,
			Phone:      in.Phone,
			Notes:      in.Notes,
			HourlyRate: in.HourlyRate,
			CreatedAt:  s.nowUTC(),
		}
		state.Students = append(state.Students, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student created",
		zap.Int64("student_id", created.ID),
		zap.String("name", created.Name),
		zap.Float64("hourly_rate", created.HourlyRate))

	return &created, nil
}

func (s *StudentService) Update(ctx context.Context, id int64, in StudentInput) (*model.Student, error) {
	in = s.normalize(in)
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var updated model.Student
	err := s.mutate(ctx, func(state *model.State) error {
		student := state.FindStudent(id)
		if student == nil {
			return notFound("student", id)
		}
		student.Name = in.Name
		student.Email = in.Email
		student.Phone = in.Phone
		student.Notes = in.Notes
		student.HourlyRate = in.HourlyRate
		updated = *student
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student updated", zap.Int64("student_id", id))
	return &updated, nil
}

// Delete удаляет ученика вместе с его занятиями, оплатами и расписаниями
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	var lessons, payments, schedules int
	err := s.mutate(ctx, func(state *model.State) error {
		if state.FindStudent(id) == nil {
			return notFound("student", id)
		}

		state.Students = slices.DeleteFunc(state.Students, func(st model.Student) bool { return st.ID == id })

		before := len(state.Lessons)
		state.Lessons = slices.DeleteFunc(state.Lessons, func(l model.Lesson) bool { return l.StudentID == id })
		lessons = before - len(state.Lessons)

		before = len(state.Payments)
		state.Payments = slices.DeleteFunc(state.Payments, func(p model.Payment) bool { return p.StudentID == id })
		payments = before - len(state.Payments)

		before = len(state.Schedules)
		state.Schedules = slices.DeleteFunc(state.Schedules, func(sc model.Schedule) bool { return sc.StudentID == id })
		schedules = before - len(state.Schedules)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Student deleted",
		zap.Int64("student_id", id),
		zap.Int("lessons_removed", lessons),
		zap.Int("payments_removed", payments),
		zap.Int("schedules_removed", schedules))

	return nil
}

func (s *StudentService) normalize(in StudentInput) StudentInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.HourlyRate <= 0 {
		in.HourlyRate = s.settings.DefaultHourlyRate
	}
	return in
}
