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

// PaymentInput данные формы оплаты. Пустая дата означает сегодня.
type PaymentInput struct {
	StudentID int64         `json:"student_id" validate:"required,gt=0"`
	Amount    float64       `json:"amount" validate:"gt=0"`
	Date      calendar.Date `json:"date"`
	Notes     string        `json:"notes" validate:"max=5000"`
	LessonIDs []int64       `json:"lesson_ids" validate:"dive,gt=0"`
}

type PaymentService struct {
	stateAccess
}

func NewPaymentService(store repository.Store, validate *validator.Validate, settings Settings, logger *zap.Logger) *PaymentService {
	return &PaymentService{stateAccess: newStateAccess(store, validate, settings, logger)}
}

// List возвращает оплаты от новых к старым; studentID 0 - все ученики
func (s *PaymentService) List(ctx context.Context, studentID int64) ([]model.PaymentView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	names := state.StudentNames()
	result := make([]model.PaymentView, 0, len(state.Payments))
	for _, p := range state.Payments {
		if studentID != 0 && p.StudentID != studentID {
			continue
		}
		result = append(result, paymentView(state, p, names))
	}

	slices.SortStableFunc(result, func(a, b model.PaymentView) int { return b.Date.Compare(a.Date) })
	return result, nil
}

// Create записывает оплату и отмечает перечисленные занятия оплаченными
func (s *PaymentService) Create(ctx context.Context, in PaymentInput) (*model.PaymentView, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = calendar.Today(s.now(), s.settings.Location)
	}

	var view model.PaymentView
	err := s.mutate(ctx, func(state *model.State) error {
		if state.FindStudent(in.StudentID) == nil {
			return notFound("student", in.StudentID)
		}

		lessonIDs := slices.Clone(in.LessonIDs)
		if lessonIDs == nil {
			lessonIDs = []int64{}
		}

		payment := model.Payment{
			ID:        state.NewID(),
			StudentID: in.StudentID,
			Amount:    in.Amount,
			Date:      in.Date,
			Notes:     in.Notes,
			LessonIDs: lessonIDs,
			CreatedAt: s.nowUTC(),
		}
		state.Payments = append(state.Payments, payment)
		markPaid(state, lessonIDs, true)

		view = paymentView(state, payment, state.StudentNames())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment created",
		zap.Int64("payment_id", view.ID),
		zap.Int64("student_id", view.StudentID),
		zap.Float64("amount", view.Amount),
		zap.Int("lessons", len(view.LessonIDs)))

	return &view, nil
}

// Delete удаляет оплату; unmarkLessons возвращает её занятиям статус неоплаченных
func (s *PaymentService) Delete(ctx context.Context, id int64, unmarkLessons bool) error {
	err := s.mutate(ctx, func(state *model.State) error {
		payment := state.FindPayment(id)
		if payment == nil {
			return notFound("payment", id)
		}
		if unmarkLessons {
			markPaid(state, payment.LessonIDs, false)
		}
		state.Payments = slices.DeleteFunc(state.Payments, func(p model.Payment) bool { return p.ID == id })
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Payment deleted", zap.Int64("payment_id", id), zap.Bool("unmark_lessons", unmarkLessons))
	return nil
}

func paymentView(state *model.State, p model.Payment, names map[int64]string) model.PaymentView {
	name, ok := names[p.StudentID]
	if !ok {
		name = model.UnknownStudentName
	}

	lessons := []model.Lesson{}
	for _, l := range state.Lessons {
		if p.Covers(l.ID) {
			lessons = append(lessons, l)
		}
	}

	return model.PaymentView{Payment: p, StudentName: name, Lessons: lessons}
}
