package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/occurrence"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

// ScheduleInput данные формы расписания.
// Для регулярного нужны дни недели, для разового - дата.
type ScheduleInput struct {
	StudentID       int64           `json:"student_id" validate:"required,gt=0"`
	IsRecurring     bool            `json:"is_recurring"`
	DaysOfWeek      []string        `json:"days_of_week" validate:"dive,weekday"`
	Frequency       model.Frequency `json:"frequency" validate:"omitempty,oneof=weekly biweekly monthly custom"`
	Interval        int             `json:"interval" validate:"gte=0"`
	EndDate         *calendar.Date  `json:"end_date"`
	Date            *calendar.Date  `json:"date"`
	Time            string          `json:"time" validate:"required,clock"`
	DurationMinutes int             `json:"duration_minutes" validate:"gte=0,lte=1440"`
	Notes           string          `json:"notes" validate:"max=5000"`
}

// ExceptionInput пропуск или перенос одного занятия регулярного расписания
type ExceptionInput struct {
	Date           calendar.Date         `json:"date"`
	Action         model.ExceptionAction `json:"action" validate:"required,oneof=skip reschedule"`
	RescheduleTo   *calendar.Date        `json:"reschedule_to"`
	RescheduleTime string                `json:"reschedule_time" validate:"omitempty,clock"`
}

type ScheduleService struct {
	stateAccess
}

func NewScheduleService(store repository.Store, validate *validator.Validate, settings Settings, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{stateAccess: newStateAccess(store, validate, settings, logger)}
}

// List возвращает все расписания с именами учеников
func (s *ScheduleService) List(ctx context.Context) ([]model.ScheduleView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.ScheduleView, 0, len(state.Schedules))
	for _, sc := range state.Schedules {
		result = append(result, model.ScheduleView{Schedule: sc, StudentName: state.StudentName(sc.StudentID)})
	}
	return result, nil
}

func (s *ScheduleService) Get(ctx context.Context, id int64) (*model.ScheduleView, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	sc := state.FindSchedule(id)
	if sc == nil {
		return nil, notFound("schedule", id)
	}
	return &model.ScheduleView{Schedule: *sc, StudentName: state.StudentName(sc.StudentID)}, nil
}

func (s *ScheduleService) Create(ctx context.Context, in ScheduleInput) (*model.ScheduleView, error) {
	draft, err := s.build(in)
	if err != nil {
		return nil, err
	}

	var view model.ScheduleView
	err = s.mutate(ctx, func(state *model.State) error {
		student := state.FindStudent(draft.StudentID)
		if student == nil {
			return notFound("student", draft.StudentID)
		}

		draft.ID = state.NewID()
		draft.CreatedAt = s.nowUTC()
		state.Schedules = append(state.Schedules, draft)
		view = model.ScheduleView{Schedule: draft, StudentName: student.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Schedule created",
		zap.Int64("schedule_id", view.ID),
		zap.Int64("student_id", view.StudentID),
		zap.Bool("is_recurring", view.IsRecurring),
		zap.Strings("days_of_week", view.DaysOfWeek),
		zap.Int("interval", view.Interval))

	return &view, nil
}

// Update заменяет определение расписания. Дата создания (якорная неделя)
// и исключения регулярного расписания сохраняются.
func (s *ScheduleService) Update(ctx context.Context, id int64, in ScheduleInput) (*model.ScheduleView, error) {
	draft, err := s.build(in)
	if err != nil {
		return nil, err
	}

	var view model.ScheduleView
	err = s.mutate(ctx, func(state *model.State) error {
		sc := state.FindSchedule(id)
		if sc == nil {
			return notFound("schedule", id)
		}
		if state.FindStudent(draft.StudentID) == nil {
			return notFound("student", draft.StudentID)
		}

		draft.ID = sc.ID
		draft.CreatedAt = sc.CreatedAt
		if draft.IsRecurring {
			draft.Exceptions = sc.Exceptions
		}
		*sc = draft

		view = model.ScheduleView{Schedule: *sc, StudentName: state.StudentName(sc.StudentID)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Schedule updated", zap.Int64("schedule_id", id))
	return &view, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	err := s.mutate(ctx, func(state *model.State) error {
		if state.FindSchedule(id) == nil {
			return notFound("schedule", id)
		}
		state.Schedules = slices.DeleteFunc(state.Schedules, func(sc model.Schedule) bool { return sc.ID == id })
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Schedule deleted", zap.Int64("schedule_id", id))
	return nil
}

// AddException сохраняет исключение для даты, заменяя прежнее на ту же дату
func (s *ScheduleService) AddException(ctx context.Context, scheduleID int64, in ExceptionInput) (*model.Schedule, error) {
	exc, err := s.buildException(in)
	if err != nil {
		return nil, err
	}

	var updated model.Schedule
	err = s.mutate(ctx, func(state *model.State) error {
		sc := state.FindSchedule(scheduleID)
		if sc == nil {
			return notFound("schedule", scheduleID)
		}
		if !sc.IsRecurring {
			return ErrNotRecurring
		}
		sc.SetException(exc)
		updated = *sc
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.Int64("schedule_id", scheduleID),
		zap.String("date", exc.Date.String()),
		zap.String("action", string(exc.Action)),
	}
	if exc.RescheduleTo != nil {
		fields = append(fields, zap.String("reschedule_to", exc.RescheduleTo.String()))
	}
	s.logger.Info("Schedule exception set", fields...)

	return &updated, nil
}

// RemoveException убирает исключение для даты. Отсутствие исключения не ошибка:
// возвращается false и хранилище не перезаписывается.
func (s *ScheduleService) RemoveException(ctx context.Context, scheduleID int64, date calendar.Date) (bool, error) {
	state, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	sc := state.FindSchedule(scheduleID)
	if sc == nil {
		return false, notFound("schedule", scheduleID)
	}
	if !sc.RemoveException(date) {
		return false, nil
	}

	if err := s.store.Save(ctx, state); err != nil {
		s.logger.Error("Failed to save state", zap.Error(err))
		return false, fmt.Errorf("save state: %w", err)
	}

	s.logger.Info("Schedule exception removed",
		zap.Int64("schedule_id", scheduleID),
		zap.String("date", date.String()))

	return true, nil
}

// Upcoming возвращает занятия всех расписаний в окне [today, today+days].
// days <= 0 означает окно по умолчанию.
func (s *ScheduleService) Upcoming(ctx context.Context, today calendar.Date, days int) ([]model.Occurrence, error) {
	if days <= 0 {
		days = s.settings.UpcomingDays
	}
	from, to := occurrence.Window(today, days)
	return s.Range(ctx, from, to)
}

// Range возвращает занятия в произвольном закрытом интервале дат
func (s *ScheduleService) Range(ctx context.Context, from, to calendar.Date) ([]model.Occurrence, error) {
	state, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return occurrence.InRange(state.Schedules, occurrence.NamesFrom(state.StudentNames()), from, to), nil
}

// Today возвращает текущую календарную дату в часовом поясе репетитора
func (s *ScheduleService) Today() calendar.Date {
	return calendar.Today(s.now(), s.settings.Location)
}

// CompleteOccurrence превращает запланированное занятие в запись Lesson.
// Ставка берётся у ученика на момент вызова. Разовое расписание после этого удаляется.
func (s *ScheduleService) CompleteOccurrence(ctx context.Context, scheduleID int64, date calendar.Date, notes string) (*model.LessonView, error) {
	if date.IsZero() {
		return nil, invalidf("lesson date is required")
	}
	notes = strings.TrimSpace(notes)

	var (
		view     model.LessonView
		consumed bool
	)
	err := s.mutate(ctx, func(state *model.State) error {
		sc := state.FindSchedule(scheduleID)
		if sc == nil {
			return notFound("schedule", scheduleID)
		}

		rate := s.settings.DefaultHourlyRate
		name := model.UnknownStudentName
		if student := state.FindStudent(sc.StudentID); student != nil {
			name = student.Name
			if student.HourlyRate > 0 {
				rate = student.HourlyRate
			}
		} else {
			s.logger.Warn("Schedule refers to missing student, using default rate",
				zap.Int64("schedule_id", scheduleID),
				zap.Int64("student_id", sc.StudentID))
		}

		if notes == "" {
			notes = sc.Notes
		}

		lesson := model.Lesson{
			ID:              state.NewID(),
			StudentID:       sc.StudentID,
			Date:            date,
			DurationMinutes: sc.DurationMinutes,
			HourlyRate:      rate,
			Notes:           notes,
			CreatedAt:       s.nowUTC(),
		}
		if lesson.DurationMinutes <= 0 {
			lesson.DurationMinutes = s.settings.DefaultDurationMinutes
		}
		state.Lessons = append(state.Lessons, lesson)

		if !sc.IsRecurring {
			state.Schedules = slices.DeleteFunc(state.Schedules, func(x model.Schedule) bool { return x.ID == scheduleID })
			consumed = true
		}

		view = model.LessonView{Lesson: lesson, StudentName: name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Occurrence completed",
		zap.Int64("schedule_id", scheduleID),
		zap.Int64("lesson_id", view.ID),
		zap.String("date", date.String()),
		zap.Float64("hourly_rate", view.HourlyRate),
		zap.Bool("schedule_consumed", consumed))

	return &view, nil
}

// build проверяет форму и собирает расписание без id и даты создания
func (s *ScheduleService) build(in ScheduleInput) (model.Schedule, error) {
	in.Time = strings.TrimSpace(in.Time)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := s.validate(in); err != nil {
		return model.Schedule{}, err
	}

	sc := model.Schedule{
		StudentID:       in.StudentID,
		IsRecurring:     in.IsRecurring,
		Time:            in.Time,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}
	if sc.DurationMinutes == 0 {
		sc.DurationMinutes = s.settings.DefaultDurationMinutes
	}

	if !in.IsRecurring {
		if in.Date == nil || in.Date.IsZero() {
			return model.Schedule{}, invalidf("date is required for a one-off schedule")
		}
		date := *in.Date
		sc.Date = &date
		return sc, nil
	}

	days := make([]string, 0, len(in.DaysOfWeek))
	for _, raw := range in.DaysOfWeek {
		wd, _ := calendar.ParseDayName(raw)
		name := calendar.WeekdayName(wd)
		if !slices.Contains(days, name) {
			days = append(days, name)
		}
	}
	if len(days) == 0 {
		return model.Schedule{}, invalidf("at least one day of week is required")
	}

	interval := in.Frequency.Interval()
	if interval == 0 {
		interval = in.Interval
	}
	if interval < 1 {
		return model.Schedule{}, invalidf("interval must be at least one week")
	}

	sc.DaysOfWeek = days
	sc.Frequency = in.Frequency
	if sc.Frequency == "" {
		sc.Frequency = frequencyFor(interval)
	}
	sc.Interval = interval
	if in.EndDate != nil && !in.EndDate.IsZero() {
		end := *in.EndDate
		sc.EndDate = &end
	}

	return sc, nil
}

func (s *ScheduleService) buildException(in ExceptionInput) (model.Exception, error) {
	in.RescheduleTime = strings.TrimSpace(in.RescheduleTime)
	if err := s.validate(in); err != nil {
		return model.Exception{}, err
	}
	if in.Date.IsZero() {
		return model.Exception{}, invalidf("exception date is required")
	}

	exc := model.Exception{Date: in.Date, Action: in.Action}
	if in.Action == model.ExceptionReschedule {
		if in.RescheduleTo == nil || in.RescheduleTo.IsZero() {
			return model.Exception{}, invalidf("reschedule_to is required for reschedule")
		}
		to := *in.RescheduleTo
		exc.RescheduleTo = &to
		exc.RescheduleTime = in.RescheduleTime
	}

	return exc, nil
}

func frequencyFor(interval int) model.Frequency {
	for _, f := range []model.Frequency{model.FrequencyWeekly, model.FrequencyBiweekly, model.FrequencyMonthly} {
		if f.Interval() == interval {
			return f
		}
	}
	return model.FrequencyCustom
}
