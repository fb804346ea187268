package handlers

import (
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/service"
)

// Options настройки отображения, общие для всех команд
type Options struct {
	Currency     string
	Location     *time.Location
	UpcomingDays int
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	studentService   *service.StudentService
	lessonService    *service.LessonService
	paymentService   *service.PaymentService
	scheduleService  *service.ScheduleService
	dashboardService *service.DashboardService
	opts             Options
	now              func() time.Time
	logger           *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	studentService *service.StudentService,
	lessonService *service.LessonService,
	paymentService *service.PaymentService,
	scheduleService *service.ScheduleService,
	dashboardService *service.DashboardService,
	opts Options,
	logger *zap.Logger,
) *Handlers {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.UpcomingDays <= 0 {
		opts.UpcomingDays = service.DefaultSettings().UpcomingDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handlers{
		studentService:   studentService,
		lessonService:    lessonService,
		paymentService:   paymentService,
		scheduleService:  scheduleService,
		dashboardService: dashboardService,
		opts:             opts,
		now:              time.Now,
		logger:           logger,
	}
}
