package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// Notifier доставляет дайджест репетитору
type Notifier interface {
	NotifyDigest(ctx context.Context, day calendar.Date, occurrences []model.Occurrence) error
}

// OccurrenceSource отдаёт занятия за интервал дат
type OccurrenceSource interface {
	Range(ctx context.Context, from, to calendar.Date) ([]model.Occurrence, error)
	Today() calendar.Date
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron     *cron.Cron
	expr     string
	source   OccurrenceSource
	notifier Notifier
	logger   *zap.Logger
}

// NewScheduler создаёт новый планировщик; expr - стандартное cron-выражение из пяти полей
func NewScheduler(expr string, loc *time.Location, source OccurrenceSource, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return nil, fmt.Errorf("parse digest cron %q: %w", expr, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{logger: logger.Sugar()}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger.Sugar()})),
	)

	return &Scheduler{
		cron:     c,
		expr:     expr,
		source:   source,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler", zap.String("digest_cron", s.expr))

	_, err := s.cron.AddFunc(s.expr, func() {
		if _, err := s.SendDigest(ctx); err != nil {
			s.logger.Error("Failed to send daily digest", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop останавливает фоновые задачи и ждёт завершения запущенных
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

// SendDigest отправляет сегодняшние занятия; без занятий ничего не отправляется.
// Возвращает количество занятий в дайджесте.
func (s *Scheduler) SendDigest(ctx context.Context) (int, error) {
	today := s.source.Today()

	occurrences, err := s.source.Range(ctx, today, today)
	if err != nil {
		return 0, fmt.Errorf("collect today's lessons: %w", err)
	}

	if len(occurrences) == 0 {
		s.logger.Debug("No lessons today, digest skipped", zap.Stringer("date", today))
		return 0, nil
	}

	if err := s.notifier.NotifyDigest(ctx, today, occurrences); err != nil {
		return 0, fmt.Errorf("notify digest: %w", err)
	}

	s.logger.Info("Daily digest sent",
		zap.Stringer("date", today),
		zap.Int("lessons", len(occurrences)),
	)
	return len(occurrences), nil
}

// cronLogger направляет логи cron в zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
