package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/app"
	"github.com/Freeeeeet/tutor_bot/internal/config"
	"github.com/Freeeeeet/tutor_bot/internal/controller"
	"github.com/Freeeeeet/tutor_bot/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Sugar().Infow("Starting tutor bot",
		"environment", cfg.Environment,
		"storage", cfg.Storage.Driver,
		"token_length", len(cfg.TelegramToken))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := app.OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	settings := cfg.ServiceSettings()
	validate := validator.New()

	studentService := service.NewStudentService(store, validate, settings, logger)
	lessonService := service.NewLessonService(store, validate, settings, logger)
	paymentService := service.NewPaymentService(store, validate, settings, logger)
	scheduleService := service.NewScheduleService(store, validate, settings, logger)
	dashboardService := service.NewDashboardService(store, validate, settings, logger)

	b, err := bot.New(cfg.TelegramToken, controller.BotOptions(cfg.TutorChatID, logger)...)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		b,
		studentService,
		lessonService,
		paymentService,
		scheduleService,
		dashboardService,
		handlers.Options{
			Currency:     cfg.Practice.CurrencySymbol,
			Location:     settings.Location,
			UpcomingDays: settings.UpcomingDays,
		},
		cfg.TutorChatID,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu was not set", zap.Error(err))
	}

	if cfg.TutorChatID == 0 {
		logger.Warn("TUTOR_CHAT_ID is not set: the bot answers any chat and the daily digest is disabled")
	} else {
		scheduler, err := app.NewScheduler(cfg.Practice.DigestCron, settings.Location, scheduleService, botController, logger)
		if err != nil {
			logger.Fatal("Failed to create scheduler", zap.Error(err))
		}
		if err := scheduler.Start(ctx); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	// Блокируется до отмены контекста
	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Tutor bot stopped")
}
