package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/formatting"
	"github.com/Freeeeeet/tutor_bot/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	tutorChatID     int64
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	studentService *service.StudentService,
	lessonService *service.LessonService,
	paymentService *service.PaymentService,
	scheduleService *service.ScheduleService,
	dashboardService *service.DashboardService,
	opts handlers.Options,
	tutorChatID int64,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		studentService,
		lessonService,
		paymentService,
		scheduleService,
		dashboardService,
		opts,
		logger,
	)

	// Кнопки под занятиями работают через те же операции, что и команды
	callbackHandler := callbacks.NewHandler(cmdHandlers, logger)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		tutorChatID:     tutorChatID,
		logger:          logger,
	}
}

// BotOptions опции для bot.New: бот отвечает только в чате репетитора
func BotOptions(tutorChatID int64, logger *zap.Logger) []bot.Option {
	return []bot.Option{
		bot.WithMiddlewares(handlers.ChatGuard(tutorChatID, logger)),
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды без аргументов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypePrefix, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/schedules", bot.MatchTypePrefix, c.handlers.HandleSchedules)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/students", bot.MatchTypePrefix, c.handlers.HandleStudents)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unpaid", bot.MatchTypePrefix, c.handlers.HandleUnpaid)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/upcoming", bot.MatchTypePrefix, c.handlers.HandleUpcoming)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypePrefix, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/done", bot.MatchTypePrefix, c.handlers.HandleDone)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/skip", bot.MatchTypePrefix, c.handlers.HandleSkip)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/move", bot.MatchTypePrefix, c.handlers.HandleMove)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unskip", bot.MatchTypePrefix, c.handlers.HandleUnskip)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ics", bot.MatchTypePrefix, c.handlers.HandleICS)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/statement", bot.MatchTypePrefix, c.handlers.HandleStatement)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pay", bot.MatchTypePrefix, c.handlers.HandlePay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/markpaid", bot.MatchTypePrefix, c.handlers.HandleMarkPaid)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "☀️ Занятия на сегодня"},
		{Command: "upcoming", Description: "📅 Ближайшие занятия"},
		{Command: "week", Description: "🗓 Картинка недели"},
		{Command: "schedules", Description: "🔁 Все расписания"},
		{Command: "students", Description: "👥 Ученики"},
		{Command: "unpaid", Description: "💰 Неоплаченные занятия"},
		{Command: "ics", Description: "📤 Календарь для импорта"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// NotifyDigest отправляет утренний дайджест в чат репетитора
func (c *BotController) NotifyDigest(ctx context.Context, day calendar.Date, occurrences []model.Occurrence) error {
	if c.tutorChatID == 0 {
		return fmt.Errorf("TUTOR_CHAT_ID is not set, nowhere to send the digest")
	}

	params := &bot.SendMessageParams{
		ChatID: c.tutorChatID,
		Text:   formatting.FormatDigest(day, occurrences),
	}
	if markup := handlers.OccurrenceKeyboard(occurrences); markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
