package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/formatting"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Расписание:\n" +
	"/today - Занятия на сегодня\n" +
	"/upcoming [дни] - Ближайшие занятия\n" +
	"/week [YYYY-MM-DD] - Картинка недели\n" +
	"/schedules - Все расписания\n" +
	"/students - Ученики\n\n" +
	"Занятия:\n" +
	"/done <id> <дата> [заметка] - Провёл занятие\n" +
	"/skip <id> <дата> - Пропустить занятие\n" +
	"/move <id> <дата> <новая дата> [ЧЧ:ММ] - Перенести занятие\n" +
	"/unskip <id> <дата> - Отменить пропуск или перенос\n\n" +
	"Деньги и выгрузки:\n" +
	"/unpaid - Кто сколько должен\n" +
	"/pay <id ученика> <сумма> [id занятий...] - Записать оплату\n" +
	"/markpaid <id занятий...> - Отметить занятия оплаченными\n" +
	"/ics [дни|all] - Календарь для импорта\n" +
	"/statement <id ученика> [csv] - Выписка по ученику\n\n" +
	"<id> - номер расписания из /schedules, дата в формате YYYY-MM-DD или ДД.ММ.ГГГГ"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "репетитор"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я веду расписание занятий, пропуски и переносы, учёт проведённых занятий и оплат.\n\n"+
			"ID этого чата: %d\n"+
			"Укажите его в TUTOR_CHAT_ID, чтобы бот отвечал только вам и присылал утренний дайджест.\n\n"+
			"Справка: /help",
		name,
		update.Message.Chat.ID,
	)

	preview, err := h.dashboardService.UpcomingPreview(ctx, h.scheduleService.Today())
	if err != nil {
		h.logger.Error("Failed to load upcoming preview", zap.Error(err))
	} else if len(preview) > 0 {
		welcomeText += "\n\n" + formatting.FormatOccurrenceList("⏭ Ближайшие занятия:", preview)
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleToday обрабатывает команду /today
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	today := h.scheduleService.Today()

	occurrences, err := h.scheduleService.Range(ctx, today, today)
	if err != nil {
		h.replyError(ctx, b, chatID, "today", err, "")
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatDigest(today, occurrences), OccurrenceKeyboard(occurrences))
}

// HandleUpcoming обрабатывает команду /upcoming [дни]
func (h *Handlers) HandleUpcoming(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	days, err := parseDays(commandArgs(update.Message.Text), h.opts.UpcomingDays)
	if err != nil {
		h.replyError(ctx, b, chatID, "upcoming", err, "/upcoming [1-90]")
		return
	}

	occurrences, err := h.scheduleService.Upcoming(ctx, h.scheduleService.Today(), days)
	if err != nil {
		h.replyError(ctx, b, chatID, "upcoming", err, "")
		return
	}

	title := fmt.Sprintf("📅 Ближайшие занятия (%d дн.)", days)
	h.sendMessage(ctx, b, chatID, formatting.FormatOccurrenceList(title, occurrences), OccurrenceKeyboard(occurrences))
}

// HandleWeek обрабатывает команду /week [дата] - картинка недели
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	today := h.scheduleService.Today()

	day := today
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		parsed, err := parseDate(args[0])
		if err != nil {
			h.replyError(ctx, b, chatID, "week", err, "/week [YYYY-MM-DD]")
			return
		}
		day = parsed
	}

	monday := calendar.MondayOf(day)
	occurrences, err := h.scheduleService.Range(ctx, monday, monday.AddDays(6))
	if err != nil {
		h.replyError(ctx, b, chatID, "week", err, "")
		return
	}

	imageData, err := common.GenerateWeekImage(common.WeekImage{
		Week:        monday,
		Today:       today,
		Now:         h.now().In(h.opts.Location),
		Occurrences: occurrences,
	})
	if err != nil {
		h.replyError(ctx, b, chatID, "week image", err, "")
		return
	}

	caption := fmt.Sprintf("🗓 Неделя с %s: %d %s",
		formatting.FormatDate(monday), len(occurrences), formatting.PluralizeLessons(len(occurrences)))

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleSchedules обрабатывает команду /schedules
func (h *Handlers) HandleSchedules(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	schedules, err := h.scheduleService.List(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, "schedules", err, "")
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatScheduleList(schedules), nil)
}

// HandleUnpaid обрабатывает команду /unpaid
func (h *Handlers) HandleUnpaid(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	stats, err := h.dashboardService.Stats(ctx, h.scheduleService.Today())
	if err != nil {
		h.replyError(ctx, b, chatID, "unpaid", err, "")
		return
	}

	debts, err := h.dashboardService.UnpaidByStudent(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, "unpaid", err, "")
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatDebts(stats, debts, h.opts.Currency), nil)
}

// HandleStudents обрабатывает команду /students
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	students, err := h.studentService.List(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, "students", err, "")
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatStudents(students, h.opts.Currency), nil)
}
