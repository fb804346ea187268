package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/formatting"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

const (
	usageDone   = "/done <id> <дата> [заметка]"
	usageSkip   = "/skip <id> <дата>"
	usageMove   = "/move <id> <дата> <новая дата> [ЧЧ:ММ]"
	usageUnskip = "/unskip <id> <дата>"
)

// HandleDone обрабатывает /done - записывает проведённое занятие
func (h *Handlers) HandleDone(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseOccurrenceArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, "done", err, usageDone)
		return
	}

	lesson, err := h.CompleteOccurrence(ctx, args.ScheduleID, args.Date, strings.Join(args.Rest, " "))
	if err != nil {
		h.replyError(ctx, b, chatID, "done", err, usageDone)
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatLesson(lesson, h.opts.Currency), nil)
}

// HandleSkip обрабатывает /skip - пропуск одного занятия
func (h *Handlers) HandleSkip(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseOccurrenceArgs(commandArgs(update.Message.Text))
	if err == nil && len(args.Rest) > 0 {
		err = fmt.Errorf("%w: unexpected arguments", common.ErrUsage)
	}
	if err != nil {
		h.replyError(ctx, b, chatID, "skip", err, usageSkip)
		return
	}

	if err := h.SkipOccurrence(ctx, args.ScheduleID, args.Date); err != nil {
		h.replyError(ctx, b, chatID, "skip", err, usageSkip)
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("⏭ Занятие #%d на %s пропущено", args.ScheduleID, formatting.FormatDate(args.Date)), nil)
}

// HandleMove обрабатывает /move - перенос занятия на другую дату и время
func (h *Handlers) HandleMove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseMoveArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, "move", err, usageMove)
		return
	}

	target := args.Target
	_, err = h.scheduleService.AddException(ctx, args.ScheduleID, service.ExceptionInput{
		Date:           args.Date,
		Action:         model.ExceptionReschedule,
		RescheduleTo:   &target,
		RescheduleTime: args.Time,
	})
	if err != nil {
		h.replyError(ctx, b, chatID, "move", err, usageMove)
		return
	}

	text := fmt.Sprintf("↪️ Занятие #%d перенесено: %s → %s",
		args.ScheduleID, formatting.FormatDate(args.Date), formatting.FormatDate(args.Target))
	if args.Time != "" {
		text += " " + args.Time
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}

// HandleUnskip обрабатывает /unskip - снимает пропуск или перенос
func (h *Handlers) HandleUnskip(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseOccurrenceArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, "unskip", err, usageUnskip)
		return
	}

	removed, err := h.scheduleService.RemoveException(ctx, args.ScheduleID, args.Date)
	if err != nil {
		h.replyError(ctx, b, chatID, "unskip", err, usageUnskip)
		return
	}

	if !removed {
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("ℹ️ У расписания #%d нет исключения на %s", args.ScheduleID, formatting.FormatDate(args.Date)), nil)
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("↩️ Занятие #%d на %s вернулось в расписание", args.ScheduleID, formatting.FormatDate(args.Date)), nil)
}

// CompleteOccurrence общий путь /done и кнопки "провёл"
func (h *Handlers) CompleteOccurrence(ctx context.Context, scheduleID int64, date calendar.Date, notes string) (*model.LessonView, error) {
	return h.scheduleService.CompleteOccurrence(ctx, scheduleID, date, notes)
}

// SkipOccurrence общий путь /skip и кнопки "пропуск"
func (h *Handlers) SkipOccurrence(ctx context.Context, scheduleID int64, date calendar.Date) error {
	_, err := h.scheduleService.AddException(ctx, scheduleID, service.ExceptionInput{
		Date:   date,
		Action: model.ExceptionSkip,
	})
	return err
}

// Currency символ валюты для ответов callback-обработчиков
func (h *Handlers) Currency() string {
	return h.opts.Currency
}
