package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/formatting"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/keyboard"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

// maxKeyboardRows Telegram плохо показывает длинные клавиатуры
const maxKeyboardRows = 10

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// replyError переводит ошибку сервиса в сообщение; usage добавляется к ошибкам формата
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, operation string, err error, usage string) {
	switch {
	case errors.Is(err, common.ErrUsage), errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNotFound):
		h.logger.Warn("Command rejected",
			zap.String("operation", operation),
			zap.Error(err))
	default:
		h.logger.Error("Operation failed",
			zap.String("operation", operation),
			zap.Error(err))
	}

	text := common.ErrorMessage(err)
	if usage != "" && errors.Is(err, common.ErrUsage) {
		text += "\n\nФормат: " + usage
	}
	h.sendError(ctx, b, chatID, text)
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendDocument отправляет файл
func (h *Handlers) sendDocument(ctx context.Context, b *bot.Bot, chatID int64, filename string, data []byte, caption string) {
	_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:  caption,
	})
	if err != nil {
		h.logger.Error("Failed to send document",
			zap.Int64("chat_id", chatID),
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

// OccurrenceKeyboard кнопки "провёл" и "пропуск" под списком занятий.
// Пропуск ставится по исходной дате, у разовых расписаний его нет.
func OccurrenceKeyboard(occurrences []model.Occurrence) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()

	for i := range occurrences {
		if kb.Len() == maxKeyboardRows {
			break
		}
		o := &occurrences[i]

		label := fmt.Sprintf("✅ %s %s %s", formatting.FormatDateShort(o.Date), o.Time, o.StudentName)
		done := common.OccurrenceAction{Action: common.ActionDone, ScheduleID: o.ScheduleID, Date: o.Date}

		if !o.IsRecurringInstance {
			kb.Row(keyboard.Button(label, done.Data()))
			continue
		}

		original := o.Date
		if o.OriginalDate != nil {
			original = *o.OriginalDate
		}
		skip := common.OccurrenceAction{Action: common.ActionSkip, ScheduleID: o.ScheduleID, Date: original}
		kb.Row(
			keyboard.Button(label, done.Data()),
			keyboard.Button("⏭ Пропуск", skip.Data()),
		)
	}

	return kb.Build()
}
