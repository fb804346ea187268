package callbacks

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/formatting"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// OccurrenceActions то, что кнопки делают с занятием
type OccurrenceActions interface {
	CompleteOccurrence(ctx context.Context, scheduleID int64, date calendar.Date, notes string) (*model.LessonView, error)
	SkipOccurrence(ctx context.Context, scheduleID int64, date calendar.Date) error
	Currency() string
}

// Handler обрабатывает нажатия inline кнопок
type Handler struct {
	actions OccurrenceActions
	logger  *zap.Logger
}

// NewHandler создаёт обработчик callback-ов
func NewHandler(actions OccurrenceActions, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{actions: actions, logger: logger}
}

// HandleCallbackQuery маршрутизирует callback по префиксу данных
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	callback := update.CallbackQuery

	h.logger.Debug("Callback received",
		zap.Int64("telegram_id", callback.From.ID),
		zap.String("data", callback.Data))

	answer, alert, followUp := h.Dispatch(ctx, callback.Data)
	if alert {
		common.AnswerCallbackAlert(ctx, b, callback.ID, answer)
	} else {
		common.AnswerCallback(ctx, b, callback.ID, answer)
	}

	if followUp == "" {
		return
	}
	chatID, ok := common.ChatIDOf(update)
	if !ok {
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: followUp}); err != nil {
		h.logger.Error("Failed to send callback follow-up", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// Dispatch выполняет действие кнопки и возвращает ответ на callback,
// признак alert и необязательное сообщение в чат
func (h *Handler) Dispatch(ctx context.Context, data string) (answer string, alert bool, followUp string) {
	action, err := common.ParseOccurrenceAction(data)
	if err != nil {
		h.logger.Warn("Unknown callback data", zap.String("data", data), zap.Error(err))
		return common.ErrorMessage(err), true, ""
	}

	switch action.Action {
	case common.ActionDone:
		lesson, err := h.actions.CompleteOccurrence(ctx, action.ScheduleID, action.Date, "")
		if err != nil {
			h.logFailure("complete occurrence", action, err)
			return common.ErrorMessage(err), true, ""
		}
		return "✅ Записано", false, formatting.FormatLesson(lesson, h.actions.Currency())

	case common.ActionSkip:
		if err := h.actions.SkipOccurrence(ctx, action.ScheduleID, action.Date); err != nil {
			h.logFailure("skip occurrence", action, err)
			return common.ErrorMessage(err), true, ""
		}
		return "⏭ Пропущено", false, fmt.Sprintf("⏭ Занятие #%d на %s пропущено",
			action.ScheduleID, formatting.FormatDate(action.Date))
	}

	return common.ErrorMessage(common.ErrInvalidFormat), true, ""
}

func (h *Handler) logFailure(operation string, action common.OccurrenceAction, err error) {
	h.logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Int64("schedule_id", action.ScheduleID),
		zap.Stringer("date", action.Date),
		zap.Error(err))
}
