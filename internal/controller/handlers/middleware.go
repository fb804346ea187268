package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
)

// Allowed бот обслуживает только чат репетитора; без TUTOR_CHAT_ID - любой чат
func Allowed(tutorChatID int64, update *models.Update) bool {
	if tutorChatID == 0 {
		return true
	}
	chatID, ok := common.ChatIDOf(update)
	return ok && chatID == tutorChatID
}

// ChatGuard middleware, отбрасывающий апдейты из чужих чатов
func ChatGuard(tutorChatID int64, logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if !Allowed(tutorChatID, update) {
				chatID, _ := common.ChatIDOf(update)
				logger.Warn("Ignoring update from foreign chat", zap.Int64("chat_id", chatID))
				return
			}
			next(ctx, b, update)
		}
	}
}
