package common

import (
	"errors"

	"github.com/Freeeeeet/tutor_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrUsage         = errors.New("bad command arguments")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrUsage):
		return "❌ Неверные аргументы команды. Справка: /help"
	case errors.Is(err, service.ErrNotRecurring):
		return "❌ Пропуск и перенос возможны только для повторяющегося расписания"
	case errors.Is(err, service.ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, service.ErrInvalidInput):
		return "❌ Неверные данные"
	default:
		return "❌ Произошла ошибка"
	}
}
