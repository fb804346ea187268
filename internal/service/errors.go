package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound запись с указанным id отсутствует
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput входные данные отклонены до любых изменений
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotRecurring исключения можно добавлять только к регулярному расписанию
	ErrNotRecurring = fmt.Errorf("%w: schedule is not recurring", ErrInvalidInput)
)

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
