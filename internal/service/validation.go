package service

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
)

// ClockLayout формат времени занятия
const ClockLayout = "15:04"

func registerValidations(v *validator.Validate) {
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := calendar.ParseDayName(fl.Field().String())
		return ok
	})
}

// IsClock проверяет строку вида HH:MM
func IsClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}
