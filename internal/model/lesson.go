package model

import (
	"time"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
)

// Lesson is a lesson that actually happened.
type Lesson struct {
	ID              int64         `json:"id" yaml:"id"`
	StudentID       int64         `json:"student_id" yaml:"student_id"`
	Date            calendar.Date `json:"date" yaml:"date"`
	DurationMinutes int           `json:"duration_minutes" yaml:"duration_minutes"`
	HourlyRate      float64       `json:"hourly_rate" yaml:"hourly_rate"` // ставка на момент занятия
	Notes           string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	IsPaid          bool          `json:"is_paid" yaml:"is_paid"`
	CreatedAt       time.Time     `json:"created_at" yaml:"created_at"`
}

// Amount returns what the lesson costs: rate * minutes / 60.
func (l *Lesson) Amount() float64 {
	return LessonAmount(l.HourlyRate, l.DurationMinutes)
}

// LessonAmount is the billing formula shared by lessons and previews.
func LessonAmount(hourlyRate float64, durationMinutes int) float64 {
	return hourlyRate * float64(durationMinutes) / 60
}

// LessonView is a Lesson annotated with the student's display name.
type LessonView struct {
	Lesson
	StudentName string `json:"student_name"`
}
