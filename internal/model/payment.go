package model

import (
	"time"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
)

// Payment records money received from a student, optionally covering lessons.
type Payment struct {
	ID        int64         `json:"id" yaml:"id"`
	StudentID int64         `json:"student_id" yaml:"student_id"`
	Amount    float64       `json:"amount" yaml:"amount"`
	Date      calendar.Date `json:"date" yaml:"date"`
	Notes     string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	LessonIDs []int64       `json:"lesson_ids" yaml:"lesson_ids"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
}

// Covers reports whether the payment lists the lesson.
func (p *Payment) Covers(lessonID int64) bool {
	for _, id := range p.LessonIDs {
		if id == lessonID {
			return true
		}
	}
	return false
}

// PaymentView is a Payment with its student name and covered lessons.
type PaymentView struct {
	Payment
	StudentName string   `json:"student_name"`
	Lessons     []Lesson `json:"lessons"`
}
