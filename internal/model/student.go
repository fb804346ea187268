package model

import "time"

// Student is a person the tutor teaches.
type Student struct {
	ID         int64     `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Email      string    `json:"email,omitempty" yaml:"email,omitempty"`
	Phone      string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Notes      string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	HourlyRate float64   `json:"hourly_rate" yaml:"hourly_rate"` // в валюте, не в центах
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// StudentSummary is a Student with billing counters, as shown in the roster.
type StudentSummary struct {
	Student
	LessonCount  int     `json:"lesson_count"`
	UnpaidCount  int     `json:"unpaid_count"`
	UnpaidAmount float64 `json:"unpaid_amount"`
}

// StudentDetail is a Student with its full history.
type StudentDetail struct {
	Student
	Lessons  []Lesson  `json:"lessons"`
	Payments []Payment `json:"payments"`
}
