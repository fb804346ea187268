package model

import "github.com/Freeeeeet/tutor_bot/internal/calendar"

type ExceptionAction string

const (
	ExceptionSkip       ExceptionAction = "skip"       // занятие не состоится
	ExceptionReschedule ExceptionAction = "reschedule" // занятие перенесено
)

// Exception overrides one occurrence of a recurring schedule. It is keyed by
// the date the occurrence was originally scheduled on.
type Exception struct {
	Date           calendar.Date   `json:"date" yaml:"date"`
	Action         ExceptionAction `json:"action" yaml:"action"`
	RescheduleTo   *calendar.Date  `json:"reschedule_to,omitempty" yaml:"reschedule_to,omitempty"`
	RescheduleTime string          `json:"reschedule_time,omitempty" yaml:"reschedule_time,omitempty"`
}

// IsSkip checks if the exception suppresses the occurrence
func (e *Exception) IsSkip() bool {
	return e.Action == ExceptionSkip
}

// IsReschedule checks if the exception moves the occurrence
func (e *Exception) IsReschedule() bool {
	return e.Action == ExceptionReschedule
}
