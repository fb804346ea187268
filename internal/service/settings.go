package service

import "time"

// Settings значения по умолчанию, общие для всех сервисов
type Settings struct {
	DefaultHourlyRate      float64
	DefaultDurationMinutes int
	UpcomingDays           int
	PreviewDays            int
	PreviewCount           int
	Location               *time.Location
}

// DefaultSettings возвращает настройки как в исходном клиенте
func DefaultSettings() Settings {
	return Settings{
		DefaultHourlyRate:      30,
		DefaultDurationMinutes: 60,
		UpcomingDays:           14,
		PreviewDays:            7,
		PreviewCount:           5,
		Location:               time.Local,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DefaultHourlyRate <= 0 {
		s.DefaultHourlyRate = d.DefaultHourlyRate
	}
	if s.DefaultDurationMinutes <= 0 {
		s.DefaultDurationMinutes = d.DefaultDurationMinutes
	}
	if s.UpcomingDays <= 0 {
		s.UpcomingDays = d.UpcomingDays
	}
	if s.PreviewDays <= 0 {
		s.PreviewDays = d.PreviewDays
	}
	if s.PreviewCount <= 0 {
		s.PreviewCount = d.PreviewCount
	}
	if s.Location == nil {
		s.Location = d.Location
	}
	return s
}
