package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/app"
	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/config"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

// Рисует картинку недели из настроенного хранилища:
//
//	week_image [YYYY-MM-DD] [файл.png]
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()
	store, closeStore, err := app.OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	settings := cfg.ServiceSettings()
	schedules := service.NewScheduleService(store, validator.New(), settings, logger)

	today := schedules.Today()
	day := today
	if len(os.Args) > 1 {
		day, err = calendar.ParseDate(os.Args[1])
		if err != nil {
			fmt.Printf("Неверная дата: %v\n", err)
			os.Exit(1)
		}
	}

	filename := "week.png"
	if len(os.Args) > 2 {
		filename = os.Args[2]
	}

	monday := calendar.MondayOf(day)
	sunday := monday.AddDays(6)

	occurrences, err := schedules.Range(ctx, monday, sunday)
	if err != nil {
		fmt.Printf("Ошибка чтения расписаний: %v\n", err)
		os.Exit(1)
	}

	// Генерируем изображение
	imageData, err := common.GenerateWeekImage(common.WeekImage{
		Week:        monday,
		Today:       today,
		Now:         time.Now().In(settings.Location),
		Occurrences: occurrences,
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	// Сохраняем в файл
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", filename)
	fmt.Printf("📅 Период: %s - %s\n", monday.Time().Format("02.01.2006"), sunday.Time().Format("02.01.2006"))
	fmt.Printf("📊 Занятий: %d\n", len(occurrences))
}
