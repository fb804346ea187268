package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Freeeeeet/tutor_bot/internal/service"
)

// Драйверы хранилища состояния
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// StorageConfig где лежит состояние
type StorageConfig struct {
	Driver        string `mapstructure:"STORAGE_DRIVER"`
	DataFile      string `mapstructure:"DATA_FILE"`
	DBDSN         string `mapstructure:"DB_DSN"`
	StateKey      string `mapstructure:"STATE_KEY"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

// PracticeConfig значения по умолчанию для занятий и окон выборки
type PracticeConfig struct {
	DigestCron             string  `mapstructure:"DIGEST_CRON"`
	UpcomingDays           int     `mapstructure:"UPCOMING_DAYS"`
	PreviewDays            int     `mapstructure:"DASHBOARD_PREVIEW_DAYS"`
	PreviewCount           int     `mapstructure:"DASHBOARD_PREVIEW_COUNT"`
	DefaultHourlyRate      float64 `mapstructure:"DEFAULT_HOURLY_RATE"`
	DefaultDurationMinutes int     `mapstructure:"DEFAULT_DURATION_MINUTES"`
	CurrencySymbol         string  `mapstructure:"CURRENCY_SYMBOL"`
	Timezone               string  `mapstructure:"TIMEZONE"`
}

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	TutorChatID   int64  `mapstructure:"TUTOR_CHAT_ID"`
	Environment   string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`

	Storage  StorageConfig  `mapstructure:",squash"`
	Practice PracticeConfig `mapstructure:",squash"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (storage: %s)\n", cfg.Storage.Driver)

	return cfg, nil
}

// setDefaults регистрирует все ключи: AutomaticEnv видит только известные viper ключи
func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("TUTOR_CHAT_ID", 0)

	v.SetDefault("STORAGE_DRIVER", DriverFile)
	v.SetDefault("DATA_FILE", "data/tutoring.json")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("STATE_KEY", "tutoring-data")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DIGEST_CRON", "0 8 * * *")
	v.SetDefault("UPCOMING_DAYS", 14)
	v.SetDefault("DASHBOARD_PREVIEW_DAYS", 7)
	v.SetDefault("DASHBOARD_PREVIEW_COUNT", 5)
	v.SetDefault("DEFAULT_HOURLY_RATE", 30.0)
	v.SetDefault("DEFAULT_DURATION_MINUTES", 60)
	v.SetDefault("CURRENCY_SYMBOL", "€")
	v.SetDefault("TIMEZONE", "")
}

func (c *Config) normalize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	c.Practice.DigestCron = strings.TrimSpace(c.Practice.DigestCron)
}

// Validate проверяет обязательные поля для выбранного драйвера
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for file storage")
		}
	case DriverPostgres:
		if c.Storage.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required but not set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// RequireTelegram нужен только боту: остальные бинарники работают без токена
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.Storage.DBDSN
}

// Location часовой пояс, в котором считается "сегодня"; пустой TIMEZONE - локальный
func (c *Config) Location() (*time.Location, error) {
	if c.Practice.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Practice.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", c.Practice.Timezone, err)
	}
	return loc, nil
}

// ServiceSettings переводит конфиг в настройки сервисов
func (c *Config) ServiceSettings() service.Settings {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}

	return service.Settings{
		DefaultHourlyRate:      c.Practice.DefaultHourlyRate,
		DefaultDurationMinutes: c.Practice.DefaultDurationMinutes,
		UpcomingDays:           c.Practice.UpcomingDays,
		PreviewDays:            c.Practice.PreviewDays,
		PreviewCount:           c.Practice.PreviewCount,
		Location:               loc,
	}
}
