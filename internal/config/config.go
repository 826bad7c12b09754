package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"salonbot/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Supabase   SupabaseConfig   `yaml:"supabase"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Bot        BotConfig        `yaml:"bot"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	AdminID  int64  `yaml:"admin_id"`
	Debug    bool   `yaml:"debug"`
}

type SupabaseConfig struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

type CalendarConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	CalendarID      string `yaml:"calendar_id"`
	Timezone        string `yaml:"timezone"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	HealthCheckPort   int  `yaml:"health_check_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type BotConfig struct {
	ReminderTime        string `yaml:"reminder_time"` // ЧЧ:ММ локального времени салона
	WorkStartHour       int    `yaml:"work_start_hour"`
	WorkEndHour         int    `yaml:"work_end_hour"`
	SlotStepMinutes     int    `yaml:"slot_step_minutes"`
	SlotDurationMinutes int    `yaml:"slot_duration_minutes"`
	BookingDaysAhead    int    `yaml:"booking_days_ahead"`
	RateLimitMessages   int    `yaml:"rate_limit_messages"`
	RateLimitWindow     int    `yaml:"rate_limit_window"`
}

func Load(configPath string) (*Config, error) {
	// .env не обязателен, но если есть — подхватываем до ExpandEnv
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}
	if c.Supabase.URL == "" {
		return errors.New("supabase url is required")
	}
	if c.Supabase.Key == "" {
		return errors.New("supabase key is required")
	}
	if c.Calendar.CalendarID == "" {
		return errors.New("calendar id is required")
	}
	if _, err := time.Parse("15:04", c.Bot.ReminderTime); err != nil {
		return fmt.Errorf("bot.reminder_time must be HH:MM: %w", err)
	}
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	if c.Bot.WorkStartHour < 0 || c.Bot.WorkEndHour > 23 || c.Bot.WorkStartHour > c.Bot.WorkEndHour {
		return fmt.Errorf("bot work hours are invalid: %d..%d", c.Bot.WorkStartHour, c.Bot.WorkEndHour)
	}
	return nil
}

// Location возвращает таймзону салона; Validate гарантирует, что она парсится.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) applyDefaults() {
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = "Europe/Moscow"
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8080
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	// Bot defaults
	if c.Bot.ReminderTime == "" {
		c.Bot.ReminderTime = "19:00"
	}
	if c.Bot.WorkStartHour == 0 {
		c.Bot.WorkStartHour = models.DefaultWorkStartHour
	}
	if c.Bot.WorkEndHour == 0 {
		c.Bot.WorkEndHour = models.DefaultWorkEndHour
	}
	if c.Bot.SlotStepMinutes == 0 {
		c.Bot.SlotStepMinutes = models.DefaultSlotStepMinutes
	}
	if c.Bot.SlotDurationMinutes == 0 {
		c.Bot.SlotDurationMinutes = models.DefaultSlotDurationMinutes
	}
	if c.Bot.BookingDaysAhead == 0 {
		c.Bot.BookingDaysAhead = models.DefaultBookingDaysAhead
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
}
