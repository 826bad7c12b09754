package config

import (
	"os"
	"path/filepath"
	"testing"

	"salonbot/internal/models"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
telegram:
  bot_token: "test_token"
  admin_id: 42
supabase:
  url: "https://example.supabase.co"
  key: "service_key"
calendar:
  calendar_id: "primary"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "test_token" {
		t.Errorf("expected bot_token test_token, got %s", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Errorf("expected admin_id 42, got %d", cfg.Telegram.AdminID)
	}
	if cfg.Calendar.Timezone != "Europe/Moscow" {
		t.Errorf("expected default timezone Europe/Moscow, got %s", cfg.Calendar.Timezone)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_BOT_TOKEN", "env_token")

	yamlContent := `
telegram:
  bot_token: "${TEST_BOT_TOKEN}"
supabase:
  url: "https://example.supabase.co"
  key: "service_key"
calendar:
  calendar_id: "primary"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Telegram.BotToken != "env_token" {
		t.Errorf("expected env substitution, got %s", cfg.Telegram.BotToken)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		Telegram: TelegramConfig{BotToken: "token"},
		Supabase: SupabaseConfig{URL: "https://x.supabase.co", Key: "key"},
		Calendar: CalendarConfig{CalendarID: "primary", Timezone: "Europe/Moscow"},
		Bot:      BotConfig{ReminderTime: "19:00", WorkStartHour: 9, WorkEndHour: 19},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.BotToken = "" }, wantErr: true},
		{name: "missing supabase url", mutate: func(c *Config) { c.Supabase.URL = "" }, wantErr: true},
		{name: "missing calendar id", mutate: func(c *Config) { c.Calendar.CalendarID = "" }, wantErr: true},
		{name: "bad reminder time", mutate: func(c *Config) { c.Bot.ReminderTime = "25:99" }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "inverted work hours", mutate: func(c *Config) { c.Bot.WorkStartHour = 20 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Bot.ReminderTime != "19:00" {
		t.Errorf("expected default reminder time 19:00, got %s", cfg.Bot.ReminderTime)
	}
	if cfg.Bot.WorkStartHour != models.DefaultWorkStartHour {
		t.Errorf("expected default work start %d, got %d", models.DefaultWorkStartHour, cfg.Bot.WorkStartHour)
	}
	if cfg.Bot.WorkEndHour != models.DefaultWorkEndHour {
		t.Errorf("expected default work end %d, got %d", models.DefaultWorkEndHour, cfg.Bot.WorkEndHour)
	}
	if cfg.Bot.SlotDurationMinutes != models.DefaultSlotDurationMinutes {
		t.Errorf("expected default slot duration %d, got %d", models.DefaultSlotDurationMinutes, cfg.Bot.SlotDurationMinutes)
	}
	if cfg.Calendar.Timezone != "Europe/Moscow" {
		t.Errorf("expected default timezone Europe/Moscow, got %s", cfg.Calendar.Timezone)
	}
	if cfg.Bot.RateLimitMessages != models.RateLimitMessages {
		t.Errorf("expected default rate limit messages %d, got %d", models.RateLimitMessages, cfg.Bot.RateLimitMessages)
	}
}
