package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbot/internal/bot"
	"salonbot/internal/calendar"
	"salonbot/internal/config"
	"salonbot/internal/domain"
	"salonbot/internal/events"
	"salonbot/internal/logging"
	"salonbot/internal/models"
	"salonbot/internal/repository"
	"salonbot/internal/service"
	"salonbot/internal/storage"
	"salonbot/internal/web"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.Key, cfg.Location(), &logger)

	googleCalendar, err := calendar.NewGoogleCalendar(ctx, cfg.Calendar.CredentialsFile, cfg.Calendar.CalendarID, cfg.Location(), &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации календаря")
		return err
	}

	redisClient, stateService := initStateService(ctx, cfg, &logger)
	defer func() { _ = repository.Close(redisClient) }()

	eventBus := events.NewEventBus()

	webServer := web.NewServer(cfg.Monitoring, &logger)
	go func() {
		if err := webServer.Start(); err != nil {
			logger.Error().Err(err).Msg("Health server error")
		}
	}()
	defer func() {
		_ = webServer.Shutdown(context.Background())
	}()

	return startBot(ctx, cfg, store, googleCalendar, stateService, eventBus, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	return cfg, logger, closer, nil
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	primaryRepo := repository.NewRedisDraftRepository(redisClient, time.Duration(models.DraftTTL)*time.Second)
	fallbackRepo := repository.NewMemoryDraftRepository(time.Duration(models.DraftTTL) * time.Second)
	draftRepo := repository.NewFailoverDraftRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewStateService(draftRepo, logger)
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	store domain.Store,
	googleCalendar domain.Calendar,
	stateService *service.StateService,
	eventBus *events.EventBus,
	logger *zerolog.Logger,
) error {
	if cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Error().Msg("Задайте токен бота в config.yaml")
		return os.ErrInvalid
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)

	notifier := service.NewAdminNotifier(tgService, cfg.Telegram.AdminID, logger)
	notifier.Register(eventBus)

	bookingService := service.NewBookingService(store, googleCalendar, eventBus, bot.GridFromConfig(cfg), cfg.Location(), logger)

	telegramBot := bot.NewBot(tgService, cfg, stateService, bookingService, store, bot.NewMetrics(), logger)

	logger.Info().Msg("Бот запущен...")
	telegramBot.StartReminders(ctx)
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
