package domain

import (
	"context"
	"time"

	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Store — фасад над удаленным хранилищем (Supabase). Транспортные
// ошибки не покидают фасад: они логируются, а наружу уходит пустое
// значение типа (nil, "", false). Пустой результат для вызывающего
// кода — штатная ситуация.
type Store interface {
	ListCategories(ctx context.Context) []models.ServiceCategory
	ListServices(ctx context.Context, categoryID string) []models.Service
	GetService(ctx context.Context, id string) *models.Service
	CreateAppointment(ctx context.Context, a *models.Appointment) string
	ListAppointmentsForDay(ctx context.Context, day time.Time, status string) []models.Appointment
	GetAppointment(ctx context.Context, id string) *models.Appointment
	UpdateStatus(ctx context.Context, id, status string) bool
	MarkReminded(ctx context.Context, id string) bool
	DeleteAppointment(ctx context.Context, id string) bool
	SetCalendarEventID(ctx context.Context, id, eventID string) bool
	ListUnremindedForTomorrow(ctx context.Context) []models.Appointment
}

// Calendar — шлюз к внешнему календарю. Та же политика ошибок, что и
// у Store: nil/""/false вместо транспортных ошибок.
type Calendar interface {
	BusyStarts(ctx context.Context, day time.Time) []time.Time
	CreateEvent(ctx context.Context, clientName, serviceTitle string, start time.Time, phone string, duration time.Duration) string
	DeleteEvent(ctx context.Context, eventID string) bool
}

// DraftRepository хранит черновики записи по идентификатору пользователя.
type DraftRepository interface {
	Get(ctx context.Context, userID int64) (*models.Draft, error)
	Set(ctx context.Context, draft *models.Draft) error
	Clear(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	Draft(ctx context.Context, userID int64) (*models.Draft, error)
	Save(ctx context.Context, draft *models.Draft) error
	Clear(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendHTML(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// BookingService — оркестрация подтверждения записи и действия админа
// над существующими записями.
type BookingService interface {
	AvailableTimes(ctx context.Context, day time.Time) []time.Time
	Book(ctx context.Context, draft *models.Draft, clientName string, telegramID int64) (*models.Appointment, error)
	AppointmentsForDay(ctx context.Context, day time.Time, status string) []models.Appointment
	Appointment(ctx context.Context, id string) *models.Appointment
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
