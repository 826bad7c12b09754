package bot

import (
	"context"
	"io"
	"testing"
	"time"

	"salonbot/internal/config"
	"salonbot/internal/models"
	"salonbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTelegram struct {
	mock.Mock
}

func (m *mockTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *mockTelegram) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	return args.Get(0).(*tgbotapi.APIResponse), args.Error(1)
}

func (m *mockTelegram) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	args := m.Called(chatID, text)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *mockTelegram) SendHTML(chatID int64, text string) (tgbotapi.Message, error) {
	args := m.Called(chatID, text)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *mockTelegram) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	args := m.Called(chatID, text, keyboard)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *mockTelegram) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	args := m.Called(chatID, messageID, text, keyboard)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *mockTelegram) AnswerCallback(callbackID string, text string) error {
	args := m.Called(callbackID, text)
	return args.Error(0)
}

func (m *mockTelegram) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	args := m.Called(config)
	return args.Get(0).(tgbotapi.UpdatesChannel)
}

func (m *mockTelegram) GetSelf() tgbotapi.User {
	args := m.Called()
	return args.Get(0).(tgbotapi.User)
}

func (m *mockTelegram) StopReceivingUpdates() {
	m.Called()
}

type mockState struct {
	mock.Mock
}

func (m *mockState) Draft(ctx context.Context, userID int64) (*models.Draft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draft), args.Error(1)
}

func (m *mockState) Save(ctx context.Context, draft *models.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *mockState) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockState) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

type mockBooking struct {
	mock.Mock
}

func (m *mockBooking) AvailableTimes(ctx context.Context, day time.Time) []time.Time {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]time.Time)
}

func (m *mockBooking) Book(ctx context.Context, draft *models.Draft, clientName string, telegramID int64) (*models.Appointment, error) {
	args := m.Called(ctx, draft, clientName, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *mockBooking) AppointmentsForDay(ctx context.Context, day time.Time, status string) []models.Appointment {
	args := m.Called(ctx, day, status)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Appointment)
}

func (m *mockBooking) Appointment(ctx context.Context, id string) *models.Appointment {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Appointment)
}

func (m *mockBooking) Complete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBooking) Cancel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBooking) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockBotStore struct {
	mock.Mock
}

func (m *mockBotStore) ListCategories(ctx context.Context) []models.ServiceCategory {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.ServiceCategory)
}

func (m *mockBotStore) ListServices(ctx context.Context, categoryID string) []models.Service {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Service)
}

func (m *mockBotStore) GetService(ctx context.Context, id string) *models.Service {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Service)
}

func (m *mockBotStore) CreateAppointment(ctx context.Context, a *models.Appointment) string {
	args := m.Called(ctx, a)
	return args.String(0)
}

func (m *mockBotStore) ListAppointmentsForDay(ctx context.Context, day time.Time, status string) []models.Appointment {
	args := m.Called(ctx, day, status)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Appointment)
}

func (m *mockBotStore) GetAppointment(ctx context.Context, id string) *models.Appointment {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Appointment)
}

func (m *mockBotStore) UpdateStatus(ctx context.Context, id, status string) bool {
	args := m.Called(ctx, id, status)
	return args.Bool(0)
}

func (m *mockBotStore) MarkReminded(ctx context.Context, id string) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *mockBotStore) DeleteAppointment(ctx context.Context, id string) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *mockBotStore) SetCalendarEventID(ctx context.Context, id, eventID string) bool {
	args := m.Called(ctx, id, eventID)
	return args.Bool(0)
}

func (m *mockBotStore) ListUnremindedForTomorrow(ctx context.Context) []models.Appointment {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Appointment)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Telegram.AdminID = 999
	cfg.Calendar.Timezone = "Europe/Moscow"
	cfg.Bot.ReminderTime = "19:00"
	cfg.Bot.WorkStartHour = 9
	cfg.Bot.WorkEndHour = 19
	cfg.Bot.SlotStepMinutes = 60
	cfg.Bot.SlotDurationMinutes = 60
	cfg.Bot.BookingDaysAhead = 7
	cfg.Bot.RateLimitMessages = 20
	cfg.Bot.RateLimitWindow = 60
	return cfg
}

func newTestBot(tg *mockTelegram, state *mockState, booking *mockBooking, store *mockBotStore) *Bot {
	logger := zerolog.New(io.Discard)
	return NewBot(tg, testConfig(), state, booking, store, nil, &logger)
}

func TestBackToDatesClearsLaterFields(t *testing.T) {
	tg := new(mockTelegram)
	state := new(mockState)
	booking := new(mockBooking)
	store := new(mockBotStore)
	bot := newTestBot(tg, state, booking, store)
	ctx := context.Background()

	draft := &models.Draft{
		UserID:       100,
		Step:         models.StepConfirm,
		CategoryID:   "c1",
		ServiceID:    "s1",
		ServiceTitle: "Маникюр",
		Date:         "2026-09-15",
		Time:         "14:00",
	}

	state.On("Draft", ctx, int64(100)).Return(draft, nil).Once()

	var saved *models.Draft
	state.On("Save", ctx, mock.AnythingOfType("*models.Draft")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*models.Draft)
	}).Return(nil).Once()
	tg.On("SendWithInlineKeyboard", int64(100), mock.Anything, mock.Anything).Return(tgbotapi.Message{}, nil).Once()

	conv := &conversation{ctx: ctx, chatID: 100, userID: 100}
	bot.dispatch(conv, Event{Kind: KindBackToDates})

	require.NotNil(t, saved)
	assert.Equal(t, models.StepSelectDate, saved.Step)
	assert.Empty(t, saved.Time)
	// услуга выбрана до даты и сохраняется
	assert.Equal(t, "s1", saved.ServiceID)
	state.AssertExpectations(t)
	tg.AssertExpectations(t)
}

func TestDispatchIgnoresEventWithoutTransition(t *testing.T) {
	tg := new(mockTelegram)
	state := new(mockState)
	bot := newTestBot(tg, state, new(mockBooking), new(mockBotStore))
	ctx := context.Background()

	draft := &models.Draft{UserID: 100, Step: models.StepSelectCategory}
	state.On("Draft", ctx, int64(100)).Return(draft, nil).Once()

	conv := &conversation{ctx: ctx, chatID: 100, userID: 100}
	bot.dispatch(conv, Event{Kind: KindTime, Time: "14:00"})

	state.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	tg.AssertNotCalled(t, "SendWithInlineKeyboard", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelClearsDraft(t *testing.T) {
	tg := new(mockTelegram)
	state := new(mockState)
	bot := newTestBot(tg, state, new(mockBooking), new(mockBotStore))
	ctx := context.Background()

	state.On("Clear", ctx, int64(100)).Return(nil).Once()
	tg.On("SendMessage", int64(100), mock.Anything).Return(tgbotapi.Message{}, nil).Once()

	conv := &conversation{ctx: ctx, chatID: 100, userID: 100}
	bot.dispatch(conv, Event{Kind: KindCancel})

	state.AssertExpectations(t)
	tg.AssertExpectations(t)
}

func TestAdminEventsIgnoredForRegularUsers(t *testing.T) {
	tg := new(mockTelegram)
	state := new(mockState)
	booking := new(mockBooking)
	bot := newTestBot(tg, state, booking, new(mockBotStore))
	ctx := context.Background()

	conv := &conversation{ctx: ctx, chatID: 100, userID: 100}
	bot.dispatch(conv, Event{Kind: KindAdminDelete, ID: "a1"})

	booking.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSlotTakenRestartsFromDateChoice(t *testing.T) {
	tg := new(mockTelegram)
	state := new(mockState)
	booking := new(mockBooking)
	bot := newTestBot(tg, state, booking, new(mockBotStore))
	ctx := context.Background()

	draft := &models.Draft{
		UserID:       100,
		Step:         models.StepEnterPhone,
		ServiceID:    "s1",
		ServiceTitle: "Маникюр",
		Date:         "2026-09-15",
		Time:         "14:00",
	}
	state.On("Draft", ctx, int64(100)).Return(draft, nil).Once()
	booking.On("Book", ctx, draft, mock.Anything, int64(100)).Return(nil, service.ErrSlotTaken).Once()

	var saved *models.Draft
	state.On("Save", ctx, mock.AnythingOfType("*models.Draft")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*models.Draft)
	}).Return(nil).Once()
	tg.On("SendWithInlineKeyboard", int64(100), mock.Anything, mock.Anything).Return(tgbotapi.Message{}, nil).Once()

	conv := &conversation{ctx: ctx, chatID: 100, userID: 100}
	bot.dispatch(conv, Event{Kind: KindText, Text: "+79991234567"})

	require.NotNil(t, saved)
	assert.Equal(t, models.StepSelectDate, saved.Step)
	assert.Empty(t, saved.Time)
	booking.AssertExpectations(t)
}

func TestTerminalBookingFailureClearsDraft(t *testing.T) {
	terminal := map[string]error{
		"store unavailable":    service.ErrStoreUnavailable,
		"calendar unavailable": service.ErrCalendarUnavailable,
	}

	for name, bookErr := range terminal {
		t.Run(name, func(t *testing.T) {
			tg := new(mockTelegram)
			state := new(mockState)
			booking := new(mockBooking)
			bot := newTestBot(tg, state, booking, new(mockBotStore))
			ctx := context.Background()

			draft := &models.Draft{
				UserID:       100,
				Step:         models.StepEnterPhone,
				ServiceID:    "s1",
				ServiceTitle: "Маникюр",
				Date:         "2026-09-15",
				Time:         "14:00",
			}
			state.On("Draft", ctx, int64(100)).Return(draft, nil).Once()
			booking.On("Book", ctx, draft, mock.Anything, int64(100)).Return(nil, bookErr).Once()

			// Диалог завершен с ошибкой: черновик чистится, а не зависает
			state.On("Clear", ctx, int64(100)).Return(nil).Once()
			tg.On("SendMessage", int64(100), mock.Anything).Return(tgbotapi.Message{}, nil).Once()

			conv := &conversation{ctx: ctx, chatID: 100, userID: 100}
			bot.dispatch(conv, Event{Kind: KindText, Text: "+79991234567"})

			state.AssertExpectations(t)
			state.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}
