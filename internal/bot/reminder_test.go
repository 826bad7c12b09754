package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

func tomorrowAt(hour int) time.Time {
	loc, _ := time.LoadLocation("Europe/Moscow")
	now := time.Now().In(loc).AddDate(0, 0, 1)
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
}

func TestSendTomorrowReminders(t *testing.T) {
	tg := new(mockTelegram)
	store := new(mockBotStore)
	bot := newTestBot(tg, new(mockState), new(mockBooking), store)
	ctx := context.Background()

	appointments := []models.Appointment{
		{ID: "a1", ClientTelegramID: 100, ServiceTitle: "Маникюр", Time: tomorrowAt(10), Status: models.StatusActive},
		// запись от админа, telegram id нет — пропускается
		{ID: "a2", ClientTelegramID: 0, ServiceTitle: "Стрижка", Time: tomorrowAt(12), Status: models.StatusActive},
		{ID: "a3", ClientTelegramID: 300, ServiceTitle: "Педикюр", Time: tomorrowAt(14), Status: models.StatusActive},
	}

	store.On("ListUnremindedForTomorrow", ctx).Return(appointments).Once()
	tg.On("SendMessage", int64(100), mock.Anything).Return(tgbotapi.Message{}, nil).Once()
	tg.On("SendMessage", int64(300), mock.Anything).Return(tgbotapi.Message{}, nil).Once()
	store.On("MarkReminded", ctx, "a1").Return(true).Once()
	store.On("MarkReminded", ctx, "a3").Return(true).Once()

	bot.sendTomorrowReminders(ctx)

	store.AssertExpectations(t)
	tg.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkReminded", ctx, "a2")
}

func TestSendTomorrowRemindersSkipsFailedSend(t *testing.T) {
	tg := new(mockTelegram)
	store := new(mockBotStore)
	bot := newTestBot(tg, new(mockState), new(mockBooking), store)
	ctx := context.Background()

	appointments := []models.Appointment{
		{ID: "a1", ClientTelegramID: 100, ServiceTitle: "Маникюр", Time: tomorrowAt(10)},
		{ID: "a2", ClientTelegramID: 200, ServiceTitle: "Стрижка", Time: tomorrowAt(12)},
	}

	store.On("ListUnremindedForTomorrow", ctx).Return(appointments).Once()
	tg.On("SendMessage", int64(100), mock.Anything).Return(tgbotapi.Message{}, errors.New("blocked")).Once()
	tg.On("SendMessage", int64(200), mock.Anything).Return(tgbotapi.Message{}, nil).Once()
	// a1 не помечается и попадет в следующий запуск
	store.On("MarkReminded", ctx, "a2").Return(true).Once()

	bot.sendTomorrowReminders(ctx)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkReminded", ctx, "a1")
}

func TestSendTomorrowRemindersSecondRunIsIdempotent(t *testing.T) {
	tg := new(mockTelegram)
	store := new(mockBotStore)
	bot := newTestBot(tg, new(mockState), new(mockBooking), store)
	ctx := context.Background()

	// после первой рассылки все помечены — выборка пустая
	store.On("ListUnremindedForTomorrow", ctx).Return([]models.Appointment{}).Once()

	bot.sendTomorrowReminders(ctx)

	tg.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
