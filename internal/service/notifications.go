package service

import (
	"encoding/json"
	"fmt"

	"salonbot/internal/domain"
	"salonbot/internal/events"

	"github.com/rs/zerolog"
)

// AdminNotifier слушает события записей и шлет уведомления админу.
// Ошибка отправки не влияет на саму запись: она уже создана.
type AdminNotifier struct {
	telegram domain.TelegramService
	adminID  int64
	logger   *zerolog.Logger
}

func NewAdminNotifier(telegram domain.TelegramService, adminID int64, logger *zerolog.Logger) *AdminNotifier {
	return &AdminNotifier{
		telegram: telegram,
		adminID:  adminID,
		logger:   logger,
	}
}

// Register подписывает нотификатор на шину событий.
func (n *AdminNotifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventAppointmentCreated, n.handleCreated)
}

func (n *AdminNotifier) handleCreated(event *events.Event) error {
	if n.adminID == 0 {
		return nil
	}

	var payload events.AppointmentEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("Не удалось декодировать событие новой записи")
		return err
	}

	// Записи, созданные самим админом, не дублируем ему в чат
	if payload.CreatedByAdmin {
		return nil
	}

	phone := payload.ClientPhone
	if phone == "" {
		phone = "не указан"
	}

	text := fmt.Sprintf(
		"🔔 <b>Новая запись!</b>\n\n"+
			"👤 Клиент: %s\n"+
			"💅 Услуга: %s\n"+
			"📅 Дата: %s\n"+
			"🕐 Время: %s\n"+
			"📞 Телефон: %s",
		payload.ClientName,
		payload.ServiceTitle,
		payload.Time.Format("02.01.2006"),
		payload.Time.Format("15:04"),
		phone,
	)

	if _, err := n.telegram.SendHTML(n.adminID, text); err != nil {
		n.logger.Error().Err(err).Int64("admin_id", n.adminID).Msg("Не удалось отправить уведомление админу")
		return err
	}
	return nil
}
