package service

import (
	"context"
	"time"

	"salonbot/internal/domain"
	"salonbot/internal/events"
	"salonbot/internal/models"
	"salonbot/internal/slots"

	"github.com/rs/zerolog"
)

type BookingService struct {
	store    domain.Store
	calendar domain.Calendar
	eventBus domain.EventPublisher
	grid     slots.Grid
	loc      *time.Location
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(store domain.Store, cal domain.Calendar, eventBus domain.EventPublisher, grid slots.Grid, loc *time.Location, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		calendar: cal,
		eventBus: eventBus,
		grid:     grid,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// AvailableTimes возвращает свободные начала слотов на день: сетка
// рабочего дня минус занятость календаря минус прошедшее время.
func (s *BookingService) AvailableTimes(ctx context.Context, day time.Time) []time.Time {
	busy := slots.FromStarts(s.calendar.BusyStarts(ctx, day), s.grid.Duration)
	return s.grid.Available(day.In(s.loc), busy, s.now().In(s.loc))
}

// Book выполняет подтверждение записи: финальная перепроверка слота,
// затем событие календаря, затем строка в хранилище. Между двумя
// записями нет транзакции; осиротевшее событие календаря логируется
// и чистится вручную.
func (s *BookingService) Book(ctx context.Context, draft *models.Draft, clientName string, telegramID int64) (*models.Appointment, error) {
	if err := draft.ReadyToBook(); err != nil {
		return nil, err
	}
	start, err := draft.StartAt(s.loc)
	if err != nil {
		return nil, err
	}
	if draft.ClientName != "" {
		clientName = draft.ClientName
	}

	// Слот мог занять другой клиент, пока заполнялся черновик
	busy := slots.FromStarts(s.calendar.BusyStarts(ctx, start), s.grid.Duration)
	if slots.Taken(start, s.grid.Duration, busy) {
		return nil, ErrSlotTaken
	}

	eventID := s.calendar.CreateEvent(ctx, clientName, draft.ServiceTitle, start, draft.Phone, s.grid.Duration)
	if eventID == "" {
		return nil, ErrCalendarUnavailable
	}

	appointment := &models.Appointment{
		ClientName:       clientName,
		ClientTelegramID: telegramID,
		ClientPhone:      draft.Phone,
		ServiceID:        draft.ServiceID,
		Time:             start,
		Status:           models.StatusActive,
		CalendarEventID:  eventID,
		ServiceTitle:     draft.ServiceTitle,
	}

	id := s.store.CreateAppointment(ctx, appointment)
	if id == "" {
		// Событие календаря уже создано, а строки нет: окно
		// рассинхронизации, событие остается на ручную чистку.
		s.logger.Error().
			Str("calendar_event_id", eventID).
			Time("start", start).
			Msg("Запись не сохранена в хранилище, событие календаря осиротело")
		return nil, ErrStoreUnavailable
	}
	appointment.ID = id

	if !s.store.SetCalendarEventID(ctx, id, eventID) {
		s.logger.Warn().
			Str("appointment_id", id).
			Str("calendar_event_id", eventID).
			Msg("Не удалось привязать событие календаря к записи")
	}

	s.publishEvent(events.EventAppointmentCreated, appointment, telegramID == 0)

	s.logger.Info().
		Str("appointment_id", id).
		Str("service_id", draft.ServiceID).
		Time("start", start).
		Msg("Создана запись")

	return appointment, nil
}

func (s *BookingService) AppointmentsForDay(ctx context.Context, day time.Time, status string) []models.Appointment {
	return s.store.ListAppointmentsForDay(ctx, day, status)
}

func (s *BookingService) Appointment(ctx context.Context, id string) *models.Appointment {
	return s.store.GetAppointment(ctx, id)
}

// Complete помечает запись выполненной. Событие календаря остается:
// прошедшие визиты в календаре полезны как история.
func (s *BookingService) Complete(ctx context.Context, id string) error {
	if !s.store.UpdateStatus(ctx, id, models.StatusCompleted) {
		return ErrNotFound
	}

	s.publishByID(ctx, events.EventAppointmentCompleted, id)
	return nil
}

// Cancel отменяет запись. Сначала best-effort удаление события из
// календаря, чтобы слот сразу освободился, затем смена статуса.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	s.deleteCalendarEvent(ctx, id)

	if !s.store.UpdateStatus(ctx, id, models.StatusCancelled) {
		return ErrNotFound
	}

	s.publishByID(ctx, events.EventAppointmentCancelled, id)
	return nil
}

// Delete удаляет запись целиком вместе с событием календаря.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	appointment := s.store.GetAppointment(ctx, id)
	if appointment != nil && appointment.CalendarEventID != "" {
		if !s.calendar.DeleteEvent(ctx, appointment.CalendarEventID) {
			s.logger.Warn().
				Str("appointment_id", id).
				Str("calendar_event_id", appointment.CalendarEventID).
				Msg("Событие календаря не удалено, продолжаем удаление записи")
		}
	}

	if !s.store.DeleteAppointment(ctx, id) {
		return ErrNotFound
	}

	if appointment != nil {
		s.publishEvent(events.EventAppointmentDeleted, appointment, false)
	}
	return nil
}

func (s *BookingService) deleteCalendarEvent(ctx context.Context, id string) {
	appointment := s.store.GetAppointment(ctx, id)
	if appointment == nil || appointment.CalendarEventID == "" {
		return
	}
	if !s.calendar.DeleteEvent(ctx, appointment.CalendarEventID) {
		s.logger.Warn().
			Str("appointment_id", id).
			Str("calendar_event_id", appointment.CalendarEventID).
			Msg("Событие календаря не удалено при отмене записи")
	}
}

func (s *BookingService) publishByID(ctx context.Context, eventType, id string) {
	appointment := s.store.GetAppointment(ctx, id)
	if appointment == nil {
		return
	}
	s.publishEvent(eventType, appointment, false)
}

func (s *BookingService) publishEvent(eventType string, a *models.Appointment, byAdmin bool) {
	if s.eventBus == nil {
		return
	}
	payload := events.AppointmentEventPayload{
		AppointmentID:    a.ID,
		ClientName:       a.ClientName,
		ClientTelegramID: a.ClientTelegramID,
		ClientPhone:      a.ClientPhone,
		ServiceTitle:     a.ServiceTitle,
		Status:           a.Status,
		Time:             a.Time,
		CreatedByAdmin:   byAdmin,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("Не удалось опубликовать событие")
	}
}
