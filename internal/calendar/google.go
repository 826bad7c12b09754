package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const eventLayout = "2006-01-02T15:04:05"

// GoogleCalendar — шлюз к календарю салона. Как и у фасада хранилища,
// транспортные ошибки логируются и схлопываются в пустые значения:
// nil для списка занятости, "" для id события, false для удаления.
type GoogleCalendar struct {
	service    *calendar.Service
	calendarID string
	loc        *time.Location
	logger     *zerolog.Logger
}

func NewGoogleCalendar(ctx context.Context, credentialsFile, calendarID string, loc *time.Location, logger *zerolog.Logger) (*GoogleCalendar, error) {
	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	// Создаем JWT конфигурацию
	config, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %v", err)
	}

	return &GoogleCalendar{
		service:    srv,
		calendarID: calendarID,
		loc:        loc,
		logger:     logger,
	}, nil
}

// BusyStarts возвращает начала событий, попадающих в локальные сутки
// дня. События "на весь день" (без времени начала) пропускаются.
func (g *GoogleCalendar) BusyStarts(ctx context.Context, day time.Time) []time.Time {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, g.loc)
	end := start.Add(24 * time.Hour)

	events, err := g.service.Events.List(g.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		g.logger.Error().Err(err).Time("day", day).Msg("Не удалось получить занятость календаря")
		return nil
	}

	var starts []time.Time
	for _, item := range events.Items {
		if item.Start == nil || item.Start.DateTime == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			g.logger.Warn().Str("event_id", item.Id).Str("start", item.Start.DateTime).
				Msg("Пропускаем событие с нечитаемым началом")
			continue
		}
		starts = append(starts, t.In(g.loc))
	}
	return starts
}

// CreateEvent создает событие записи и возвращает его id.
// Пустая строка означает, что событие не создано.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, clientName, serviceTitle string, start time.Time, phone string, duration time.Duration) string {
	end := start.Add(duration)

	description := fmt.Sprintf("Клиент: %s\nУслуга: %s", clientName, serviceTitle)
	if phone != "" {
		description += fmt.Sprintf("\nТелефон: %s", phone)
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s - %s", serviceTitle, clientName),
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.In(g.loc).Format(eventLayout),
			TimeZone: g.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.In(g.loc).Format(eventLayout),
			TimeZone: g.loc.String(),
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: 24 * 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := g.service.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		g.logger.Error().Err(err).
			Str("client", clientName).
			Time("start", start).
			Msg("Не удалось создать событие в календаре")
		return ""
	}
	return created.Id
}

// DeleteEvent удаляет событие. false — сигнал вызывающему коду,
// что событие могло остаться в календаре.
func (g *GoogleCalendar) DeleteEvent(ctx context.Context, eventID string) bool {
	if eventID == "" {
		return false
	}
	if err := g.service.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		g.logger.Error().Err(err).Str("event_id", eventID).Msg("Не удалось удалить событие из календаря")
		return false
	}
	return true
}
