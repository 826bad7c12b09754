package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"salonbot/internal/models"

	"github.com/rs/zerolog"
	postgrest "github.com/supabase-community/postgrest-go"
)

const (
	tableCategories   = "service_categories"
	tableServices     = "services"
	tableAppointments = "appointments"

	// join services(title) подтягивает название услуги одним запросом
	appointmentColumns = "*, services(title)"

	timestampLayout = "2006-01-02T15:04:05"
)

// SupabaseStore — фасад над PostgREST. Транспортные и декодировочные
// ошибки не покидают фасад: метод логирует и возвращает пустое
// значение, вызывающий код трактует его как "данных нет".
type SupabaseStore struct {
	client *postgrest.Client
	loc    *time.Location
	logger *zerolog.Logger
}

func NewSupabaseStore(rawURL, key string, loc *time.Location, logger *zerolog.Logger) *SupabaseStore {
	headers := map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	}
	client := postgrest.NewClient(strings.TrimRight(rawURL, "/")+"/rest/v1", "public", headers)
	return &SupabaseStore{
		client: client,
		loc:    loc,
		logger: logger,
	}
}

// Строки таблиц. Опциональные колонки читаются через указатели, чтобы
// отличать NULL от нулевого значения.
type appointmentRow struct {
	ID               string  `json:"id"`
	ClientName       string  `json:"client_name"`
	ClientTelegramID *int64  `json:"client_telegram_id"`
	ClientPhone      *string `json:"client_phone"`
	ServiceID        string  `json:"service_id"`
	AppointmentTime  string  `json:"appointment_time"`
	Status           string  `json:"status"`
	Reminded         bool    `json:"reminded"`
	CreatedAt        string  `json:"created_at"`
	GoogleEventID    *string `json:"google_event_id"`
	Services         *struct {
		Title string `json:"title"`
	} `json:"services"`
}

type appointmentInsert struct {
	ClientName       string `json:"client_name"`
	ClientTelegramID *int64 `json:"client_telegram_id,omitempty"`
	ClientPhone      string `json:"client_phone,omitempty"`
	ServiceID        string `json:"service_id"`
	AppointmentTime  string `json:"appointment_time"`
	Status           string `json:"status"`
	Reminded         bool   `json:"reminded"`
	GoogleEventID    string `json:"google_event_id,omitempty"`
}

// parseTimestamp разбирает таймстемпы Supabase. Суффикс Z и смещение
// отбрасываются: значения хранятся в локальном времени салона.
func (s *SupabaseStore) parseTimestamp(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	v = strings.TrimSuffix(v, "Z")
	if i := strings.LastIndex(v, "+"); i > 0 {
		v = v[:i]
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		timestampLayout,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, v, s.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *SupabaseStore) toAppointment(row appointmentRow) (models.Appointment, bool) {
	at, ok := s.parseTimestamp(row.AppointmentTime)
	if !ok {
		s.logger.Warn().
			Str("appointment_id", row.ID).
			Str("appointment_time", row.AppointmentTime).
			Msg("Пропускаем запись с нечитаемым временем")
		return models.Appointment{}, false
	}

	a := models.Appointment{
		ID:           row.ID,
		ClientName:   row.ClientName,
		ServiceID:    row.ServiceID,
		Time:         at,
		Status:       row.Status,
		Reminded:     row.Reminded,
		ServiceTitle: models.DeletedServiceTitle,
	}
	if row.ClientTelegramID != nil {
		a.ClientTelegramID = *row.ClientTelegramID
	}
	if row.ClientPhone != nil {
		a.ClientPhone = *row.ClientPhone
	}
	if row.GoogleEventID != nil {
		a.CalendarEventID = *row.GoogleEventID
	}
	if row.Services != nil && row.Services.Title != "" {
		a.ServiceTitle = row.Services.Title
	}
	if created, ok := s.parseTimestamp(row.CreatedAt); ok {
		a.CreatedAt = created
	}
	return a, true
}

func (s *SupabaseStore) decodeAppointments(data []byte) []models.Appointment {
	var rows []appointmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		s.logger.Error().Err(err).Msg("Не удалось декодировать список записей")
		return nil
	}
	out := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		if a, ok := s.toAppointment(row); ok {
			out = append(out, a)
		}
	}
	return out
}

func (s *SupabaseStore) ListCategories(ctx context.Context) []models.ServiceCategory {
	data, _, err := s.client.From(tableCategories).
		Select("*", "", false).
		Order("title", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		s.logger.Error().Err(err).Msg("Не удалось получить категории услуг")
		return nil
	}

	var categories []models.ServiceCategory
	if err := json.Unmarshal(data, &categories); err != nil {
		s.logger.Error().Err(err).Msg("Не удалось декодировать категории услуг")
		return nil
	}
	return categories
}

func (s *SupabaseStore) ListServices(ctx context.Context, categoryID string) []models.Service {
	query := s.client.From(tableServices).
		Select("*", "", false).
		Order("title", &postgrest.OrderOpts{Ascending: true})
	if categoryID != "" {
		query = query.Eq("category_id", categoryID)
	}

	data, _, err := query.Execute()
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", categoryID).Msg("Не удалось получить услуги")
		return nil
	}

	var services []models.Service
	if err := json.Unmarshal(data, &services); err != nil {
		s.logger.Error().Err(err).Msg("Не удалось декодировать услуги")
		return nil
	}
	return services
}

func (s *SupabaseStore) GetService(ctx context.Context, id string) *models.Service {
	data, _, err := s.client.From(tableServices).
		Select("*", "", false).
		Eq("id", id).
		Single().
		Execute()
	if err != nil {
		s.logger.Error().Err(err).Str("service_id", id).Msg("Не удалось получить услугу")
		return nil
	}

	var service models.Service
	if err := json.Unmarshal(data, &service); err != nil {
		s.logger.Error().Err(err).Str("service_id", id).Msg("Не удалось декодировать услугу")
		return nil
	}
	return &service
}

// CreateAppointment вставляет запись и возвращает id новой строки.
// Пустая строка означает, что запись не создана.
func (s *SupabaseStore) CreateAppointment(ctx context.Context, a *models.Appointment) string {
	payload := appointmentInsert{
		ClientName:      a.ClientName,
		ClientPhone:     a.ClientPhone,
		ServiceID:       a.ServiceID,
		AppointmentTime: a.Time.Format(timestampLayout),
		Status:          a.Status,
		Reminded:        a.Reminded,
		GoogleEventID:   a.CalendarEventID,
	}
	if a.ClientTelegramID != 0 {
		id := a.ClientTelegramID
		payload.ClientTelegramID = &id
	}

	data, _, err := s.client.From(tableAppointments).
		Insert(payload, false, "", "representation", "").
		Execute()
	if err != nil {
		s.logger.Error().Err(err).
			Str("service_id", a.ServiceID).
			Time("appointment_time", a.Time).
			Msg("Не удалось создать запись")
		return ""
	}

	var rows []appointmentRow
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
		s.logger.Error().Err(err).Msg("Вставка записи не вернула строку")
		return ""
	}
	return rows[0].ID
}

func (s *SupabaseStore) ListAppointmentsForDay(ctx context.Context, day time.Time, status string) []models.Appointment {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	end := start.Add(24*time.Hour - time.Second)

	query := s.client.From(tableAppointments).
		Select(appointmentColumns, "", false).
		Gte("appointment_time", start.Format(timestampLayout)).
		Lte("appointment_time", end.Format(timestampLayout)).
		Order("appointment_time", &postgrest.OrderOpts{Ascending: true})
	if status != "" {
		query = query.Eq("status", status)
	}

	data, _, err := query.Execute()
	if err != nil {
		s.logger.Error().Err(err).Time("day", day).Msg("Не удалось получить записи за день")
		return nil
	}
	return s.decodeAppointments(data)
}

func (s *SupabaseStore) GetAppointment(ctx context.Context, id string) *models.Appointment {
	data, _, err := s.client.From(tableAppointments).
		Select(appointmentColumns, "", false).
		Eq("id", id).
		Single().
		Execute()
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Не удалось получить запись")
		return nil
	}

	var row appointmentRow
	if err := json.Unmarshal(data, &row); err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Не удалось декодировать запись")
		return nil
	}
	a, ok := s.toAppointment(row)
	if !ok {
		return nil
	}
	return &a
}

func (s *SupabaseStore) UpdateStatus(ctx context.Context, id, status string) bool {
	return s.updateAppointment(ctx, id, map[string]interface{}{"status": status})
}

// MarkReminded помечает запись как отправленную. Повторный вызов для
// уже помеченной записи тоже возвращает true.
func (s *SupabaseStore) MarkReminded(ctx context.Context, id string) bool {
	return s.updateAppointment(ctx, id, map[string]interface{}{"reminded": true})
}

func (s *SupabaseStore) SetCalendarEventID(ctx context.Context, id, eventID string) bool {
	return s.updateAppointment(ctx, id, map[string]interface{}{"google_event_id": eventID})
}

func (s *SupabaseStore) updateAppointment(ctx context.Context, id string, patch map[string]interface{}) bool {
	data, _, err := s.client.From(tableAppointments).
		Update(patch, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Не удалось обновить запись")
		return false
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Обновление записи вернуло мусор")
		return false
	}
	return len(rows) > 0
}

func (s *SupabaseStore) DeleteAppointment(ctx context.Context, id string) bool {
	data, _, err := s.client.From(tableAppointments).
		Delete("representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Не удалось удалить запись")
		return false
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return false
	}
	return len(rows) > 0
}

// ListUnremindedForTomorrow возвращает активные записи на завтра, по
// которым еще не отправлено напоминание.
func (s *SupabaseStore) ListUnremindedForTomorrow(ctx context.Context) []models.Appointment {
	now := time.Now().In(s.loc)
	tomorrow := now.AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, s.loc)
	end := start.Add(24*time.Hour - time.Second)

	data, _, err := s.client.From(tableAppointments).
		Select(appointmentColumns, "", false).
		Gte("appointment_time", start.Format(timestampLayout)).
		Lte("appointment_time", end.Format(timestampLayout)).
		Eq("status", models.StatusActive).
		Eq("reminded", strconv.FormatBool(false)).
		Order("appointment_time", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		s.logger.Error().Err(err).Msg("Не удалось получить записи для напоминаний")
		return nil
	}
	return s.decodeAppointments(data)
}
