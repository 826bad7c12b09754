package models

import "time"

// ServiceCategory — справочник категорий услуг. Заполняется вне бота.
type ServiceCategory struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Service — услуга салона. Для бота read-only.
type Service struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Icon        string    `json:"icon"`
	CategoryID  string    `json:"category_id"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Appointment struct {
	ID               string    `json:"id"`
	ClientName       string    `json:"client_name"`
	ClientTelegramID int64     `json:"client_telegram_id,omitempty"` // 0 — создано админом без Telegram
	ClientPhone      string    `json:"client_phone,omitempty"`
	ServiceID        string    `json:"service_id"`
	Time             time.Time `json:"appointment_time"`
	Status           string    `json:"status"` // active, completed, cancelled
	Reminded         bool      `json:"reminded"`
	CreatedAt        time.Time `json:"created_at"`
	CalendarEventID  string    `json:"google_event_id,omitempty"`

	// ServiceTitle заполняется из join-а services(title), в таблице не хранится.
	ServiceTitle string `json:"-"`
}
