package models

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

// Шаги диалога записи (клиентская ветка).
const (
	StepSelectCategory = "select_category"
	StepSelectService  = "select_service"
	StepSelectDate     = "select_date"
	StepSelectTime     = "select_time"
	StepConfirm        = "confirm"
	StepEnterPhone     = "enter_phone"
)

// Шаги ветки админа с ручным вводом.
const (
	StepAdminClientName     = "admin_client_name"
	StepAdminClientPhone    = "admin_client_phone"
	StepAdminSelectCategory = "admin_select_category"
	StepAdminSelectService  = "admin_select_service"
	StepAdminEnterDate      = "admin_enter_date"
	StepAdminEnterTime      = "admin_enter_time"
)

const (
	// DraftTTL время жизни черновика записи в Redis
	DraftTTL = 24 * 60 * 60 // 24 часа в секундах

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// DefaultWorkStartHour / DefaultWorkEndHour границы рабочего дня;
	// последний предлагаемый слот начинается в DefaultWorkEndHour:00.
	DefaultWorkStartHour = 9
	DefaultWorkEndHour   = 19

	// DefaultSlotStepMinutes шаг сетки слотов
	DefaultSlotStepMinutes = 60

	// DefaultSlotDurationMinutes длительность одной записи
	DefaultSlotDurationMinutes = 60

	// DefaultBookingDaysAhead сколько ближайших дней предлагать клиенту
	DefaultBookingDaysAhead = 7

	// DeletedServiceTitle подставляется, когда услуга записи уже удалена
	DeletedServiceTitle = "Удаленная услуга"
)

// DateKeyFormat / TimeKeyFormat — форматы даты и времени в callback-данных
// и в черновике.
const (
	DateKeyFormat = "2006-01-02"
	TimeKeyFormat = "15:04"
)
