package bot

import "strings"

// EventKind — тип события диалога после декодирования callback-данных
// или текстового сообщения.
type EventKind string

const (
	KindUnknown EventKind = ""

	// Клиентская ветка
	KindCategory         EventKind = "category"
	KindService          EventKind = "service"
	KindDate             EventKind = "date"
	KindTime             EventKind = "time"
	KindConfirm          EventKind = "confirm"
	KindCancel           EventKind = "cancel"
	KindBackToCategories EventKind = "back_to_categories"
	KindBackToServices   EventKind = "back_to_services"
	KindBackToDates      EventKind = "back_to_dates"

	// Текст сообщения (телефон, ручной ввод админа)
	KindText EventKind = "text"

	// Меню и действия админа
	KindAdminToday    EventKind = "admin_today"
	KindAdminTomorrow EventKind = "admin_tomorrow"
	KindAdminNew      EventKind = "admin_new"
	KindAdminDetail   EventKind = "admin_detail"
	KindAdminComplete EventKind = "admin_complete"
	KindAdminCancel   EventKind = "admin_cancel"
	KindAdminDelete   EventKind = "admin_delete"
	KindAdminExport   EventKind = "admin_export"
)

// Event — разобранное событие диалога. Callback-данные декодируются
// один раз здесь; обработчики дальше со строками не работают.
type Event struct {
	Kind EventKind
	ID   string // id категории, услуги или записи
	Date string // 2006-01-02
	Time string // 15:04
	Text string // текст сообщения для KindText
}

// Префиксы callback-данных. Идентификаторы содержат дефисы, поэтому
// разбор идет срезом префикса, а не разбиением по разделителю.
const (
	cbCategoryPrefix = "category_"
	cbServicePrefix  = "service_"
	cbDatePrefix     = "date_"
	cbTimePrefix     = "time_"

	cbConfirmBooking   = "confirm_booking"
	cbCancelBooking    = "cancel_booking"
	cbBackToCategories = "back_to_categories"
	cbBackToServices   = "back_to_services"
	cbBackToDates      = "back_to_date_choice"

	cbAdminToday          = "admin_today"
	cbAdminTomorrow       = "admin_tomorrow"
	cbAdminNew            = "admin_new_appointment"
	cbAdminDetailPrefix   = "admin_app_"
	cbAdminCompletePrefix = "admin_complete_"
	cbAdminCancelPrefix   = "admin_cancel_"
	cbAdminDeletePrefix   = "admin_delete_"
	cbAdminExportPrefix   = "admin_export_"
)

// DecodeCallback разбирает callback-данные в событие. Неизвестные
// данные дают KindUnknown и молча игнорируются выше.
func DecodeCallback(data string) Event {
	switch data {
	case cbConfirmBooking:
		return Event{Kind: KindConfirm}
	case cbCancelBooking:
		return Event{Kind: KindCancel}
	case cbBackToCategories:
		return Event{Kind: KindBackToCategories}
	case cbBackToServices:
		return Event{Kind: KindBackToServices}
	case cbBackToDates:
		return Event{Kind: KindBackToDates}
	case cbAdminToday:
		return Event{Kind: KindAdminToday}
	case cbAdminTomorrow:
		return Event{Kind: KindAdminTomorrow}
	case cbAdminNew:
		return Event{Kind: KindAdminNew}
	}

	switch {
	case strings.HasPrefix(data, cbCategoryPrefix):
		return Event{Kind: KindCategory, ID: strings.TrimPrefix(data, cbCategoryPrefix)}
	case strings.HasPrefix(data, cbServicePrefix):
		return Event{Kind: KindService, ID: strings.TrimPrefix(data, cbServicePrefix)}
	case strings.HasPrefix(data, cbDatePrefix):
		return Event{Kind: KindDate, Date: strings.TrimPrefix(data, cbDatePrefix)}
	case strings.HasPrefix(data, cbTimePrefix):
		return Event{Kind: KindTime, Time: strings.TrimPrefix(data, cbTimePrefix)}
	case strings.HasPrefix(data, cbAdminCompletePrefix):
		return Event{Kind: KindAdminComplete, ID: strings.TrimPrefix(data, cbAdminCompletePrefix)}
	case strings.HasPrefix(data, cbAdminCancelPrefix):
		return Event{Kind: KindAdminCancel, ID: strings.TrimPrefix(data, cbAdminCancelPrefix)}
	case strings.HasPrefix(data, cbAdminDeletePrefix):
		return Event{Kind: KindAdminDelete, ID: strings.TrimPrefix(data, cbAdminDeletePrefix)}
	case strings.HasPrefix(data, cbAdminExportPrefix):
		return Event{Kind: KindAdminExport, Date: strings.TrimPrefix(data, cbAdminExportPrefix)}
	case strings.HasPrefix(data, cbAdminDetailPrefix):
		return Event{Kind: KindAdminDetail, ID: strings.TrimPrefix(data, cbAdminDetailPrefix)}
	}

	return Event{Kind: KindUnknown}
}
