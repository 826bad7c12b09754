package bot

import (
	"fmt"
	"strings"
	"time"

	"salonbot/internal/models"

	"github.com/rs/zerolog"
)

func (b *Bot) showAdminMenu(conv *conversation) {
	b.sendMessageWithKeyboard(conv, "Панель администратора:", adminMenuKeyboard())
}

func (b *Bot) dispatchAdmin(conv *conversation, ev Event) {
	switch ev.Kind {
	case KindAdminToday:
		b.showAdminDay(conv, time.Now().In(b.loc))
	case KindAdminTomorrow:
		b.showAdminDay(conv, time.Now().In(b.loc).AddDate(0, 0, 1))
	case KindAdminNew:
		b.startAdminBooking(conv)
	case KindAdminDetail:
		b.showAdminAppointment(conv, ev.ID)
	case KindAdminComplete:
		b.completeAppointment(conv, ev.ID)
	case KindAdminCancel:
		b.cancelAppointment(conv, ev.ID)
	case KindAdminDelete:
		b.deleteAppointment(conv, ev.ID)
	case KindAdminExport:
		b.exportAdminDay(conv, ev.Date)
	}
}

func (b *Bot) showAdminDay(conv *conversation, day time.Time) {
	appointments := b.bookingService.AppointmentsForDay(conv.ctx, day, models.StatusActive)

	if len(appointments) == 0 {
		text := fmt.Sprintf("На %s активных записей нет.", day.Format("02.01.2006"))
		b.sendMessageWithKeyboard(conv, text, adminMenuKeyboard())
		return
	}

	text := fmt.Sprintf("Записи на %s (%d):", day.Format("02.01.2006"), len(appointments))
	b.editOrSend(conv, text, adminDayKeyboard(appointments, day))
}

func (b *Bot) showAdminAppointment(conv *conversation, id string) {
	a := b.bookingService.Appointment(conv.ctx, id)
	if a == nil {
		b.sendMessage(conv.chatID, "Запись не найдена. Возможно, она уже удалена.")
		return
	}

	b.editOrSend(conv, adminAppointmentText(a), adminAppointmentKeyboard(a.ID))
}

func (b *Bot) completeAppointment(conv *conversation, id string) {
	if err := b.bookingService.Complete(conv.ctx, id); err != nil {
		b.sendMessage(conv.chatID, userMessage(err))
		return
	}
	b.sendMessage(conv.chatID, "✅ Запись отмечена выполненной.")
	b.showAdminDay(conv, time.Now().In(b.loc))
}

func (b *Bot) cancelAppointment(conv *conversation, id string) {
	if err := b.bookingService.Cancel(conv.ctx, id); err != nil {
		b.sendMessage(conv.chatID, userMessage(err))
		return
	}
	b.sendMessage(conv.chatID, "🚫 Запись отменена, время освобождено.")
	b.showAdminDay(conv, time.Now().In(b.loc))
}

func (b *Bot) deleteAppointment(conv *conversation, id string) {
	if err := b.bookingService.Delete(conv.ctx, id); err != nil {
		b.sendMessage(conv.chatID, userMessage(err))
		return
	}
	b.sendMessage(conv.chatID, "🗑 Запись удалена.")
	b.showAdminDay(conv, time.Now().In(b.loc))
}

// startAdminBooking открывает ветку ручного создания записи.
func (b *Bot) startAdminBooking(conv *conversation) {
	conv.draft = &models.Draft{UserID: conv.userID, Step: models.StepAdminClientName}
	if !b.saveDraft(conv) {
		return
	}
	b.sendMessage(conv.chatID, "Введите имя клиента:")
}

func (b *Bot) handleAdminNameEntered(conv *conversation, ev Event) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		b.sendMessage(conv.chatID, "Имя не может быть пустым. Введите имя клиента:")
		return
	}

	conv.draft.ClientName = name
	conv.draft.Step = models.StepAdminClientPhone
	if !b.saveDraft(conv) {
		return
	}
	b.sendMessage(conv.chatID, "Введите телефон клиента:")
}

func (b *Bot) handleAdminPhoneEntered(conv *conversation, ev Event) {
	phone, ok := normalizePhone(ev.Text)
	if !ok {
		b.sendMessage(conv.chatID, "Не похоже на номер телефона. Введите телефон в формате +7XXXXXXXXXX:")
		return
	}

	conv.draft.Phone = phone
	conv.draft.Step = models.StepAdminSelectCategory
	if !b.saveDraft(conv) {
		return
	}

	categories := b.store.ListCategories(conv.ctx)
	if len(categories) == 0 {
		b.sendMessage(conv.chatID, "Не удалось загрузить категории. Попробуйте позже.")
		return
	}
	b.sendMessageWithKeyboard(conv, "Выберите категорию услуг:", categoriesKeyboard(categories))
}

func (b *Bot) handleAdminCategoryChosen(conv *conversation, ev Event) {
	services := b.store.ListServices(conv.ctx, ev.ID)
	if len(services) == 0 {
		b.sendMessage(conv.chatID, "В этой категории нет услуг. Выберите другую.")
		return
	}

	conv.draft.CategoryID = ev.ID
	conv.draft.Step = models.StepAdminSelectService
	if !b.saveDraft(conv) {
		return
	}
	b.editOrSend(conv, "Выберите услугу:", servicesKeyboard(services))
}

func (b *Bot) handleAdminServiceChosen(conv *conversation, ev Event) {
	svc := b.store.GetService(conv.ctx, ev.ID)
	if svc == nil {
		b.sendMessage(conv.chatID, "Эта услуга недоступна. Выберите другую.")
		return
	}

	conv.draft.ServiceID = svc.ID
	conv.draft.ServiceTitle = svc.Title
	conv.draft.ServicePrice = svc.Price
	conv.draft.Step = models.StepAdminEnterDate
	if !b.saveDraft(conv) {
		return
	}
	b.sendMessage(conv.chatID, "Введите дату в формате ДД.ММ.ГГГГ (например, 25.12.2026):")
}

func (b *Bot) handleAdminDateEntered(conv *conversation, ev Event) {
	day, err := time.ParseInLocation("02.01.2006", strings.TrimSpace(ev.Text), b.loc)
	if err != nil {
		b.sendMessage(conv.chatID, "Неверный формат даты. Введите дату в формате ДД.ММ.ГГГГ:")
		return
	}

	conv.draft.Date = day.Format(models.DateKeyFormat)
	conv.draft.Step = models.StepAdminEnterTime
	if !b.saveDraft(conv) {
		return
	}
	b.sendMessage(conv.chatID, "Введите время в формате ЧЧ:ММ (например, 14:00):")
}

func (b *Bot) handleAdminTimeEntered(conv *conversation, ev Event) {
	t, err := time.Parse(models.TimeKeyFormat, strings.TrimSpace(ev.Text))
	if err != nil {
		b.sendMessage(conv.chatID, "Неверный формат времени. Введите время в формате ЧЧ:ММ:")
		return
	}

	conv.draft.Time = t.Format(models.TimeKeyFormat)

	// Записи от имени админа идут без telegram id клиента
	appointment, err := b.bookingService.Book(conv.ctx, conv.draft, conv.draft.ClientName, 0)
	if err != nil {
		zerolog.Ctx(conv.ctx).Warn().Err(err).Msg("Admin booking failed")
		b.sendMessage(conv.chatID, userMessage(err))
		return
	}

	if b.metrics != nil {
		b.metrics.AppointmentsCreated.WithLabelValues(appointment.ServiceTitle).Inc()
	}

	b.clearDraft(conv)
	b.sendMessage(conv.chatID, "✅ Запись создана:\n\n"+adminAppointmentText(appointment))
}

func (b *Bot) exportAdminDay(conv *conversation, date string) {
	day, err := time.ParseInLocation(models.DateKeyFormat, date, b.loc)
	if err != nil {
		zerolog.Ctx(conv.ctx).Warn().Str("date", date).Msg("Bad export date")
		return
	}

	path, err := b.exportDayToExcel(conv.ctx, day)
	if err != nil {
		zerolog.Ctx(conv.ctx).Error().Err(err).Msg("Export failed")
		b.sendMessage(conv.chatID, "Не удалось подготовить выгрузку.")
		return
	}

	b.sendDocument(conv, path)
}

func adminAppointmentText(a *models.Appointment) string {
	phone := a.ClientPhone
	if phone == "" {
		phone = "не указан"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 Клиент: %s\n", a.ClientName))
	sb.WriteString(fmt.Sprintf("💅 Услуга: %s\n", a.ServiceTitle))
	sb.WriteString(fmt.Sprintf("📅 Дата: %s\n", a.Time.Format("02.01.2006")))
	sb.WriteString(fmt.Sprintf("🕐 Время: %s\n", a.Time.Format(models.TimeKeyFormat)))
	sb.WriteString(fmt.Sprintf("📞 Телефон: %s\n", phone))
	sb.WriteString(fmt.Sprintf("Статус: %s", statusLabel(a.Status)))
	return sb.String()
}

func statusLabel(status string) string {
	switch status {
	case models.StatusActive:
		return "активна"
	case models.StatusCompleted:
		return "выполнена"
	case models.StatusCancelled:
		return "отменена"
	}
	return status
}
