package bot

import (
	"errors"
	"fmt"
	"time"

	"salonbot/internal/models"
	"salonbot/internal/service"

	"github.com/rs/zerolog"
)

const helpText = "Я помогу записаться в салон.\n\n" +
	"/start — начать запись\n" +
	"/help — эта справка\n\n" +
	"Выбирайте услугу и время кнопками под сообщениями."

func (b *Bot) handleStart(conv *conversation) {
	b.clearDraft(conv)

	categories := b.store.ListCategories(conv.ctx)
	if len(categories) == 0 {
		b.sendMessage(conv.chatID, "😔 Сейчас запись недоступна. Попробуйте позже или свяжитесь с администратором.")
		return
	}

	conv.draft = &models.Draft{UserID: conv.userID, Step: models.StepSelectCategory}
	if !b.saveDraft(conv) {
		return
	}

	text := fmt.Sprintf("Здравствуйте, %s! 👋\n\nВыберите категорию услуг:", conv.userName)
	if _, err := b.tgService.SendWithInlineKeyboard(conv.chatID, text, categoriesKeyboard(categories)); err != nil {
		zerolog.Ctx(conv.ctx).Error().Err(err).Msg("Failed to send categories")
	}
}

func (b *Bot) handleCategoryChosen(conv *conversation, ev Event) {
	services := b.store.ListServices(conv.ctx, ev.ID)
	if len(services) == 0 {
		b.sendMessage(conv.chatID, "В этой категории пока нет услуг. Выберите другую категорию.")
		return
	}

	conv.draft.CategoryID = ev.ID
	conv.draft.Step = models.StepSelectService
	if !b.saveDraft(conv) {
		return
	}

	b.editOrSend(conv, "Выберите услугу:", servicesKeyboard(services))
}

func (b *Bot) handleServiceChosen(conv *conversation, ev Event) {
	svc := b.store.GetService(conv.ctx, ev.ID)
	if svc == nil {
		b.sendMessage(conv.chatID, "Эта услуга больше недоступна. Выберите другую.")
		return
	}

	conv.draft.ServiceID = svc.ID
	conv.draft.ServiceTitle = svc.Title
	conv.draft.ServicePrice = svc.Price
	conv.draft.Step = models.StepSelectDate
	if !b.saveDraft(conv) {
		return
	}

	text := fmt.Sprintf("Вы выбрали: %s\n\nВыберите дату:", svc.Title)
	b.editOrSend(conv, text, b.datesKeyboard())
}

func (b *Bot) handleBackToCategories(conv *conversation, _ Event) {
	conv.draft.ResetFrom(models.StepSelectCategory)
	if !b.saveDraft(conv) {
		return
	}

	categories := b.store.ListCategories(conv.ctx)
	b.editOrSend(conv, "Выберите категорию услуг:", categoriesKeyboard(categories))
}

func (b *Bot) handleBackToServices(conv *conversation, _ Event) {
	conv.draft.ResetFrom(models.StepSelectService)
	if !b.saveDraft(conv) {
		return
	}

	services := b.store.ListServices(conv.ctx, conv.draft.CategoryID)
	b.editOrSend(conv, "Выберите услугу:", servicesKeyboard(services))
}

func (b *Bot) handleDateChosen(conv *conversation, ev Event) {
	day, err := time.ParseInLocation(models.DateKeyFormat, ev.Date, b.loc)
	if err != nil {
		zerolog.Ctx(conv.ctx).Warn().Str("date", ev.Date).Msg("Bad date in callback")
		return
	}

	free := b.bookingService.AvailableTimes(conv.ctx, day)
	if len(free) == 0 {
		text := fmt.Sprintf("На %s свободных окон нет 😔\n\nВыберите другую дату:", day.Format("02.01.2006"))
		b.editOrSend(conv, text, b.datesKeyboard())
		return
	}

	conv.draft.Date = ev.Date
	conv.draft.Step = models.StepSelectTime
	if !b.saveDraft(conv) {
		return
	}

	text := fmt.Sprintf("Дата: %s\n\nВыберите время:", day.Format("02.01.2006"))
	b.editOrSend(conv, text, slotsKeyboard(free))
}

func (b *Bot) handleBackToDates(conv *conversation, _ Event) {
	conv.draft.ResetFrom(models.StepSelectDate)
	if !b.saveDraft(conv) {
		return
	}

	b.editOrSend(conv, "Выберите дату:", b.datesKeyboard())
}

func (b *Bot) handleTimeChosen(conv *conversation, ev Event) {
	if _, err := time.Parse(models.TimeKeyFormat, ev.Time); err != nil {
		zerolog.Ctx(conv.ctx).Warn().Str("time", ev.Time).Msg("Bad time in callback")
		return
	}

	conv.draft.Time = ev.Time
	conv.draft.Step = models.StepConfirm
	if !b.saveDraft(conv) {
		return
	}

	b.editOrSend(conv, confirmText(conv.draft), confirmKeyboard())
}

func (b *Bot) handleConfirmChosen(conv *conversation, _ Event) {
	conv.draft.Step = models.StepEnterPhone
	if !b.saveDraft(conv) {
		return
	}

	b.sendMessage(conv.chatID, "Почти готово! Отправьте ваш номер телефона для связи:")
}

func (b *Bot) handlePhoneEntered(conv *conversation, ev Event) {
	phone, ok := normalizePhone(ev.Text)
	if !ok {
		b.sendMessage(conv.chatID, "Не похоже на номер телефона. Отправьте номер в формате +7XXXXXXXXXX:")
		return
	}

	conv.draft.Phone = phone
	appointment, err := b.bookingService.Book(conv.ctx, conv.draft, conv.userName, conv.userID)
	if err != nil {
		b.handleBookingError(conv, err)
		return
	}

	if b.metrics != nil {
		b.metrics.AppointmentsCreated.WithLabelValues(appointment.ServiceTitle).Inc()
	}

	b.clearDraft(conv)
	b.sendMessage(conv.chatID, successText(appointment))
}

func (b *Bot) handleBookingError(conv *conversation, err error) {
	zerolog.Ctx(conv.ctx).Warn().Err(err).Int64("user_id", conv.userID).Msg("Booking failed")

	if errors.Is(err, service.ErrSlotTaken) {
		// Слот увели, пока заполнялся черновик: показываем свежие окна
		conv.draft.ResetFrom(models.StepSelectDate)
		if b.saveDraft(conv) {
			b.sendMessageWithKeyboard(conv, "⚠️ Это время только что заняли. Выберите другое:", b.datesKeyboard())
		}
		return
	}

	// Остальные ошибки терминальны: диалог завершен, черновик не нужен
	b.clearDraft(conv)
	b.sendMessage(conv.chatID, userMessage(err))
}

func (b *Bot) handleCancelBooking(conv *conversation) {
	b.clearDraft(conv)
	b.sendMessage(conv.chatID, "Запись отменена. Наберите /start, когда будете готовы записаться.")
}
