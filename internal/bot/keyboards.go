package bot

import (
	"fmt"
	"time"

	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func categoriesKeyboard(categories []models.ServiceCategory) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Title, cbCategoryPrefix+c.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func servicesKeyboard(services []models.Service) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services)+1)
	for _, s := range services {
		label := s.Title
		if s.Icon != "" {
			label = s.Icon + " " + label
		}
		if s.Price != "" {
			label = fmt.Sprintf("%s — %s ₽", label, s.Price)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbServicePrefix+s.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", cbBackToCategories),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// datesKeyboard предлагает ближайшие дни, по два в ряд.
func (b *Bot) datesKeyboard() tgbotapi.InlineKeyboardMarkup {
	now := time.Now().In(b.loc)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := 0; i < b.config.Bot.BookingDaysAhead; i++ {
		day := now.AddDate(0, 0, i)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			dateButtonLabel(day, i),
			cbDatePrefix+day.Format(models.DateKeyFormat),
		))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", cbBackToServices),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// slotsKeyboard раскладывает свободные окна по три в ряд.
func slotsKeyboard(starts []time.Time) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, s := range starts {
		label := s.Format(models.TimeKeyFormat)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbTimePrefix+label))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ К выбору даты", cbBackToDates),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", cbConfirmBooking),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Изменить дату", cbBackToDates),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", cbCancelBooking),
		),
	)
}

func adminMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Сегодня", cbAdminToday),
			tgbotapi.NewInlineKeyboardButtonData("📋 Завтра", cbAdminTomorrow),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Новая запись", cbAdminNew),
		),
	)
}

func adminDayKeyboard(appointments []models.Appointment, day time.Time) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(appointments)+1)
	for _, a := range appointments {
		label := fmt.Sprintf("%s %s — %s", a.Time.Format(models.TimeKeyFormat), a.ClientName, a.ServiceTitle)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbAdminDetailPrefix+a.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 Выгрузить в Excel", cbAdminExportPrefix+day.Format(models.DateKeyFormat)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminAppointmentKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Выполнена", cbAdminCompletePrefix+id),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Отменить", cbAdminCancelPrefix+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", cbAdminDeletePrefix+id),
		),
	)
}

func (b *Bot) editOrSend(conv *conversation, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if conv.messageID != 0 {
		if _, err := b.tgService.EditMessage(conv.chatID, conv.messageID, text, &keyboard); err == nil {
			return
		}
	}
	b.sendMessageWithKeyboard(conv, text, keyboard)
}

func (b *Bot) sendMessageWithKeyboard(conv *conversation, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if _, err := b.tgService.SendWithInlineKeyboard(conv.chatID, text, keyboard); err != nil {
		zerolog.Ctx(conv.ctx).Error().Err(err).Int64("chat_id", conv.chatID).Msg("Failed to send keyboard")
	}
}
