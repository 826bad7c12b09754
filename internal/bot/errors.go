package bot

import (
	"errors"

	"salonbot/internal/models"
	"salonbot/internal/service"
)

func userMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, service.ErrSlotTaken) {
		return "⚠️ Это время уже занято. Пожалуйста, выберите другое."
	}

	if errors.Is(err, service.ErrCalendarUnavailable) {
		return "⚠️ Не получилось зарезервировать время. Запись не оформлена, попробуйте еще раз через пару минут."
	}

	if errors.Is(err, service.ErrStoreUnavailable) {
		return "⚠️ Не удалось сохранить запись. Пожалуйста, свяжитесь с администратором, чтобы подтвердить визит."
	}

	if errors.Is(err, models.ErrDraftIncomplete) {
		return "⚠️ Данные записи устарели. Начните заново: /start."
	}

	if errors.Is(err, service.ErrNotFound) {
		return "⚠️ Запись не найдена. Возможно, она уже удалена."
	}

	// Default error message
	return "❌ Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте позже."
}
