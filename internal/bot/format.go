package bot

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"salonbot/internal/models"
)

var ruWeekdays = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func dateButtonLabel(day time.Time, offset int) string {
	switch offset {
	case 0:
		return "Сегодня"
	case 1:
		return "Завтра"
	}
	return fmt.Sprintf("%s %s", day.Format("02.01"), ruWeekdays[day.Weekday()])
}

func confirmText(d *models.Draft) string {
	var sb strings.Builder
	sb.WriteString("Проверьте запись:\n\n")
	sb.WriteString(fmt.Sprintf("💅 Услуга: %s\n", d.ServiceTitle))
	if d.ServicePrice != "" {
		sb.WriteString(fmt.Sprintf("💰 Цена: %s ₽\n", d.ServicePrice))
	}
	if day, err := time.Parse(models.DateKeyFormat, d.Date); err == nil {
		sb.WriteString(fmt.Sprintf("📅 Дата: %s\n", day.Format("02.01.2006")))
	}
	sb.WriteString(fmt.Sprintf("🕐 Время: %s\n", d.Time))
	sb.WriteString("\nВсе верно?")
	return sb.String()
}

func successText(a *models.Appointment) string {
	return fmt.Sprintf(
		"🎉 Вы записаны!\n\n"+
			"💅 Услуга: %s\n"+
			"📅 Дата: %s\n"+
			"🕐 Время: %s\n\n"+
			"Напомним о визите за день. До встречи!",
		a.ServiceTitle,
		a.Time.Format("02.01.2006"),
		a.Time.Format(models.TimeKeyFormat),
	)
}

func reminderText(a *models.Appointment) string {
	return fmt.Sprintf(
		"🔔 Напоминание: завтра в %s у вас запись на «%s». Ждем вас!",
		a.Time.Format(models.TimeKeyFormat),
		a.ServiceTitle,
	)
}

// normalizePhone оставляет цифры и ведущий плюс. Минимум десять цифр.
func normalizePhone(raw string) (string, bool) {
	var sb strings.Builder
	digits := 0
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			sb.WriteRune(r)
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// разделители игнорируем
		default:
			return "", false
		}
	}
	if digits < 10 || digits > 15 {
		return "", false
	}
	return sb.String(), true
}
