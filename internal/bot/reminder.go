package bot

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// StartReminders schedules daily reminders for next-day appointments.
func (b *Bot) StartReminders(ctx context.Context) {
	if b == nil || b.tgService == nil {
		return
	}

	go func() {
		hour, minute := 19, 0
		if b.config.Bot.ReminderTime != "" {
			if _, err := fmt.Sscanf(b.config.Bot.ReminderTime, "%d:%d", &hour, &minute); err != nil {
				b.logger.Error().Err(err).Str("reminder_time", b.config.Bot.ReminderTime).Msg("Invalid reminder time format")
				return
			}
		}

		// First wait until next reminder time local time, then tick every 24h.
		wait := b.timeUntilNext(hour, minute)
		timer := time.NewTimer(wait)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				b.sendTomorrowReminders(ctx)
				timer.Reset(24 * time.Hour)
			}
		}
	}()
}

// sendTomorrowReminders рассылает напоминания по завтрашним активным
// записям. Запись помечается только после успешной отправки: если
// отправка упала, строка останется в выборке следующего запуска.
func (b *Bot) sendTomorrowReminders(ctx context.Context) {
	appointments := b.store.ListUnremindedForTomorrow(ctx)
	if len(appointments) == 0 {
		return
	}

	// Пейсинг отправки, чтобы не упереться в лимиты Telegram
	limiter := rate.NewLimiter(rate.Limit(20), 1)

	for _, a := range appointments {
		if a.ClientTelegramID == 0 {
			// ручная запись от админа, клиенту писать некуда
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		if _, err := b.tgService.SendMessage(a.ClientTelegramID, reminderText(&a)); err != nil {
			b.logger.Error().Err(err).
				Str("appointment_id", a.ID).
				Int64("telegram_id", a.ClientTelegramID).
				Msg("reminder: send error")
			continue
		}

		if !b.store.MarkReminded(ctx, a.ID) {
			b.logger.Warn().Str("appointment_id", a.ID).Msg("reminder: mark failed, duplicate possible tomorrow")
		}
		if b.metrics != nil {
			b.metrics.RemindersSent.Inc()
		}
	}
}

func (b *Bot) timeUntilNext(hour, minute int) time.Duration {
	now := time.Now().In(b.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, b.loc)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
