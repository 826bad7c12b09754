package bot

import (
	"context"

	"salonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// transitionKey — пара (шаг диалога, тип события). Вся пошаговая
// маршрутизация задана одной таблицей, диспетчеризация — один lookup.
type transitionKey struct {
	step string
	kind EventKind
}

// conversation — все, что нужно обработчику шага: кто пишет, куда
// отвечать и текущий черновик.
type conversation struct {
	ctx       context.Context
	chatID    int64
	userID    int64
	userName  string
	messageID int
	draft     *models.Draft
}

type transitionHandler func(conv *conversation, ev Event)

func (b *Bot) buildTransitions() map[transitionKey]transitionHandler {
	return map[transitionKey]transitionHandler{
		// Клиентская ветка
		{models.StepSelectCategory, KindCategory}:       b.handleCategoryChosen,
		{models.StepSelectService, KindService}:         b.handleServiceChosen,
		{models.StepSelectService, KindBackToCategories}: b.handleBackToCategories,
		{models.StepSelectDate, KindDate}:               b.handleDateChosen,
		{models.StepSelectDate, KindBackToServices}:     b.handleBackToServices,
		{models.StepSelectTime, KindTime}:               b.handleTimeChosen,
		{models.StepSelectTime, KindBackToDates}:        b.handleBackToDates,
		{models.StepConfirm, KindConfirm}:               b.handleConfirmChosen,
		{models.StepConfirm, KindBackToDates}:           b.handleBackToDates,
		{models.StepEnterPhone, KindText}:               b.handlePhoneEntered,

		// Ветка админа с ручным вводом
		{models.StepAdminClientName, KindText}:        b.handleAdminNameEntered,
		{models.StepAdminClientPhone, KindText}:       b.handleAdminPhoneEntered,
		{models.StepAdminSelectCategory, KindCategory}: b.handleAdminCategoryChosen,
		{models.StepAdminSelectService, KindService}:  b.handleAdminServiceChosen,
		{models.StepAdminEnterDate, KindText}:         b.handleAdminDateEntered,
		{models.StepAdminEnterTime, KindText}:         b.handleAdminTimeEntered,
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery

	// Отвечаем на callback сразу, чтобы убрать "часики"
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Failed to answer callback")
	}

	conv := &conversation{
		ctx:      ctx,
		chatID:   callback.From.ID,
		userID:   callback.From.ID,
		userName: displayName(callback.From),
	}
	if callback.Message != nil {
		conv.chatID = callback.Message.Chat.ID
		conv.messageID = callback.Message.MessageID
	}

	ev := DecodeCallback(callback.Data)
	if ev.Kind == KindUnknown {
		zerolog.Ctx(ctx).Debug().Str("data", callback.Data).Msg("Unknown callback data")
		return
	}

	b.dispatch(conv, ev)
}

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	conv := &conversation{
		ctx:      ctx,
		chatID:   message.Chat.ID,
		userID:   message.From.ID,
		userName: displayName(message.From),
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStart(conv)
		case "admin":
			if b.isAdmin(conv.userID) {
				b.showAdminMenu(conv)
			}
		case "help":
			b.sendMessage(conv.chatID, helpText)
		default:
			b.sendMessage(conv.chatID, "Неизвестная команда. Наберите /start, чтобы записаться.")
		}
		return
	}

	b.dispatch(conv, Event{Kind: KindText, Text: message.Text})
}

// dispatch применяет событие к текущему шагу диалога. Сначала
// события, не зависящие от состояния, затем таблица переходов.
func (b *Bot) dispatch(conv *conversation, ev Event) {
	switch ev.Kind {
	case KindCancel:
		b.handleCancelBooking(conv)
		return
	case KindAdminToday, KindAdminTomorrow, KindAdminNew, KindAdminDetail,
		KindAdminComplete, KindAdminCancel, KindAdminDelete, KindAdminExport:
		if !b.isAdmin(conv.userID) {
			return
		}
		b.dispatchAdmin(conv, ev)
		return
	}

	draft, err := b.stateService.Draft(conv.ctx, conv.userID)
	if err != nil || draft == nil {
		if ev.Kind == KindText {
			// Текст вне диалога: подсказываем, с чего начать
			b.sendMessage(conv.chatID, "Чтобы записаться, наберите /start.")
		}
		return
	}
	conv.draft = draft

	handler, ok := b.transitions[transitionKey{draft.Step, ev.Kind}]
	if !ok {
		zerolog.Ctx(conv.ctx).Debug().
			Str("step", draft.Step).
			Str("kind", string(ev.Kind)).
			Msg("No transition for event, ignoring")
		return
	}

	handler(conv, ev)
}

func (b *Bot) saveDraft(conv *conversation) bool {
	if err := b.stateService.Save(conv.ctx, conv.draft); err != nil {
		zerolog.Ctx(conv.ctx).Error().Err(err).Int64("user_id", conv.userID).Msg("Failed to save draft")
		b.sendMessage(conv.chatID, userMessage(err))
		return false
	}
	return true
}

func (b *Bot) clearDraft(conv *conversation) {
	if err := b.stateService.Clear(conv.ctx, conv.userID); err != nil {
		zerolog.Ctx(conv.ctx).Error().Err(err).Int64("user_id", conv.userID).Msg("Failed to clear draft")
	}
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return "Клиент"
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	if name == "" {
		name = user.UserName
	}
	if name == "" {
		name = "Клиент"
	}
	return name
}
