package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback-data prefixes on inline buttons. Parsing happens here and in
// internal/bot only; the claim workflow itself works with typed actions.
const (
	callbackClaimPrefix   = "take:"
	callbackReleasePrefix = "decline:"
)

// CallbackData encodes an action into Telegram callback data.
func CallbackData(a Action) string {
	switch a.Kind {
	case ActionRelease:
		return callbackReleasePrefix + a.MeetingID
	default:
		return callbackClaimPrefix + a.MeetingID
	}
}

// ParseCallbackData decodes Telegram callback data back into an action.
func ParseCallbackData(data string) (Action, bool) {
	switch {
	case strings.HasPrefix(data, callbackClaimPrefix):
		return Action{Kind: ActionClaim, MeetingID: strings.TrimPrefix(data, callbackClaimPrefix)}, true
	case strings.HasPrefix(data, callbackReleasePrefix):
		return Action{Kind: ActionRelease, MeetingID: strings.TrimPrefix(data, callbackReleasePrefix)}, true
	}
	return Action{}, false
}

// ButtonFor renders the inline keyboard for an action.
func ButtonFor(a Action) tgbotapi.InlineKeyboardMarkup {
	label := "Взять встречу"
	if a.Kind == ActionRelease {
		label = "Отказаться от встречи"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, CallbackData(a)),
		),
	)
}

// Telegram sends messages through the Bot API.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(api *tgbotapi.BotAPI) *Telegram {
	return &Telegram{api: api}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := tgbotapi.NewMessage(chatID, msg.Text)
	if msg.Action != nil {
		m.ReplyMarkup = ButtonFor(*msg.Action)
	}
	if _, err := t.api.Send(m); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
