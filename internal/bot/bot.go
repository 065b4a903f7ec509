package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/meetingbot/internal/claims"
	"github.com/example/meetingbot/internal/notify"
)

// Roster is the employee allow-list as seen by the transport. Add/Remove
// report whether anything changed.
type Roster interface {
	Exists(ctx context.Context, userID string) (bool, error)
	Add(ctx context.Context, userID string) (bool, error)
	Remove(ctx context.Context, userID string) (bool, error)
}

// Bot is the Telegram side of the claim workflow: it turns commands and
// inline-button callbacks into typed roster and claim calls. All action
// string parsing stays here.
type Bot struct {
	api    *tgbotapi.BotAPI
	claims *claims.Manager
	roster Roster
	render notify.Renderer
}

func New(api *tgbotapi.BotAPI, cm *claims.Manager, roster Roster, render notify.Renderer) *Bot {
	return &Bot{api: api, claims: cm, roster: roster, render: render}
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, upd)
		}
	}
}

func (b *Bot) handle(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.IsCommand():
		b.handleCommand(ctx, upd.Message)
	}
}

const deniedText = "Вы не являетесь сотрудником. Доступ запрещен."

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg, "Привет! Я бот для работы с календарём.\n"+
			"Команды:\n"+
			"/add <user_id> — добавить сотрудника\n"+
			"/rm <user_id> — удалить сотрудника\n")
	case "add":
		b.handleRosterChange(ctx, msg, true)
	case "rm":
		b.handleRosterChange(ctx, msg, false)
	}
}

func (b *Bot) handleRosterChange(ctx context.Context, msg *tgbotapi.Message, add bool) {
	if msg.From == nil {
		return
	}
	actorID := strconv.FormatInt(msg.From.ID, 10)
	ok, err := b.roster.Exists(ctx, actorID)
	if err != nil {
		log.Printf("bot: roster lookup failed: %v", err)
		return
	}
	if !ok {
		b.reply(msg, deniedText)
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		if add {
			b.reply(msg, "Укажите Telegram user_id: /add <user_id>")
		} else {
			b.reply(msg, "Укажите Telegram user_id: /rm <user_id>")
		}
		return
	}
	target := args[0]

	if add {
		created, err := b.roster.Add(ctx, target)
		if err != nil {
			log.Printf("bot: add employee failed: %v", err)
			return
		}
		if !created {
			b.reply(msg, fmt.Sprintf("Сотрудник с user_id=%s уже есть в базе.", target))
			return
		}
		b.reply(msg, fmt.Sprintf("Сотрудник c user_id=%s добавлен!", target))
		return
	}

	removed, err := b.roster.Remove(ctx, target)
	if err != nil {
		log.Printf("bot: remove employee failed: %v", err)
		return
	}
	if !removed {
		b.reply(msg, fmt.Sprintf("Сотрудник с user_id=%s не найден.", target))
		return
	}
	b.reply(msg, fmt.Sprintf("Сотрудник с user_id=%s удалён!", target))
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	action, ok := notify.ParseCallbackData(q.Data)
	if !ok || q.Message == nil || q.From == nil {
		b.answer(q, "")
		return
	}

	actorID := strconv.FormatInt(q.From.ID, 10)
	claimant := claimantFor(q.From)

	switch action.Kind {
	case notify.ActionClaim:
		m, err := b.claims.Claim(ctx, action.MeetingID, actorID, claimant)
		switch {
		case err == nil:
			b.edit(q, b.render.Claimed(m))
		case errors.Is(err, claims.ErrNotAuthorized):
			b.editText(q, deniedText)
		case errors.Is(err, claims.ErrNotFound):
			b.editText(q, "Встреча не найдена в базе.")
		case errors.Is(err, claims.ErrWindowConflict):
			b.editText(q, "‼️ Внимание встреча пересекается с планеркой отдела тех.поддержки,\nнельзя взять эту встречу!")
		default:
			var taken *claims.AlreadyTakenError
			if errors.As(err, &taken) {
				b.editText(q, fmt.Sprintf("Встреча уже взята @%s.", taken.Claimant))
			} else {
				log.Printf("bot: claim failed: %v", err)
			}
		}

	case notify.ActionRelease:
		m, err := b.claims.Release(ctx, action.MeetingID, actorID, claimant)
		switch {
		case err == nil:
			b.edit(q, b.render.Released(m))
		case errors.Is(err, claims.ErrNotAuthorized):
			b.editText(q, deniedText)
		case errors.Is(err, claims.ErrNotFound):
			b.editText(q, "Встреча не найдена.")
		case errors.Is(err, claims.ErrNotClaimant):
			// Alert instead of clobbering the shared message.
			b.answer(q, "Вы не являетесь ответственным за эту встречу.")
			return
		default:
			log.Printf("bot: release failed: %v", err)
		}
	}

	b.answer(q, "")
}

// claimantFor derives the identity stored on a claimed meeting: the
// username lower-cased, or a user_id fallback for accounts without one.
func claimantFor(u *tgbotapi.User) string {
	if u.UserName != "" {
		return strings.ToLower(u.UserName)
	}
	return fmt.Sprintf("user_id_%d", u.ID)
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	m := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.api.Send(m); err != nil {
		log.Printf("bot: reply failed: %v", err)
	}
}

func (b *Bot) edit(q *tgbotapi.CallbackQuery, msg notify.Message) {
	if msg.Action != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(
			q.Message.Chat.ID, q.Message.MessageID, msg.Text, notify.ButtonFor(*msg.Action))
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("bot: edit failed: %v", err)
		}
		return
	}
	b.editText(q, msg.Text)
}

func (b *Bot) editText(q *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(q.Message.Chat.ID, q.Message.MessageID, text)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("bot: edit failed: %v", err)
	}
}

func (b *Bot) answer(q *tgbotapi.CallbackQuery, alert string) {
	var cb tgbotapi.CallbackConfig
	if alert != "" {
		cb = tgbotapi.NewCallbackWithAlert(q.ID, alert)
	} else {
		cb = tgbotapi.NewCallback(q.ID, "")
	}
	if _, err := b.api.Request(cb); err != nil {
		log.Printf("bot: callback answer failed: %v", err)
	}
}
