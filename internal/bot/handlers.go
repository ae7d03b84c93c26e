// Package bot connects the appeal dialogue to Telegram.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sayyorqabul/appealbot/internal/appeal"
	"github.com/sayyorqabul/appealbot/internal/dialogue"
)

const (
	defaultAppealsLimit = 5
	maxAppealsLimit     = 20
	appealPreviewRunes  = 200
)

type Dialogue interface {
	Handle(ctx context.Context, chatID int64, ev dialogue.Event) error
}

type AppealLister interface {
	Recent(ctx context.Context, limit int) ([]appeal.Submission, error)
}

type BotService struct {
	api       Sender
	dialogue  Dialogue
	appeals   AppealLister
	operators *Operators
	log       *slog.Logger
}

func New(
	api Sender,
	dialogue Dialogue,
	appeals AppealLister,
	operators *Operators,
	log *slog.Logger,
) *BotService {
	return &BotService{
		api:       api,
		dialogue:  dialogue,
		appeals:   appeals,
		operators: operators,
		log:       log,
	}
}

func (b *BotService) RegisterCommands() error {
	if _, err := b.api.Request(BotCommands()); err != nil {
		return fmt.Errorf("BotService.RegisterCommands: %w", err)
	}

	return nil
}

// Start handles updates one at a time until ctx is done or the channel is
// closed. Each update is fully processed before the next is read.
func (b *BotService) Start(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *BotService) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warn("answer callback failed", "error", err)
		}
		if cb.Message == nil {
			return
		}

		b.dispatch(ctx, cb.Message.Chat.ID, dialogue.ButtonPressed(cb.Data, cb.Message.MessageID))
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}

	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.dispatch(ctx, chatID, dialogue.StartCommand())
		case "cancel":
			b.dispatch(ctx, chatID, dialogue.CancelCommand())
		case "whoami":
			b.handleWhoAmI(msg)
		case "appeals":
			b.handleAppeals(ctx, chatID, msg.CommandArguments())
		}
		return
	}

	if msg.Contact != nil {
		b.dispatch(ctx, chatID, dialogue.ContactShared(msg.Contact.PhoneNumber))
		return
	}

	// Photos, stickers and the like carry no text and are not answers.
	if msg.Text == "" {
		return
	}

	b.dispatch(ctx, chatID, dialogue.TextMessage(msg.Text))
}

func (b *BotService) dispatch(ctx context.Context, chatID int64, ev dialogue.Event) {
	err := b.dialogue.Handle(ctx, chatID, ev)
	switch {
	case err == nil:
	case errors.Is(err, dialogue.ErrPersist):
		b.log.Error("appeal not stored", "chat_id", chatID, "error", err)
	default:
		b.log.Warn("dialogue event failed", "chat_id", chatID, "event", ev.Kind, "error", err)
	}
}

func (b *BotService) handleWhoAmI(msg *tgbotapi.Message) {
	id := msg.Chat.ID
	if msg.From != nil {
		id = msg.From.ID
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Sizning user ID: %d", id))
}

func (b *BotService) handleAppeals(ctx context.Context, chatID int64, args string) {
	if !b.operators.IsOperator(chatID) {
		b.reply(chatID, "Доступ запрещен")
		return
	}

	limit := defaultAppealsLimit
	if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 {
		limit = min(n, maxAppealsLimit)
	}

	subs, err := b.appeals.Recent(ctx, limit)
	if err != nil {
		b.log.Error("load recent appeals", "error", err)
		b.reply(chatID, "Ошибка при получении обращений.")
		return
	}

	if len(subs) == 0 {
		b.reply(chatID, "Обращений пока нет.")
		return
	}

	b.reply(chatID, FormatAppeals(subs))
}

func (b *BotService) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("send reply failed", "chat_id", chatID, "error", err)
	}
}

// FormatAppeals renders a compact operator listing, newest first.
func FormatAppeals(subs []appeal.Submission) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Последние обращения (%d):\n", len(subs))

	for i, s := range subs {
		fmt.Fprintf(&sb, "\n%d. %s · %s\n", i+1, s.Timestamp.UTC().Format(appeal.TimestampLayout), s.FullName)
		fmt.Fprintf(&sb, "   %s, %s · %s · %s\n", s.Region, s.District, s.Mode, s.Phone)
		if s.AppealType != "" {
			fmt.Fprintf(&sb, "   %s\n", s.AppealType)
		}
		fmt.Fprintf(&sb, "   %s\n", preview(s.AppealText))
	}

	return sb.String()
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= appealPreviewRunes {
		return text
	}

	return string(r[:appealPreviewRunes]) + "…"
}
