package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sayyorqabul/appealbot/internal/dialogue"
)

// Sender is the part of *tgbotapi.BotAPI the bot needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger renders dialogue prompts as Telegram messages.
type Messenger struct {
	api Sender
}

func NewMessenger(api Sender) *Messenger {
	return &Messenger{
		api: api,
	}
}

func (m *Messenger) RenderPrompt(_ context.Context, chatID int64, text string, opts *dialogue.PromptOptions) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := replyMarkup(opts); markup != nil {
		msg.ReplyMarkup = markup
	}

	sent, err := m.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("Messenger.RenderPrompt: %w", err)
	}

	return sent.MessageID, nil
}

// EditPrompt replaces the text of a prompt in place. Only inline buttons can
// be attached to an edited message; reply keyboard options are ignored.
func (m *Messenger) EditPrompt(_ context.Context, chatID int64, messageID int, text string, opts *dialogue.PromptOptions) error {
	var edit tgbotapi.Chattable
	if opts != nil && len(opts.Buttons) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, InlineKeyboard(opts.Buttons))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}

	if _, err := m.api.Send(edit); err != nil {
		return fmt.Errorf("Messenger.EditPrompt: %w", err)
	}

	return nil
}
