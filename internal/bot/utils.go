package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sayyorqabul/appealbot/internal/dialogue"
)

func BotCommands() tgbotapi.SetMyCommandsConfig {
	return tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Boshlash / Старт"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Bekor qilish / Отмена"},
		tgbotapi.BotCommand{Command: "whoami", Description: "User ID ni ko‘rish"},
	)
}

// InlineKeyboard puts every button on its own row.
func InlineKeyboard(buttons []dialogue.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Value),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func ContactKeyboard(label string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(label),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true

	return kb
}

func replyMarkup(opts *dialogue.PromptOptions) interface{} {
	switch {
	case opts == nil:
		return nil
	case len(opts.Buttons) > 0:
		return InlineKeyboard(opts.Buttons)
	case opts.ContactButton != "":
		return ContactKeyboard(opts.ContactButton)
	case opts.RemoveKeyboard:
		return tgbotapi.NewRemoveKeyboard(true)
	default:
		return nil
	}
}
