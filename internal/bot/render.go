package bot

import (
	"log"

	"github.com/glebk/lunch-buddy/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func keyboardMarkup(p domain.Prompt) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(p.Keyboard))
	for _, row := range p.Keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Action))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// deliverPrompt sends a prompt as a new message
func (b *Bot) deliverPrompt(chatID int64, p domain.Prompt) error {
	msg := tgbotapi.NewMessage(chatID, p.Text)
	if p.HasKeyboard() {
		msg.ReplyMarkup = keyboardMarkup(p)
	}
	_, err := b.api.Send(msg)
	return err
}

// sendPrompt sends a prompt as a new message, logging failures
func (b *Bot) sendPrompt(chatID int64, p domain.Prompt) {
	if err := b.deliverPrompt(chatID, p); err != nil {
		log.Printf("Error sending prompt to chat %d: %v", chatID, err)
	}
}

// editPrompt replaces a message with a prompt, dropping the keyboard when
// the prompt has none
func (b *Bot) editPrompt(message *tgbotapi.Message, p domain.Prompt) {
	var edit tgbotapi.EditMessageTextConfig
	if p.HasKeyboard() {
		edit = tgbotapi.NewEditMessageTextAndMarkup(message.Chat.ID, message.MessageID, p.Text, keyboardMarkup(p))
	} else {
		edit = tgbotapi.NewEditMessageText(message.Chat.ID, message.MessageID, p.Text)
	}
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing message: %v", err)
	}
}
