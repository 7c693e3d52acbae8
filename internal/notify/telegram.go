package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers notifications to linked Telegram chats.
type TelegramNotifier struct {
	BotAPI *tgbotapi.BotAPI
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)
	return &TelegramNotifier{BotAPI: bot}, nil
}

func (t *TelegramNotifier) Notify(chatID int64, title, body string) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s\n%s", title, body))
	_, err := t.BotAPI.Send(msg)
	return err
}
