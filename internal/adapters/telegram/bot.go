package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// BotAPI is the part of *tgbotapi.BotAPI the adapter uses
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// NewBotAPI connects to Telegram and resolves the bot's own username
func NewBotAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.NewConfigurationError("bot token is required", nil)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.NewConnectionError("failed to connect to Telegram", err)
	}
	bot.Debug = debug

	return bot, nil
}

// Messenger implements ports.Messenger over the Bot API with HTML parse mode
type Messenger struct {
	bot BotAPI
}

func NewMessenger(bot BotAPI) *Messenger {
	return &Messenger{bot: bot}
}

var _ ports.Messenger = (*Messenger)(nil)

func (m *Messenger) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewDeliveryError("send cancelled", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := m.bot.Send(msg); err != nil {
		return errors.NewDeliveryError("failed to send telegram message", err)
	}
	return nil
}
