package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

func (r *Router) reply(chatID int64, text string, markup tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	if _, err := r.bot.Send(msg); err != nil {
		r.logger.Error("Failed to send reply",
			ports.F("chat_id", chatID),
			ports.F("error", err))
	}
}

func (r *Router) handleHelp(ctx context.Context, req *Request) {
	r.reply(req.ChatID, helpText, mainMenuKeyboard())
}

func (r *Router) handleAskCity(ctx context.Context, req *Request) {
	r.reply(req.ChatID, chooseCityText, cityQuickReplyKeyboard())
}

func (r *Router) handleNotificationsMenu(ctx context.Context, req *Request) {
	r.reply(req.ChatID, notificationsMenuText, notificationsMenuKeyboard())
}

func (r *Router) handleMainMenu(ctx context.Context, req *Request) {
	r.reply(req.ChatID, mainMenuText, mainMenuKeyboard())
}

func (r *Router) handleAddPrompt(ctx context.Context, req *Request) {
	r.setPending(req.ChatID, pendingAddNotification)
	r.reply(req.ChatID, addPromptText, notificationsMenuKeyboard())
}

// handleAddNotification consumes the message that follows the add prompt
func (r *Router) handleAddNotification(ctx context.Context, req *Request) {
	r.clearPending(req.ChatID)

	schedule, err := r.notifications.SetSchedule(ctx, req.ChatID, r.stripMention(req.Text))
	if err != nil {
		switch {
		case errors.IsInvalidTimeFormatError(err):
			r.reply(req.ChatID, formatReminderText, notificationsMenuKeyboard())
		default:
			r.reply(req.ChatID, saveFailedText, notificationsMenuKeyboard())
		}
		return
	}

	r.reply(req.ChatID,
		fmt.Sprintf(scheduleSetFormat, schedule.Time, escape(schedule.City)),
		notificationsMenuKeyboard())
}

func (r *Router) handleShowNotification(ctx context.Context, req *Request) {
	schedule, err := r.notifications.GetSchedule(ctx, req.ChatID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			r.reply(req.ChatID, noNotificationText, notificationsMenuKeyboard())
			return
		}
		r.reply(req.ChatID, readFailedText, notificationsMenuKeyboard())
		return
	}

	r.reply(req.ChatID,
		fmt.Sprintf(scheduleShowFormat, escape(schedule.City), schedule.Time),
		notificationsMenuKeyboard())
}

func (r *Router) handleDeleteNotification(ctx context.Context, req *Request) {
	deleted, err := r.notifications.DeleteSchedule(ctx, req.ChatID)
	if err != nil {
		r.reply(req.ChatID, deleteFailedText, notificationsMenuKeyboard())
		return
	}

	if deleted {
		r.reply(req.ChatID, deletedText, notificationsMenuKeyboard())
		return
	}
	r.reply(req.ChatID, nothingToDeleteText, notificationsMenuKeyboard())
}

// handleCityButton answers a quick-reply city; errors keep the city keyboard open
func (r *Router) handleCityButton(ctx context.Context, req *Request) {
	r.replyWeather(ctx, req.ChatID, req.Text, cityQuickReplyKeyboard())
}

func (r *Router) handleCityQuery(ctx context.Context, req *Request) {
	r.replyWeather(ctx, req.ChatID, r.stripMention(req.Text), mainMenuKeyboard())
}

func (r *Router) replyWeather(ctx context.Context, chatID int64, city string, onError tgbotapi.ReplyKeyboardMarkup) {
	w, err := r.weather.GetWeather(ctx, weather.WeatherRequest{Location: city})
	if err != nil {
		message := userMessage(err)
		if message == "" {
			r.logger.Error("Unexpected weather error",
				ports.F("chat_id", chatID),
				ports.F("error", err))
			r.reply(chatID, weatherFailedText, mainMenuKeyboard())
			return
		}
		r.reply(chatID, "❌ "+escape(message), onError)
		return
	}

	r.reply(chatID, weather.FormatMessage(w, weather.DefaultTitle), mainMenuKeyboard())
}
