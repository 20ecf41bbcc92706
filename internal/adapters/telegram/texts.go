package telegram

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"weatherbot.app/pkg/errors"
)

// Menu buttons
const (
	buttonWeather       = "🌦 Погода сейчас"
	buttonNotifications = "⏰ Уведомления"
	buttonHelp          = "ℹ️ Помощь"

	buttonAddNotification    = "➕ Добавить уведомление"
	buttonDeleteNotification = "❌ Удалить уведомление"
	buttonListNotification   = "📋 Мои уведомления"
	buttonMainMenu           = "🔙 Главное меню"
)

var menuButtons = map[string]struct{}{
	buttonWeather:            {},
	buttonNotifications:      {},
	buttonHelp:               {},
	buttonAddNotification:    {},
	buttonDeleteNotification: {},
	buttonListNotification:   {},
	buttonMainMenu:           {},
}

var quickCities = []string{"Москва", "Санкт-Петербург", "Новосибирск", "Екатеринбург"}

const (
	helpText = "🌟 <b>Помощь по боту</b> 🌟\n\n" +
		"Я могу показать текущую погоду в любом городе мира!\n\n" +
		"📌 <b>Основные команды:</b>\n" +
		"/start - Начать работу с ботом\n" +
		"/help - Показать это сообщение\n" +
		"/alert - Настроить уведомления\n\n" +
		"🌦 <b>Как узнать погоду:</b>\n" +
		"1. Нажмите кнопку \"🌦 Погода сейчас\"\n" +
		"2. Выберите город из списка или введите свой\n\n" +
		"⏰ <b>Уведомления:</b>\n" +
		"Можно настроить ежедневные уведомления о погоде\n\n" +
		"🔍 <b>Примеры запросов:</b>\n" +
		"<code>Москва</code>\n" +
		"<code>London</code>\n" +
		"<code>Нью-Йорк</code>"

	chooseCityText        = "Выберите город или введите свой:"
	notificationsMenuText = "🔔 Управление уведомлениями:"
	mainMenuText          = "Главное меню:"
	addPromptText         = "Введите город и время в формате:\n<b>Город ЧЧ:ММ</b>\nПример: <i>Москва 08:30</i>"
	formatReminderText    = "❌ Неверный формат. Используйте: Город ЧЧ:ММ\nПример: Москва 08:30"
	saveFailedText        = "❌ Не удалось сохранить уведомление"
	readFailedText        = "❌ Не удалось прочитать уведомления"
	deleteFailedText      = "❌ Не удалось удалить уведомление"
	noNotificationText    = "ℹ️ У вас нет активных уведомлений"
	deletedText           = "✅ Уведомление удалено"
	nothingToDeleteText   = "ℹ️ Нечего удалять - у вас нет активных уведомлений"
	weatherFailedText     = "❌ Произошла ошибка при получении погоды"

	scheduleSetFormat  = "✅ Уведомление установлено на %s для %s"
	scheduleShowFormat = "🔔 Ваше уведомление:\nГород: %s\nВремя: %s"
)

// userMessage maps an error to the short text shown to the user.
// Unknown errors yield an empty string.
func userMessage(err error) string {
	var appErr *errors.AppError
	message := ""
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch errors.TypeOf(err) {
	case errors.InvalidLocationError:
		return "Название города слишком короткое"
	case errors.LocationNotFoundError:
		return "Город не найден"
	case errors.ProviderError:
		return fmt.Sprintf("Ошибка API: %s", message)
	case errors.ConnectionError:
		return fmt.Sprintf("Ошибка соединения: %s", message)
	case errors.MalformedResponseError:
		return "Неверный формат данных от сервера"
	case errors.StoreIOError:
		return "Не удалось сохранить уведомление"
	case errors.InvalidTimeFormatError:
		return "Неверный формат. Используйте: Город ЧЧ:ММ\nПример: Москва 08:30"
	default:
		return ""
	}
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonWeather),
			tgbotapi.NewKeyboardButton(buttonNotifications),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonHelp),
		),
	)
}

func notificationsMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAddNotification),
			tgbotapi.NewKeyboardButton(buttonDeleteNotification),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonListNotification),
			tgbotapi.NewKeyboardButton(buttonMainMenu),
		),
	)
}

func cityQuickReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(quickCities); i += 2 {
		row := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(quickCities[i])}
		if i+1 < len(quickCities) {
			row = append(row, tgbotapi.NewKeyboardButton(quickCities[i+1]))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func isMenuButton(text string) bool {
	_, ok := menuButtons[text]
	return ok
}

func isQuickCity(text string) bool {
	for _, city := range quickCities {
		if text == city {
			return true
		}
	}
	return false
}

func escape(s string) string {
	return html.EscapeString(s)
}
