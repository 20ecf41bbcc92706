package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherbot.app/internal/core/notification"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/mocks"
	"weatherbot.app/pkg/errors"
)

type fakeBot struct {
	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	sendErr error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, msg)
	}
	return tgbotapi.Message{}, b.sendErr
}

func (b *fakeBot) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) StopReceivingUpdates() {}

func (b *fakeBot) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), b.sent...)
}

func (b *fakeBot) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	msgs := b.messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

type fakeWeather struct {
	queries []string
	result  *weather.Weather
	err     error
}

func (f *fakeWeather) GetWeather(ctx context.Context, request weather.WeatherRequest) (*weather.Weather, error) {
	f.queries = append(f.queries, request.Location)
	return f.result, f.err
}

type fakeNotifications struct {
	setTexts  []string
	setResult *notification.Schedule
	setErr    error
	schedule  *notification.Schedule
	getErr    error
	deleted   bool
	deleteErr error
}

func (f *fakeNotifications) SetSchedule(ctx context.Context, chatID int64, text string) (*notification.Schedule, error) {
	f.setTexts = append(f.setTexts, text)
	return f.setResult, f.setErr
}

func (f *fakeNotifications) GetSchedule(ctx context.Context, chatID int64) (*notification.Schedule, error) {
	return f.schedule, f.getErr
}

func (f *fakeNotifications) DeleteSchedule(ctx context.Context, chatID int64) (bool, error) {
	return f.deleted, f.deleteErr
}

type routerFixture struct {
	bot           *fakeBot
	weather       *fakeWeather
	notifications *fakeNotifications
	router        *Router
}

func newRouterFixture(t *testing.T) *routerFixture {
	f := &routerFixture{
		bot: &fakeBot{},
		weather: &fakeWeather{result: &weather.Weather{
			City: "Moscow", Temperature: 5, FeelsLike: 2, Description: "clear sky", Humidity: 60, WindSpeed: 3,
		}},
		notifications: &fakeNotifications{},
	}
	f.router = NewRouter(RouterDependencies{
		Bot:           f.bot,
		BotUsername:   "weather_bot",
		Weather:       f.weather,
		Notifications: f.notifications,
		Logger:        mocks.NewPermissiveLogger(t),
	})
	return f
}

func (f *routerFixture) send(chatType, text string) {
	f.router.HandleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: 77, Type: chatType},
		},
	})
}

func TestRouter_CommandsAndMenus(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
		wantKB   tgbotapi.ReplyKeyboardMarkup
	}{
		{name: "Start", text: "/start", wantText: helpText, wantKB: mainMenuKeyboard()},
		{name: "Help", text: "/help", wantText: helpText, wantKB: mainMenuKeyboard()},
		{name: "HelpButton", text: buttonHelp, wantText: helpText, wantKB: mainMenuKeyboard()},
		{name: "Alert", text: "/alert", wantText: notificationsMenuText, wantKB: notificationsMenuKeyboard()},
		{name: "NotificationsButton", text: buttonNotifications, wantText: notificationsMenuText, wantKB: notificationsMenuKeyboard()},
		{name: "WeatherButton", text: buttonWeather, wantText: chooseCityText, wantKB: cityQuickReplyKeyboard()},
		{name: "MainMenu", text: buttonMainMenu, wantText: mainMenuText, wantKB: mainMenuKeyboard()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)

			f.send("private", tt.text)

			msg := f.bot.last(t)
			assert.Equal(t, int64(77), msg.ChatID)
			assert.Equal(t, tt.wantText, msg.Text)
			assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
			assert.Equal(t, tt.wantKB, msg.ReplyMarkup)
			assert.Empty(t, f.weather.queries)
		})
	}
}

func TestRouter_GroupGating(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantReply bool
		wantQuery string
	}{
		{name: "PlainTextIgnored", text: "London", wantReply: false},
		{name: "MentionQueriesStrippedCity", text: "@weather_bot London", wantReply: true, wantQuery: "London"},
		{name: "CommandWithHandle", text: "/help@weather_bot", wantReply: true},
		{name: "MenuButton", text: buttonWeather, wantReply: true},
		{name: "QuickCity", text: "Новосибирск", wantReply: true, wantQuery: "Новосибирск"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)

			f.send("group", tt.text)

			if !tt.wantReply {
				assert.Empty(t, f.bot.messages())
				assert.Empty(t, f.weather.queries)
				return
			}
			assert.Len(t, f.bot.messages(), 1)
			if tt.wantQuery != "" {
				assert.Equal(t, []string{tt.wantQuery}, f.weather.queries)
			}
		})
	}
}

func TestRouter_CityQuery(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newRouterFixture(t)

		f.send("private", "Moscow")

		msg := f.bot.last(t)
		assert.True(t, strings.HasPrefix(msg.Text, weather.DefaultTitle+"\n\n🌆 <b>Moscow</b>"))
		assert.Equal(t, mainMenuKeyboard(), msg.ReplyMarkup)
	})

	t.Run("KnownErrorIsShown", func(t *testing.T) {
		f := newRouterFixture(t)
		f.weather.err = errors.NewLocationNotFoundError("city not found")

		f.send("private", "Atlantis")

		msg := f.bot.last(t)
		assert.Equal(t, "❌ Город не найден", msg.Text)
		assert.Equal(t, mainMenuKeyboard(), msg.ReplyMarkup)
	})

	t.Run("QuickCityErrorKeepsCityKeyboard", func(t *testing.T) {
		f := newRouterFixture(t)
		f.weather.err = errors.NewConnectionError("timeout", nil)

		f.send("private", "Москва")

		msg := f.bot.last(t)
		assert.Equal(t, "❌ Ошибка соединения: timeout", msg.Text)
		assert.Equal(t, cityQuickReplyKeyboard(), msg.ReplyMarkup)
	})

	t.Run("UnknownErrorIsGeneric", func(t *testing.T) {
		f := newRouterFixture(t)
		f.weather.err = context.DeadlineExceeded

		f.send("private", "Paris")

		assert.Equal(t, weatherFailedText, f.bot.last(t).Text)
	})
}

func TestRouter_AddNotificationFlow(t *testing.T) {
	t.Run("Saved", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.setResult = &notification.Schedule{ChatID: 77, City: "Москва", Time: "08:30"}

		f.send("private", buttonAddNotification)
		assert.Equal(t, addPromptText, f.bot.last(t).Text)

		f.send("private", "Москва 08:30")

		assert.Equal(t, []string{"Москва 08:30"}, f.notifications.setTexts)
		msg := f.bot.last(t)
		assert.Equal(t, "✅ Уведомление установлено на 08:30 для Москва", msg.Text)
		assert.Equal(t, notificationsMenuKeyboard(), msg.ReplyMarkup)
		assert.Empty(t, f.router.getPending(77))
	})

	t.Run("BadFormatRemindsAndEndsFlow", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.setErr = errors.NewInvalidTimeFormatError("bad", nil)

		f.send("private", buttonAddNotification)
		f.send("private", "Москва утром")
		assert.Equal(t, formatReminderText, f.bot.last(t).Text)

		f.send("private", "London")
		assert.Equal(t, []string{"London"}, f.weather.queries)
		assert.Len(t, f.notifications.setTexts, 1)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.setErr = errors.NewStoreIOError("disk full", nil)

		f.send("private", buttonAddNotification)
		f.send("private", "Москва 08:30")

		assert.Equal(t, saveFailedText, f.bot.last(t).Text)
	})

	t.Run("MenuButtonAbandonsFlow", func(t *testing.T) {
		f := newRouterFixture(t)

		f.send("private", buttonAddNotification)
		f.send("private", buttonMainMenu)

		assert.Equal(t, mainMenuText, f.bot.last(t).Text)
		assert.Empty(t, f.router.getPending(77))
		assert.Empty(t, f.notifications.setTexts)
	})

	t.Run("GroupReplyWithoutMention", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.setResult = &notification.Schedule{ChatID: 77, City: "Paris", Time: "07:00"}

		f.send("group", buttonAddNotification)
		f.send("group", "Paris 07:00")

		assert.Equal(t, []string{"Paris 07:00"}, f.notifications.setTexts)
	})
}

func TestRouter_ShowAndDeleteNotification(t *testing.T) {
	t.Run("Show", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.schedule = &notification.Schedule{ChatID: 77, City: "Москва", Time: "08:30"}

		f.send("private", buttonListNotification)

		assert.Equal(t, "🔔 Ваше уведомление:\nГород: Москва\nВремя: 08:30", f.bot.last(t).Text)
	})

	t.Run("ShowNone", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.getErr = errors.NewNotFoundError("notification not found")

		f.send("private", buttonListNotification)

		assert.Equal(t, noNotificationText, f.bot.last(t).Text)
	})

	t.Run("ShowStoreFailure", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.getErr = errors.NewStoreIOError("read notifications", assert.AnError)

		f.send("private", buttonListNotification)

		msg := f.bot.last(t)
		assert.Equal(t, readFailedText, msg.Text)
		assert.Equal(t, notificationsMenuKeyboard(), msg.ReplyMarkup)
	})

	t.Run("DeleteStoreFailure", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.deleteErr = errors.NewStoreIOError("write notifications", assert.AnError)

		f.send("private", buttonDeleteNotification)

		msg := f.bot.last(t)
		assert.Equal(t, deleteFailedText, msg.Text)
		assert.Equal(t, notificationsMenuKeyboard(), msg.ReplyMarkup)
	})

	t.Run("Delete", func(t *testing.T) {
		f := newRouterFixture(t)
		f.notifications.deleted = true

		f.send("private", buttonDeleteNotification)

		assert.Equal(t, deletedText, f.bot.last(t).Text)
	})

	t.Run("DeleteNothing", func(t *testing.T) {
		f := newRouterFixture(t)

		f.send("private", buttonDeleteNotification)

		assert.Equal(t, nothingToDeleteText, f.bot.last(t).Text)
	})
}

func TestRouter_IgnoresNonTextUpdates(t *testing.T) {
	f := newRouterFixture(t)

	f.router.HandleUpdate(context.Background(), tgbotapi.Update{})
	f.router.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1, Type: "private"}}})

	assert.Empty(t, f.bot.messages())
}

func TestRouter_RunStops(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("OnCancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			f.router.Run(ctx, make(chan tgbotapi.Update))
			close(done)
		}()
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("router did not stop")
		}
	})

	t.Run("OnClosedChannel", func(t *testing.T) {
		updates := make(chan tgbotapi.Update, 1)
		updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "/start", Chat: &tgbotapi.Chat{ID: 5, Type: "private"}}}
		close(updates)

		f.router.Run(context.Background(), updates)

		assert.Equal(t, int64(5), f.bot.last(t).ChatID)
	})
}
