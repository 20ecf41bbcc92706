package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"weatherbot.app/internal/core/notification"
	"weatherbot.app/internal/core/weather"
	"weatherbot.app/internal/ports"
)

const pendingAddNotification = "await_notification_text"

// WeatherService answers interactive weather queries
type WeatherService interface {
	GetWeather(ctx context.Context, request weather.WeatherRequest) (*weather.Weather, error)
}

// NotificationService manages a chat's daily notification
type NotificationService interface {
	SetSchedule(ctx context.Context, chatID int64, text string) (*notification.Schedule, error)
	GetSchedule(ctx context.Context, chatID int64) (*notification.Schedule, error)
	DeleteSchedule(ctx context.Context, chatID int64) (bool, error)
}

// Request is one incoming text message
type Request struct {
	ChatID   int64
	ChatType string
	Text     string
	// Pending is the chat's conversational state when the message arrived
	Pending string
}

// Route pairs a predicate with its handler. Routes are tried in order; the first match handles.
type Route struct {
	Name   string
	Match  func(r *Request) bool
	Handle func(ctx context.Context, r *Request)
}

// Router wires Telegram updates to handlers and holds minimal in-memory state
type Router struct {
	bot           BotAPI
	botUsername   string
	weather       WeatherService
	notifications NotificationService
	logger        ports.Logger
	routes        []Route

	mu    sync.RWMutex
	state map[int64]string
}

type RouterDependencies struct {
	Bot           BotAPI
	BotUsername   string
	Weather       WeatherService
	Notifications NotificationService
	Logger        ports.Logger
}

func NewRouter(deps RouterDependencies) *Router {
	r := &Router{
		bot:           deps.Bot,
		botUsername:   deps.BotUsername,
		weather:       deps.Weather,
		notifications: deps.Notifications,
		logger:        deps.Logger,
		state:         make(map[int64]string),
	}
	r.routes = r.buildRoutes()
	return r
}

func (r *Router) buildRoutes() []Route {
	gated := func(match func(req *Request) bool) func(req *Request) bool {
		return func(req *Request) bool {
			return r.isAddressed(req) && match(req)
		}
	}
	button := func(text string) func(req *Request) bool {
		return gated(func(req *Request) bool { return req.Text == text })
	}

	return []Route{
		{Name: "command_help", Match: gated(isCommand("start", "help")), Handle: r.handleHelp},
		{Name: "command_alert", Match: gated(isCommand("alert")), Handle: r.handleNotificationsMenu},
		{Name: "button_weather", Match: button(buttonWeather), Handle: r.handleAskCity},
		{Name: "button_help", Match: button(buttonHelp), Handle: r.handleHelp},
		{Name: "button_notifications", Match: button(buttonNotifications), Handle: r.handleNotificationsMenu},
		{Name: "button_add", Match: button(buttonAddNotification), Handle: r.handleAddPrompt},
		{Name: "button_list", Match: button(buttonListNotification), Handle: r.handleShowNotification},
		{Name: "button_delete", Match: button(buttonDeleteNotification), Handle: r.handleDeleteNotification},
		{Name: "button_main_menu", Match: button(buttonMainMenu), Handle: r.handleMainMenu},
		{Name: "pending_add", Match: func(req *Request) bool { return req.Pending == pendingAddNotification }, Handle: r.handleAddNotification},
		{Name: "city_button", Match: func(req *Request) bool { return isQuickCity(req.Text) }, Handle: r.handleCityButton},
		{Name: "city_query", Match: gated(func(req *Request) bool { return true }), Handle: r.handleCityQuery},
	}
}

// Run handles updates until ctx is cancelled or the channel closes
func (r *Router) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	r.logger.Info("Telegram update loop started", ports.F("bot", r.botUsername))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Telegram update loop stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				r.logger.Warn("Telegram updates channel closed")
				return
			}
			r.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate routes a single update. Non-text updates are ignored.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.Text == "" || upd.Message.Chat == nil {
		return
	}

	msg := upd.Message
	req := &Request{
		ChatID:   msg.Chat.ID,
		ChatType: msg.Chat.Type,
		Text:     strings.TrimSpace(msg.Text),
		Pending:  r.getPending(msg.Chat.ID),
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Update handler panicked",
				ports.F("chat_id", req.ChatID),
				ports.F("panic", fmt.Sprint(rec)))
		}
	}()

	route, ok := r.match(req)
	if !ok {
		return
	}

	// Any other command or button abandons an unfinished add flow.
	if req.Pending != "" && route.Name != "pending_add" {
		r.clearPending(req.ChatID)
	}

	r.logger.Debug("Handling message",
		ports.F("chat_id", req.ChatID),
		ports.F("route", route.Name))
	route.Handle(ctx, req)
}

func (r *Router) match(req *Request) (Route, bool) {
	for _, route := range r.routes {
		if route.Match(req) {
			return route, true
		}
	}
	return Route{}, false
}

// isAddressed reports whether the bot should react to a message in this chat
func (r *Router) isAddressed(req *Request) bool {
	if req.ChatType == "private" {
		return true
	}
	if r.botUsername != "" && strings.Contains(req.Text, "@"+r.botUsername) {
		return true
	}
	if strings.HasPrefix(req.Text, "/") {
		return true
	}
	return isMenuButton(req.Text) || isQuickCity(req.Text)
}

// stripMention removes the bot handle from a group message
func (r *Router) stripMention(text string) string {
	if r.botUsername == "" {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.ReplaceAll(text, "@"+r.botUsername, ""))
}

func isCommand(names ...string) func(req *Request) bool {
	return func(req *Request) bool {
		if !strings.HasPrefix(req.Text, "/") {
			return false
		}
		command := strings.Fields(req.Text)[0][1:]
		if at := strings.Index(command, "@"); at >= 0 {
			command = command[:at]
		}
		for _, name := range names {
			if command == name {
				return true
			}
		}
		return false
	}
}

func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}
