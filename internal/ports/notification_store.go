package ports

import "context"

// ScheduleData is the persisted form of a user's daily notification
type ScheduleData struct {
	ChatID string `json:"-"`
	City   string `json:"city"`
	Time   string `json:"time"`
}

// NotificationStore defines the contract for schedule persistence.
// Implementations serialize writes; a Save fully replaces the previous entry.
type NotificationStore interface {
	Save(ctx context.Context, chatID int64, city, timeOfDay string) error
	Get(ctx context.Context, chatID int64) (*ScheduleData, error)
	GetAll(ctx context.Context) (map[string]ScheduleData, error)
	Delete(ctx context.Context, chatID int64) (bool, error)
	Close() error
}
