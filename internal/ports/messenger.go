package ports

import "context"

// Messenger delivers formatted text to a chat
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}
