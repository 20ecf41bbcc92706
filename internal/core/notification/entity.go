package notification

import (
	"strconv"
	"strings"
	"time"

	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
	"weatherbot.app/pkg/validation"
)

// Schedule is a user's daily weather notification
type Schedule struct {
	ChatID int64
	City   string
	Time   string
}

// ScheduleRequest is a parsed "City HH:MM" message
type ScheduleRequest struct {
	City string `validate:"required"`
	Time string `validate:"required,timeofday"`
}

// ParseScheduleRequest splits text at its last space into a city and an "HH:MM" time.
// The city may itself contain spaces ("Нью Йорк 07:45").
func ParseScheduleRequest(text string) (*ScheduleRequest, error) {
	text = strings.TrimSpace(text)
	idx := strings.LastIndex(text, " ")
	if idx <= 0 {
		return nil, errors.NewInvalidTimeFormatError("expected \"City HH:MM\"", nil)
	}

	req := &ScheduleRequest{
		City: strings.TrimSpace(text[:idx]),
		Time: strings.TrimSpace(text[idx+1:]),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	normalized, err := validation.NormalizeTimeOfDay(req.Time)
	if err != nil {
		return nil, errors.NewInvalidTimeFormatError("invalid time of day", err)
	}
	req.Time = normalized

	return req, nil
}

// Validate checks the request fields. Only the time is constrained; the city is
// resolved by the weather provider at delivery.
func (r *ScheduleRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return errors.NewInvalidTimeFormatError("time must be HH:MM between 00:00 and 23:59", err)
	}
	return nil
}

// MinuteKey formats t as the "HH:MM" string schedules are matched against
func MinuteKey(t time.Time) string {
	return t.Format(validation.TimeOfDayLayout)
}

// Matches reports whether the schedule is due in the minute of now
func (s *Schedule) Matches(now time.Time) bool {
	return s.Time == MinuteKey(now)
}

func scheduleFromData(chatID int64, data *ports.ScheduleData) *Schedule {
	return &Schedule{
		ChatID: chatID,
		City:   data.City,
		Time:   data.Time,
	}
}

// parseChatID converts a stored key back to a chat id
func parseChatID(key string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(key), 10, 64)
}
