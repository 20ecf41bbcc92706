package validation

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// TimeOfDayLayout is the wall-clock layout used for schedules
const TimeOfDayLayout = "15:04"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the project's custom tags registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// registration only fails on an empty tag or nil func
		_ = validate.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
			return IsValidTimeOfDay(fl.Field().String())
		})
	})
	return validate
}

// Struct validates a struct using `validate` tags
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// HasMinLength reports whether the trimmed string has at least n characters
func HasMinLength(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

// IsValidTimeOfDay checks for a 24-hour "HH:MM" time between 00:00 and 23:59
func IsValidTimeOfDay(s string) bool {
	_, err := time.Parse(TimeOfDayLayout, s)
	return err == nil
}

// NormalizeTimeOfDay parses a time of day and returns it zero-padded as "HH:MM"
func NormalizeTimeOfDay(s string) (string, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(TimeOfDayLayout), nil
}
