package weather

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// DefaultTitle heads replies to interactive weather requests
const DefaultTitle = "🌦 Погода сейчас"

// FormatMessage renders a snapshot as an HTML chat message under the given title.
// It has no side effects; the same input always yields the same text.
func FormatMessage(w *Weather, title string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🌆 <b>%s</b>\n", html.EscapeString(w.City))
	fmt.Fprintf(&b, "🌡 Температура: <b>%d°C</b>\n", w.Temperature)
	fmt.Fprintf(&b, "💨 Ощущается: <b>%d°C</b>\n", w.FeelsLike)
	fmt.Fprintf(&b, "☁ Состояние: <b>%s</b>\n", html.EscapeString(capitalize(w.Description)))
	fmt.Fprintf(&b, "💧 Влажность: <b>%d%%</b>\n", w.Humidity)
	fmt.Fprintf(&b, "🌬 Ветер: <b>%s м/с</b>", formatWind(w.WindSpeed))
	return b.String()
}

// formatWind prints the speed with at least one decimal, as 3.0 or 3.4
func formatWind(speed float64) string {
	s := strconv.FormatFloat(speed, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
