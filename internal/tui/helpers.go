package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/educonect/educonect/pkg/domain"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 500

// formatTime renders a timestamp relative to now, in either direction.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	future := d < 0
	if future {
		d = -d
	}
	var s string
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		s = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		s = fmt.Sprintf("%dh", int(d.Hours()))
	default:
		s = fmt.Sprintf("%dd", int(d.Hours()/24))
	}
	if future {
		return "in " + s
	}
	return s + " ago"
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatPrice renders a course price, "Free" for zero.
func formatPrice(c domain.Course) string {
	if c.IsFree() {
		return "Free"
	}
	cur := c.Currency
	if cur == "" {
		cur = "USD"
	}
	return fmt.Sprintf("%.2f %s", c.Price, cur)
}

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case " ", "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// mask hides s behind bullets, one per rune.
func mask(s string) string {
	return strings.Repeat("•", utf8.RuneCountInString(s))
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// moveCursor clamps cursor+delta into [0, n).
func moveCursor(cursor, delta, n int) int {
	cursor += delta
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// row renders one list line, highlighted when selected.
func row(selected bool, text string) string {
	if selected {
		return selectedRowBg.Render(accentStyle.Render(" > ") + selectedStyle.Render(text))
	}
	return "   " + normalStyle.Render(text)
}
