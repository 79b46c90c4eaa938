package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/educonect/educonect/pkg/domain"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "hel", "l", "hell"},
		{"append space", "hello", " ", "hello "},
		{"space key name", "hello", "space", "hello "},
		{"backspace", "hello", "backspace", "hell"},
		{"backspace on empty", "", "backspace", ""},
		{"backspace multibyte", "café", "backspace", "caf"},
		{"named key ignored", "abc", "enter", "abc"},
		{"arrow ignored", "abc", "left", "abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRune(tc.start, tc.key); got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneClamp(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Errorf("input grew past %d runes", maxInputLen)
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello world", 5); got != "hell…" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("truncStr = %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, ""},
		{time.Now().Add(-10 * time.Second), "just now"},
		{time.Now().Add(-5*time.Minute - time.Second), "5m ago"},
		{time.Now().Add(-3*time.Hour - time.Second), "3h ago"},
		{time.Now().Add(-49 * time.Hour), "2d ago"},
		{time.Now().Add(2*time.Hour + time.Minute), "in 2h"},
	}
	for _, tc := range tests {
		if got := formatTime(tc.at); got != tc.want {
			t.Errorf("formatTime(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(domain.Course{Price: 0}); got != "Free" {
		t.Errorf("free course = %q", got)
	}
	if got := formatPrice(domain.Course{Price: 19.5, Currency: "PEN"}); got != "19.50 PEN" {
		t.Errorf("priced course = %q", got)
	}
	if got := formatPrice(domain.Course{Price: 5}); got != "5.00 USD" {
		t.Errorf("default currency = %q", got)
	}
}

func TestMask(t *testing.T) {
	if got := mask("pässword"); got != strings.Repeat("•", 8) {
		t.Errorf("mask = %q", got)
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct{ cursor, delta, n, want int }{
		{0, 1, 3, 1},
		{2, 1, 3, 2},
		{0, -1, 3, 0},
		{0, 1, 0, 0},
	}
	for _, tc := range tests {
		if got := moveCursor(tc.cursor, tc.delta, tc.n); got != tc.want {
			t.Errorf("moveCursor(%d, %d, %d) = %d, want %d", tc.cursor, tc.delta, tc.n, got, tc.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("maxLines 0 should return input unchanged")
	}
}

func TestNextCategoryCycles(t *testing.T) {
	c := domain.CourseCategory("")
	seen := map[domain.CourseCategory]bool{}
	for range len(domain.Categories) + 1 {
		c = nextCategory(c)
		seen[c] = true
	}
	if c != "" {
		t.Errorf("cycle did not return to all categories, got %q", c)
	}
	if len(seen) != len(domain.Categories)+1 {
		t.Errorf("visited %d states, want %d", len(seen), len(domain.Categories)+1)
	}
}

func TestRoleBadge(t *testing.T) {
	if got := RoleBadge(domain.RoleTeacher); !strings.Contains(got, "[TEACHER]") {
		t.Errorf("RoleBadge = %q", got)
	}
	if RoleBadge("") != "" {
		t.Error("empty role should render nothing")
	}
}

func TestCategoryStyleRendersText(t *testing.T) {
	cats := append([]domain.CourseCategory{"UNKNOWN"}, domain.Categories...)
	for _, c := range cats {
		if got := CategoryStyle(c).Render(string(c)); !strings.Contains(got, string(c)) {
			t.Errorf("CategoryStyle(%q) lost text: %q", c, got)
		}
	}
}

func TestProgressBarClamps(t *testing.T) {
	if got := progressBar(150, 10); !strings.Contains(got, "100%") {
		t.Errorf("progressBar(150) = %q", got)
	}
	if got := progressBar(-5, 10); !strings.Contains(got, "  0%") {
		t.Errorf("progressBar(-5) = %q", got)
	}
}

func TestReplySubject(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"Homework":     "Re: Homework",
		"Re: Homework": "Re: Homework",
		"RE: x":        "RE: x",
	}
	for in, want := range tests {
		if got := replySubject(in); got != want {
			t.Errorf("replySubject(%q) = %q, want %q", in, got, want)
		}
	}
}
