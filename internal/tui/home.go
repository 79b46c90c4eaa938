package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/pkg/domain"
)

type featuredLoadedMsg struct {
	courses []domain.Course
	err     error
}

type homeScreen struct {
	env     env
	courses []domain.Course
	cursor  int
	loading bool
	err     string
	width   int
}

func newHomeScreen(e env) (screen, tea.Cmd) {
	m := homeScreen{env: e, loading: true}
	return m, m.load()
}

func (m homeScreen) load() tea.Cmd {
	ctx, svc := m.env.ctx, m.env.svc
	return func() tea.Msg {
		courses, err := svc.Courses.Featured(ctx)
		return featuredLoadedMsg{courses: courses, err: err}
	}
}

func (m homeScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case featuredLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.courses = msg.courses
		m.err = ""
		m.cursor = 0

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(m.courses))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(m.courses))
		case "enter":
			if m.cursor < len(m.courses) {
				return m, navigate(fmt.Sprintf("/courses/%d", m.courses[m.cursor].ID))
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m homeScreen) View() string {
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("Featured courses") + "\n\n")

	switch {
	case m.loading && len(m.courses) == 0:
		sb.WriteString(" " + dimStyle.Render("loading courses..."))
		return sb.String()
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render("error: "+m.err))
		return sb.String()
	case len(m.courses) == 0:
		sb.WriteString(" " + dimStyle.Render("no featured courses yet"))
		return sb.String()
	}

	for i, c := range m.courses {
		sb.WriteString(courseLine(c, i == m.cursor, m.width) + "\n")
	}
	return sb.String()
}

func (m homeScreen) helpKeys() string {
	return helpLine("j/k", "nav", "enter", "open", "r", "refresh")
}

func (m homeScreen) editing() bool { return false }

// courseLine renders a course as a single list row.
func courseLine(c domain.Course, selected bool, width int) string {
	titleW := width - 50
	if titleW < 20 {
		titleW = 20
	}
	title := fmt.Sprintf("%-*s", titleW, truncStr(c.Title, titleW))
	meta := CategoryStyle(c.Category).Render(fmt.Sprintf("%-12s", truncStr(string(c.Category), 12))) +
		" " + ratingStyle.Render(fmt.Sprintf("★ %.1f", c.Rating)) +
		" " + priceStyle.Render(fmt.Sprintf("%12s", formatPrice(c)))
	return row(selected, title) + " " + meta
}
