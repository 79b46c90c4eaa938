package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/pkg/domain"
)

type studentLoadedMsg struct {
	courses  []domain.Course
	upcoming []domain.LiveClass
	overall  int
	err      error
}

type attendedMsg struct {
	err error
}

// paneID selects which of a dashboard's two lists has focus.
type paneID int

const (
	paneMain paneID = iota
	paneSide
)

type studentScreen struct {
	env      env
	courses  []domain.Course
	upcoming []domain.LiveClass
	progress map[int64]float64
	overall  int
	pane     paneID
	cursor   int
	loading  bool
	status   string
	err      string
	width    int
}

func newStudentScreen(e env) (screen, tea.Cmd) {
	m := studentScreen{env: e, loading: true}
	return m, m.load()
}

func (m studentScreen) load() tea.Cmd {
	ctx, svc := m.env.ctx, m.env.svc
	return func() tea.Msg {
		return loadStudentDashboard(ctx, svc)
	}
}

// loadStudentDashboard fetches courses, then each course's progress, then the
// upcoming classes.
func loadStudentDashboard(ctx context.Context, svc *service.Services) studentLoadedMsg {
	courses, err := svc.Student.EnrolledCourses(ctx)
	if err != nil {
		return studentLoadedMsg{err: err}
	}
	for _, c := range courses {
		if _, err := svc.Student.Progress(ctx, c.ID); err != nil && ignorable(err) {
			return studentLoadedMsg{err: err}
		}
	}
	upcoming, err := svc.Student.UpcomingClasses(ctx)
	if err != nil && ignorable(err) {
		return studentLoadedMsg{err: err}
	}
	return studentLoadedMsg{courses: courses, upcoming: upcoming, overall: svc.Student.OverallProgress()}
}

func (m studentScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case studentLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.courses = msg.courses
		m.upcoming = msg.upcoming
		m.overall = msg.overall
		m.progress = make(map[int64]float64, len(msg.courses))
		for _, c := range msg.courses {
			if p, ok := m.env.svc.Student.CachedProgress(c.ID); ok {
				m.progress[c.ID] = p.ProgressPercent
			}
		}
		m.cursor = 0

	case attendedMsg:
		if msg.err != nil {
			m.status = errText(msg.err)
		} else {
			m.status = "attendance recorded"
		}

	case statusMsg:
		m.status = msg.text
		if msg.err != nil {
			m.status = "failed: " + msg.err.Error()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m studentScreen) paneLen() int {
	if m.pane == paneSide {
		return len(m.upcoming)
	}
	return len(m.courses)
}

func (m studentScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.pane = (m.pane + 1) % 2
		m.cursor = 0
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, m.paneLen())
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, m.paneLen())
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if m.pane == paneMain && m.cursor < len(m.courses) {
			return m, navigate(fmt.Sprintf("/student/course/%d", m.courses[m.cursor].ID))
		}
	}

	if m.pane != paneSide || m.cursor >= len(m.upcoming) {
		return m, nil
	}
	lc := m.upcoming[m.cursor]
	switch msg.String() {
	case "c":
		if lc.MeetingURL == "" {
			m.status = "no meeting link yet"
			return m, nil
		}
		cp, url := m.env.copyText, lc.MeetingURL
		return m, func() tea.Msg { return statusMsg{text: "meeting link copied", err: cp(url)} }
	case "o":
		if lc.MeetingURL == "" {
			m.status = "no meeting link yet"
			return m, nil
		}
		open, url := m.env.openURL, lc.MeetingURL
		return m, func() tea.Msg { return statusMsg{text: "opened in browser", err: open(url)} }
	case "a":
		ctx, svc, id := m.env.ctx, m.env.svc, lc.ID
		return m, func() tea.Msg { return attendedMsg{err: svc.Student.AttendLiveClass(ctx, id)} }
	}
	return m, nil
}

func (m studentScreen) View() string {
	if m.loading && m.courses == nil {
		return " " + dimStyle.Render("loading dashboard...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("My learning") + "  " + progressBar(float64(m.overall), 20) + "\n\n")

	sb.WriteString(" " + paneHeader("Courses", m.pane == paneMain) + "\n")
	if len(m.courses) == 0 {
		sb.WriteString("   " + dimStyle.Render("not enrolled in any course yet") + "\n")
	}
	for i, c := range m.courses {
		line := fmt.Sprintf("%-40s", truncStr(c.Title, 40))
		sb.WriteString(row(m.pane == paneMain && i == m.cursor, line) + " " + progressBar(m.progress[c.ID], 16) + "\n")
	}

	sb.WriteString("\n " + paneHeader("Upcoming live classes", m.pane == paneSide) + "\n")
	if len(m.upcoming) == 0 {
		sb.WriteString("   " + dimStyle.Render("nothing scheduled") + "\n")
	}
	for i, lc := range m.upcoming {
		sb.WriteString(row(m.pane == paneSide && i == m.cursor, liveClassLine(lc)) + "\n")
	}

	if m.status != "" {
		sb.WriteString("\n " + accentStyle.Render(m.status))
	}
	return sb.String()
}

func (m studentScreen) helpKeys() string {
	if m.pane == paneSide {
		return helpLine("tab", "courses", "j/k", "nav", "c", "copy link", "o", "open", "a", "attend", "r", "refresh")
	}
	return helpLine("tab", "classes", "j/k", "nav", "enter", "continue", "r", "refresh")
}

func (m studentScreen) editing() bool { return false }

func paneHeader(title string, active bool) string {
	if active {
		return accentStyle.Render("▸ ") + sectionHeaderStyle.Underline(true).Render(title)
	}
	return "  " + sectionHeaderStyle.Render(title)
}

// liveClassLine renders a class with its start relative to now.
func liveClassLine(lc domain.LiveClass) string {
	when := lc.StartTime
	if t, err := lc.StartsAt(time.Local); err == nil {
		when = t.Format("Jan 02 15:04") + " " + formatTime(t)
	}
	course := ""
	if lc.CourseName != "" {
		course = " . " + truncStr(lc.CourseName, 24)
	}
	return fmt.Sprintf("%-32s %s%s", truncStr(lc.Title, 32), when, course)
}
