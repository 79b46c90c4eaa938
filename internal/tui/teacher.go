package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/pkg/domain"
)

var revenuePeriods = []domain.RevenuePeriod{
	domain.PeriodLast30Days,
	domain.PeriodLast3Months,
	domain.PeriodLastYear,
	domain.PeriodAllTime,
}

type teacherLoadedMsg struct {
	courses  []domain.Course
	classes  []domain.LiveClass
	revenue  *domain.TeacherRevenue
	students int
	err      error
}

type teacherActionMsg struct {
	text string
	err  error
}

type teacherScreen struct {
	env      env
	courses  []domain.Course
	classes  []domain.LiveClass
	revenue  *domain.TeacherRevenue
	students int
	period   int
	pane     paneID
	cursor   int
	loading  bool
	status   string
	err      string
}

func newTeacherScreen(e env) (screen, tea.Cmd) {
	m := teacherScreen{env: e, loading: true}
	if e.res.Route.Name == "live-classes" {
		m.pane = paneSide
	}
	return m, m.load()
}

func (m teacherScreen) load() tea.Cmd {
	ctx, svc, period := m.env.ctx, m.env.svc, revenuePeriods[m.period]
	return func() tea.Msg {
		return loadTeacherDashboard(ctx, svc, period)
	}
}

func loadTeacherDashboard(ctx context.Context, svc *service.Services, period domain.RevenuePeriod) teacherLoadedMsg {
	courses, err := svc.Teacher.MyCourses(ctx)
	if err != nil {
		return teacherLoadedMsg{err: err}
	}
	out := teacherLoadedMsg{courses: courses, students: svc.Teacher.TotalStudents()}
	if classes, err := svc.Teacher.LoadLiveClasses(ctx); err == nil {
		out.classes = classes
	} else if ignorable(err) {
		return teacherLoadedMsg{err: err}
	}
	if rev, err := svc.Teacher.Revenue(ctx, period); err == nil {
		out.revenue = rev
	}
	return out
}

func (m teacherScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case teacherLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.courses = msg.courses
		m.classes = msg.classes
		m.revenue = msg.revenue
		m.students = msg.students
		m.cursor = min(m.cursor, max(m.paneLen()-1, 0))

	case teacherActionMsg:
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		m.status = msg.text
		m.loading = true
		return m, m.load()

	case statusMsg:
		m.status = msg.text
		if msg.err != nil {
			m.status = "failed: " + msg.err.Error()
		}

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m teacherScreen) paneLen() int {
	if m.pane == paneSide {
		return len(m.classes)
	}
	return len(m.courses)
}

func (m teacherScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	ctx, svc := m.env.ctx, m.env.svc
	switch msg.String() {
	case "tab":
		m.pane = (m.pane + 1) % 2
		m.cursor = 0
		return m, nil
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, m.paneLen())
		return m, nil
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, m.paneLen())
		return m, nil
	case "v":
		m.period = (m.period + 1) % len(revenuePeriods)
		m.loading = true
		return m, m.load()
	case "r":
		m.loading = true
		return m, m.load()
	}

	if m.cursor >= m.paneLen() {
		return m, nil
	}
	if m.pane == paneMain {
		c := m.courses[m.cursor]
		switch msg.String() {
		case "enter":
			return m, navigate(fmt.Sprintf("/courses/%d", c.ID))
		case "p":
			return m, func() tea.Msg {
				_, err := svc.Courses.Publish(ctx, c.ID)
				return teacherActionMsg{text: "submitted " + truncStr(c.Title, 30), err: err}
			}
		case "a":
			return m, func() tea.Msg {
				_, err := svc.Courses.Archive(ctx, c.ID)
				return teacherActionMsg{text: "archived " + truncStr(c.Title, 30), err: err}
			}
		}
		return m, nil
	}

	lc := m.classes[m.cursor]
	switch msg.String() {
	case "c":
		if lc.MeetingURL == "" {
			m.status = "no meeting link"
			return m, nil
		}
		cp, url := m.env.copyText, lc.MeetingURL
		return m, func() tea.Msg { return statusMsg{text: "meeting link copied", err: cp(url)} }
	case "x":
		return m, func() tea.Msg {
			return teacherActionMsg{text: "cancelled " + truncStr(lc.Title, 30), err: svc.Teacher.DeleteLiveClass(ctx, lc.ID)}
		}
	}
	return m, nil
}

func (m teacherScreen) View() string {
	if m.loading && m.courses == nil {
		return " " + dimStyle.Render("loading dashboard...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	var sb strings.Builder

	stats := []string{
		fmt.Sprintf("%d courses", len(m.courses)),
		fmt.Sprintf("%d students", m.students),
	}
	if m.revenue != nil {
		stats = append(stats, priceStyle.Render(fmt.Sprintf("%.2f earned", m.revenue.TotalRevenue))+
			dimStyle.Render(" ("+strings.ToLower(strings.ReplaceAll(string(revenuePeriods[m.period]), "_", " "))+")"))
	}
	sb.WriteString(" " + titleStyle.Render("Teaching") + "  " + dimStyle.Render(strings.Join(stats, " . ")) + "\n\n")

	sb.WriteString(" " + paneHeader("My courses", m.pane == paneMain) + "\n")
	if len(m.courses) == 0 {
		sb.WriteString("   " + dimStyle.Render("no courses yet") + "\n")
	}
	for i, c := range m.courses {
		line := fmt.Sprintf("%-40s %4d students", truncStr(c.Title, 40), c.EnrolledStudents)
		sb.WriteString(row(m.pane == paneMain && i == m.cursor, line) + " " + statusStyle(c.Status).Render(string(c.Status)) + "\n")
	}

	sb.WriteString("\n " + paneHeader("Live classes", m.pane == paneSide) + "\n")
	if len(m.classes) == 0 {
		sb.WriteString("   " + dimStyle.Render("nothing scheduled") + "\n")
	}
	for i, lc := range m.classes {
		sb.WriteString(row(m.pane == paneSide && i == m.cursor, liveClassLine(lc)) + "\n")
	}

	if m.status != "" {
		sb.WriteString("\n " + accentStyle.Render(m.status))
	}
	return sb.String()
}

func (m teacherScreen) helpKeys() string {
	if m.pane == paneSide {
		return helpLine("tab", "courses", "j/k", "nav", "c", "copy link", "x", "cancel class", "v", "period")
	}
	return helpLine("tab", "classes", "j/k", "nav", "enter", "open", "p", "publish", "a", "archive", "v", "period")
}

func (m teacherScreen) editing() bool { return false }
