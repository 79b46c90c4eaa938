package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/pkg/domain"
)

type adminLoadedMsg struct {
	pending []domain.Course
	users   []domain.User
	stats   *domain.AdminStats
	status  string
	err     error
}

type adminScreen struct {
	env     env
	pending []domain.Course
	users   []domain.User
	stats   *domain.AdminStats
	pane    paneID
	cursor  int
	loading bool
	busy    bool
	status  string
	err     string
}

func newAdminScreen(e env) (screen, tea.Cmd) {
	m := adminScreen{env: e, loading: true}
	if e.res.Route.Name == "user-management" {
		m.pane = paneSide
	}
	ctx, svc := e.ctx, e.svc
	return m, func() tea.Msg { return loadAdminDashboard(ctx, svc, "") }
}

// loadAdminDashboard reloads the moderation queue, the users and the stats,
// one after another.
func loadAdminDashboard(ctx context.Context, svc *service.Services, status string) adminLoadedMsg {
	pending, err := svc.Admin.PendingCourses(ctx)
	if err != nil {
		return adminLoadedMsg{err: err}
	}
	out := adminLoadedMsg{pending: pending, status: status}
	if users, err := svc.Admin.Users(ctx); err == nil {
		out.users = users
	} else if ignorable(err) {
		return adminLoadedMsg{err: err}
	}
	if stats, err := svc.Admin.Stats(ctx); err == nil {
		out.stats = stats
	}
	return out
}

func (m adminScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adminLoadedMsg:
		m.loading = false
		m.busy = false
		if msg.err != nil {
			if msg.status != "" {
				m.status = errText(msg.err)
				return m, nil
			}
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.pending = msg.pending
		m.users = msg.users
		m.stats = msg.stats
		m.status = msg.status
		m.cursor = min(m.cursor, max(m.paneLen()-1, 0))

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m adminScreen) paneLen() int {
	if m.pane == paneSide {
		return len(m.users)
	}
	return len(m.pending)
}

func (m adminScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
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
	case "r":
		m.loading = true
		return m, func() tea.Msg { return loadAdminDashboard(ctx, svc, "") }
	}

	if m.cursor >= m.paneLen() {
		return m, nil
	}
	if m.pane == paneMain {
		c := m.pending[m.cursor]
		switch msg.String() {
		case "enter":
			return m, navigate(fmt.Sprintf("/courses/%d", c.ID))
		case "a":
			m.busy = true
			return m, func() tea.Msg {
				if _, err := svc.Admin.Approve(ctx, c.ID); err != nil {
					return adminLoadedMsg{status: "approve", err: err}
				}
				return loadAdminDashboard(ctx, svc, "approved "+truncStr(c.Title, 30))
			}
		case "x":
			m.busy = true
			return m, func() tea.Msg {
				if _, err := svc.Admin.Reject(ctx, c.ID, ""); err != nil {
					return adminLoadedMsg{status: "reject", err: err}
				}
				return loadAdminDashboard(ctx, svc, "rejected "+truncStr(c.Title, 30))
			}
		}
		return m, nil
	}

	u := m.users[m.cursor]
	if msg.String() == "t" {
		m.busy = true
		return m, func() tea.Msg {
			if _, err := svc.Admin.SetUserActive(ctx, u.ID, !u.Active); err != nil {
				return adminLoadedMsg{status: "toggle", err: err}
			}
			verb := "deactivated "
			if !u.Active {
				verb = "activated "
			}
			return loadAdminDashboard(ctx, svc, verb+u.Email)
		}
	}
	return m, nil
}

func (m adminScreen) View() string {
	if m.loading && m.pending == nil && m.users == nil {
		return " " + dimStyle.Render("loading dashboard...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	var sb strings.Builder

	header := " " + titleStyle.Render("Administration")
	if m.stats != nil {
		header += "  " + dimStyle.Render(fmt.Sprintf("%d users . %d courses . %d enrollments . ",
			m.stats.TotalUsers, m.stats.TotalCourses, m.stats.TotalEnrollments)) +
			priceStyle.Render(fmt.Sprintf("%.2f revenue", m.stats.TotalRevenue))
	}
	sb.WriteString(header + "\n\n")

	sb.WriteString(" " + paneHeader(fmt.Sprintf("Pending approval (%d)", len(m.pending)), m.pane == paneMain) + "\n")
	if len(m.pending) == 0 {
		sb.WriteString("   " + dimStyle.Render("queue is empty") + "\n")
	}
	for i, c := range m.pending {
		line := fmt.Sprintf("%-40s %s", truncStr(c.Title, 40), truncStr(c.TeacherName, 24))
		sb.WriteString(row(m.pane == paneMain && i == m.cursor, line) + "\n")
	}

	sb.WriteString("\n " + paneHeader(fmt.Sprintf("Users (%d)", len(m.users)), m.pane == paneSide) + "\n")
	for i, u := range m.users {
		state := okStyle.Render("active")
		if !u.Active {
			state = errorStyle.Render("inactive")
		}
		line := fmt.Sprintf("%-28s %-30s", truncStr(u.FullName(), 28), truncStr(u.Email, 30))
		sb.WriteString(row(m.pane == paneSide && i == m.cursor, line) + " " + RoleBadge(u.Role) + " " + state + "\n")
	}

	if m.busy {
		sb.WriteString("\n " + dimStyle.Render("working..."))
	}
	if m.status != "" {
		sb.WriteString("\n " + accentStyle.Render(m.status))
	}
	return sb.String()
}

func (m adminScreen) helpKeys() string {
	if m.pane == paneSide {
		return helpLine("tab", "courses", "j/k", "nav", "t", "toggle active", "r", "refresh")
	}
	return helpLine("tab", "users", "j/k", "nav", "a", "approve", "x", "reject", "enter", "preview", "r", "refresh")
}

func (m adminScreen) editing() bool { return false }
