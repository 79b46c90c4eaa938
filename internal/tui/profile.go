package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/pkg/domain"
)

const (
	profName = iota
	profSurname
	profPhone
	profBio
	numProfFields
)

var profLabels = [numProfFields]string{"name", "surname", "phone", "biography"}

type profileSavedMsg struct {
	err error
}

type profileScreen struct {
	env    env
	edit   bool
	fields [numProfFields]string
	focus  int
	busy   bool
	status string
}

func newProfileScreen(e env) (screen, tea.Cmd) {
	return profileScreen{env: e}, nil
}

func (m profileScreen) startEdit() profileScreen {
	u := m.env.sess.CurrentUser()
	if u == nil {
		return m
	}
	m.fields = [numProfFields]string{u.Name, u.Surname, u.PhoneNumber, u.Biography}
	m.focus = profName
	m.edit = true
	m.status = ""
	return m
}

func (m profileScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		m.edit = false
		m.status = "profile saved"

	case statusMsg:
		m.status = msg.text
		if msg.err != nil {
			m.status = "failed: " + msg.err.Error()
		}

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.edit {
			return m.updateEdit(msg)
		}
		switch msg.String() {
		case "e":
			return m.startEdit(), nil
		case "o":
			url, open := m.env.sess.AvatarURL(), m.env.openURL
			return m, func() tea.Msg { return statusMsg{text: "avatar opened", err: open(url)} }
		}
	}
	return m, nil
}

func (m profileScreen) updateEdit(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.edit = false
	case "tab", "down":
		m.focus = (m.focus + 1) % numProfFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numProfFields) % numProfFields
	case "enter", "ctrl+s":
		m.busy = true
		trimmed := func(i int) *string {
			s := strings.TrimSpace(m.fields[i])
			return &s
		}
		patch := domain.UserPatch{
			Name:        trimmed(profName),
			Surname:     trimmed(profSurname),
			PhoneNumber: trimmed(profPhone),
			Biography:   trimmed(profBio),
		}
		ctx, auth := m.env.ctx, m.env.svc.Auth
		return m, func() tea.Msg {
			_, err := auth.UpdateProfile(ctx, patch)
			return profileSavedMsg{err: err}
		}
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m profileScreen) View() string {
	u := m.env.sess.CurrentUser()
	if u == nil {
		return " " + dimStyle.Render("not signed in")
	}
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render(m.env.sess.DisplayName()) + " " + RoleBadge(u.Role) + "\n\n")

	if m.edit {
		for i := 0; i < numProfFields; i++ {
			label := fmt.Sprintf("%-10s", profLabels[i])
			if i == m.focus {
				sb.WriteString(" " + inputPromptStyle.Render("> ") + selectedStyle.Render(label) + " " + m.fields[i] + accentStyle.Render("█") + "\n")
			} else {
				sb.WriteString("   " + dimStyle.Render(label) + " " + normalStyle.Render(m.fields[i]) + "\n")
			}
		}
	} else {
		rows := []struct{ k, v string }{
			{"email", u.Email},
			{"phone", u.PhoneNumber},
			{"biography", u.Biography},
			{"avatar", m.env.sess.AvatarURL()},
		}
		for _, r := range rows {
			v := r.v
			if v == "" {
				v = metaStyle.Render("-")
			}
			sb.WriteString("   " + dimStyle.Render(fmt.Sprintf("%-10s", r.k)) + " " + normalStyle.Render(v) + "\n")
		}
	}

	if m.busy {
		sb.WriteString("\n " + dimStyle.Render("saving..."))
	}
	if m.status != "" {
		sb.WriteString("\n " + accentStyle.Render(m.status))
	}
	return sb.String()
}

func (m profileScreen) helpKeys() string {
	if m.edit {
		return helpLine("tab", "next", "enter", "save", "esc", "cancel")
	}
	return helpLine("e", "edit", "o", "open avatar")
}

func (m profileScreen) editing() bool { return m.edit }

// unauthorizedScreen is shown when a role guard turns a navigation away.
type unauthorizedScreen struct {
	env env
}

func newUnauthorizedScreen(e env) (screen, tea.Cmd) {
	return unauthorizedScreen{env: e}, nil
}

func (m unauthorizedScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		return m, navigate(m.env.svc.Auth.DashboardPath())
	}
	return m, nil
}

func (m unauthorizedScreen) View() string {
	return " " + errorStyle.Render("You do not have access to that page.") + "\n\n " +
		dimStyle.Render("Press enter to go to your dashboard.")
}

func (m unauthorizedScreen) helpKeys() string {
	return helpLine("enter", "dashboard", "esc", "back")
}

func (m unauthorizedScreen) editing() bool { return false }
