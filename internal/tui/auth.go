package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/internal/guard"
	"github.com/educonect/educonect/pkg/domain"
)

type authField int

const (
	authName authField = iota
	authSurname
	authEmail
	authPassword
	authRole
	numAuthFields
)

var authLabels = [numAuthFields]string{"name", "surname", "email", "password", "role"}

// signupRoles are the roles a new account may pick.
var signupRoles = []domain.Role{domain.RoleStudent, domain.RoleTeacher}

type signedInMsg struct {
	user *domain.User
	err  error
}

// authScreen is the login form, or the registration form when register is set.
type authScreen struct {
	env      env
	register bool
	fields   [numAuthFields]string
	focus    authField
	role     int
	busy     bool
	err      string
}

func newAuthScreen(e env, register bool) (screen, tea.Cmd) {
	m := authScreen{env: e, register: register, focus: authEmail}
	if register {
		m.focus = authName
	}
	return m, nil
}

// visible lists the fields shown in the current mode, in tab order.
func (m authScreen) visible() []authField {
	if m.register {
		return []authField{authName, authSurname, authEmail, authPassword, authRole}
	}
	return []authField{authEmail, authPassword}
}

func (m authScreen) step(delta int) authField {
	fields := m.visible()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	return fields[(idx+delta+len(fields))%len(fields)]
}

func (m authScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		m.busy = false
		if msg.err != nil {
			m.err = errText(msg.err)
			m.fields[authPassword] = ""
			return m, nil
		}
		target := guard.ReturnURL(m.env.res.Path)
		if target == "" {
			target = m.env.svc.Auth.DashboardPath()
		}
		return m, navigate(target)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.err = ""
	key := msg.String()
	switch key {
	case "esc":
		return m, func() tea.Msg { return backMsg{} }
	case "ctrl+s":
		return m.submit()
	case "enter":
		fields := m.visible()
		if m.focus == fields[len(fields)-1] {
			return m.submit()
		}
		m.focus = m.step(1)
	case "tab", "down":
		m.focus = m.step(1)
	case "shift+tab", "up":
		m.focus = m.step(-1)
	case "ctrl+r":
		// switch forms, carrying returnUrl along
		target := "/auth/register"
		if m.register {
			target = "/auth/login"
		}
		if q := m.env.res.Query.Encode(); q != "" {
			target += "?" + q
		}
		return m, navigate(target)
	default:
		if m.focus == authRole {
			if key == "left" || key == "right" || key == " " || key == "space" {
				m.role = (m.role + 1) % len(signupRoles)
			}
			return m, nil
		}
		m.fields[m.focus] = editRune(m.fields[m.focus], key)
	}
	return m, nil
}

func (m authScreen) submit() (screen, tea.Cmd) {
	m.busy = true
	ctx, auth := m.env.ctx, m.env.svc.Auth
	email := strings.TrimSpace(m.fields[authEmail])
	password := m.fields[authPassword]

	if !m.register {
		return m, func() tea.Msg {
			u, err := auth.Login(ctx, domain.LoginRequest{Email: email, Password: password})
			return signedInMsg{user: u, err: err}
		}
	}
	req := domain.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     strings.TrimSpace(m.fields[authName]),
		Surname:  strings.TrimSpace(m.fields[authSurname]),
		Role:     signupRoles[m.role],
	}
	return m, func() tea.Msg {
		u, err := auth.Register(ctx, req)
		return signedInMsg{user: u, err: err}
	}
}

func (m authScreen) View() string {
	var sb strings.Builder
	title := "Sign in"
	if m.register {
		title = "Create account"
	}
	sb.WriteString(" " + titleStyle.Render(title) + "\n\n")

	for _, f := range m.visible() {
		label := fmt.Sprintf("%-10s", authLabels[f])
		value := m.fields[f]
		switch f {
		case authPassword:
			value = mask(value)
		case authRole:
			value = string(signupRoles[m.role])
		}
		if f == m.focus {
			cursor := accentStyle.Render("█")
			if f == authRole {
				cursor = dimStyle.Render("  (space to change)")
			}
			sb.WriteString(" " + inputPromptStyle.Render("> ") + selectedStyle.Render(label) + " " + value + cursor + "\n")
		} else {
			sb.WriteString("   " + dimStyle.Render(label) + " " + normalStyle.Render(value) + "\n")
		}
	}

	if ret := guard.ReturnURL(m.env.res.Path); ret != "" {
		sb.WriteString("\n " + metaStyle.Render("continues to "+ret) + "\n")
	}
	if m.busy {
		sb.WriteString("\n " + dimStyle.Render("signing in..."))
	}
	if m.err != "" {
		sb.WriteString("\n " + errorStyle.Render(m.err))
	}
	return sb.String()
}

func (m authScreen) helpKeys() string {
	other := "register"
	if m.register {
		other = "login"
	}
	return helpLine("tab", "next", "enter", "submit", "ctrl+r", other, "esc", "back")
}

func (m authScreen) editing() bool { return true }
