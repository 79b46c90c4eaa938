package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/pkg/domain"
)

type inboxLoadedMsg struct {
	messages []domain.Message
	err      error
}

type markedReadMsg struct {
	id  int64
	err error
}

type sentMsg struct {
	err error
}

type inboxScreen struct {
	env      env
	messages []domain.Message
	cursor   int
	open     bool
	replying bool
	reply    string
	loading  bool
	status   string
	err      string
}

func newInboxScreen(e env) (screen, tea.Cmd) {
	m := inboxScreen{env: e, loading: true}
	return m, m.load()
}

func (m inboxScreen) load() tea.Cmd {
	ctx, svc := m.env.ctx, m.env.svc
	return func() tea.Msg {
		msgs, err := svc.Messages.Inbox(ctx)
		return inboxLoadedMsg{messages: msgs, err: err}
	}
}

func (m inboxScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case inboxLoadedMsg:
		if ignorable(msg.err) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.messages = msg.messages
		m.cursor = min(m.cursor, max(len(m.messages)-1, 0))

	case markedReadMsg:
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		for i := range m.messages {
			if m.messages[i].ID == msg.id {
				m.messages[i].Read = true
			}
		}

	case sentMsg:
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		m.replying = false
		m.reply = ""
		m.status = "reply sent"

	case tea.KeyMsg:
		if m.replying {
			return m.updateReply(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m inboxScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, len(m.messages))
		m.open = false
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, len(m.messages))
		m.open = false
	case "enter":
		if m.cursor >= len(m.messages) {
			return m, nil
		}
		m.open = !m.open
		sel := m.messages[m.cursor]
		if m.open && !sel.Read {
			ctx, svc, id := m.env.ctx, m.env.svc, sel.ID
			return m, func() tea.Msg {
				return markedReadMsg{id: id, err: svc.Messages.MarkRead(ctx, id)}
			}
		}
	case "R":
		if m.cursor < len(m.messages) && m.messages[m.cursor].Sender != nil {
			m.replying = true
			m.status = ""
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m inboxScreen) updateReply(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.replying = false
	case "enter", "ctrl+s":
		sel := m.messages[m.cursor]
		req := domain.SendMessageRequest{
			ReceiverID: sel.Sender.ID,
			Subject:    replySubject(sel.Subject),
			Content:    strings.TrimSpace(m.reply),
		}
		ctx, svc := m.env.ctx, m.env.svc
		return m, func() tea.Msg {
			_, err := svc.Messages.Send(ctx, req)
			return sentMsg{err: err}
		}
	default:
		m.reply = editRune(m.reply, msg.String())
	}
	return m, nil
}

func replySubject(s string) string {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "re:") {
		return s
	}
	return "Re: " + s
}

func (m inboxScreen) View() string {
	if m.loading && m.messages == nil {
		return " " + dimStyle.Render("loading messages...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("Messages") + "\n\n")
	if len(m.messages) == 0 {
		sb.WriteString(" " + dimStyle.Render("inbox is empty"))
		return sb.String()
	}

	for i, msg := range m.messages {
		dot := "  "
		if !msg.Read {
			dot = accentStyle.Render("● ")
		}
		line := fmt.Sprintf("%s%-24s %-36s %s", dot, truncStr(msg.SenderName(), 24),
			truncStr(firstNonEmpty(msg.Subject, msg.Content), 36), formatTime(msg.SentAt.Time))
		sb.WriteString(row(i == m.cursor, line) + "\n")
		if i == m.cursor && m.open {
			for _, l := range strings.Split(msg.Content, "\n") {
				sb.WriteString("      " + normalStyle.Render(l) + "\n")
			}
		}
	}

	if m.replying {
		sb.WriteString("\n " + inputPromptStyle.Render("reply> ") + selectedStyle.Render(m.reply) + accentStyle.Render("█"))
	}
	if m.status != "" {
		sb.WriteString("\n " + accentStyle.Render(m.status))
	}
	return sb.String()
}

func (m inboxScreen) helpKeys() string {
	if m.replying {
		return helpLine("enter", "send", "esc", "cancel")
	}
	return helpLine("j/k", "nav", "enter", "read", "R", "reply", "r", "refresh")
}

func (m inboxScreen) editing() bool { return m.replying }
