// Package tui is the terminal client. Every screen switch is resolved through
// the guard router, so authentication and role guards decide what mounts.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/educonect/educonect/internal/browser"
	"github.com/educonect/educonect/internal/guard"
	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/internal/session"
	"github.com/educonect/educonect/pkg/domain"
)

// unreadPollInterval is how often the header badge refreshes.
const unreadPollInterval = time.Minute

// maxHistory bounds the back stack.
const maxHistory = 32

type unreadTickMsg time.Time

func unreadTickCmd() tea.Cmd {
	return tea.Tick(unreadPollInterval, func(t time.Time) tea.Msg {
		return unreadTickMsg(t)
	})
}

type unreadLoadedMsg struct{}

// Options configures an App.
type Options struct {
	Services *service.Services
	Session  *session.Store
	// Router defaults to the standard route table over Session.
	Router *guard.Router
	// Start is the first path to open. Empty opens the home page.
	Start    string
	PageSize int
	// OpenURL defaults to the system browser, CopyText to the clipboard.
	OpenURL  func(string) error
	CopyText func(string) error
}

// App is the root Bubbletea model.
type App struct {
	svc      *service.Services
	sess     *session.Store
	router   *guard.Router
	pageSize int
	openURL  func(string) error
	copyText func(string) error

	res     guard.Resolution
	screen  screen
	mount   uint64
	cancel  context.CancelFunc
	history []string
	initCmd tea.Cmd

	// last session seen, to notice sign-in and sign-out
	authed bool
	role   domain.Role

	helpOpen   bool
	helpCursor int
	width      int
	height     int
	frame      int
}

// NewApp creates the TUI and mounts opts.Start.
func NewApp(opts Options) App {
	a := App{
		svc:      opts.Services,
		sess:     opts.Session,
		router:   opts.Router,
		pageSize: opts.PageSize,
		openURL:  opts.OpenURL,
		copyText: opts.CopyText,
	}
	if a.router == nil {
		a.router = guard.NewRouter(a.sess, nil)
	}
	if a.openURL == nil {
		a.openURL = browser.Open
	}
	if a.copyText == nil {
		a.copyText = clipboard.WriteAll
	}
	a.authed = a.sess.IsAuthenticated()
	a.role = a.sess.Role()
	mounted, cmd := a.navigateTo(opts.Start, false)
	mounted.initCmd = cmd
	return mounted
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.initCmd, shimmerTickCmd(), a.refreshUnread(), unreadTickCmd())
}

// Close cancels the mounted screen's context.
func (a App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
}

// Path is the resolved path of the mounted screen.
func (a App) Path() string {
	return a.res.Path
}

func (a App) refreshUnread() tea.Cmd {
	if !a.sess.IsAuthenticated() {
		return nil
	}
	msgs := a.svc.Messages
	return func() tea.Msg {
		msgs.RefreshUnreadCount(context.Background()) //nolint:errcheck // the badge resets to 0 on failure
		return unreadLoadedMsg{}
	}
}

// navigateTo resolves path, unmounts the current screen and mounts the result.
func (a App) navigateTo(path string, push bool) (App, tea.Cmd) {
	res := a.router.Resolve(path)
	if push && a.res.Path != "" && a.res.Path != res.Path {
		a.history = append(a.history, a.res.Path)
		if len(a.history) > maxHistory {
			a.history = a.history[len(a.history)-maxHistory:]
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.mount++
	a.res = res

	scr, cmd := mount(env{
		ctx:      ctx,
		svc:      a.svc,
		sess:     a.sess,
		res:      res,
		pageSize: a.pageSize,
		openURL:  a.openURL,
		copyText: a.copyText,
	})
	if a.width > 0 {
		scr, _ = scr.Update(a.bodySize())
	}
	a.screen = scr
	return a, tagCmd(a.mount, cmd)
}

func (a App) back() (App, tea.Cmd) {
	if len(a.history) == 0 {
		return a.navigateTo(guard.HomePath, false)
	}
	prev := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	return a.navigateTo(prev, false)
}

// bodySize is the window minus the chrome: header(2) + tabs(1) + blank(1) + help(1).
func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - 5}
}

// messagesPath is the inbox route for the current role. Admins have none.
func (a App) messagesPath() string {
	switch {
	case a.sess.IsTeacher():
		return "/teacher/messages"
	case a.sess.IsAdmin():
		return ""
	}
	return "/student/messages"
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	return a.syncSession(cmd)
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.screen, _ = a.screen.Update(a.bodySize())
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case unreadTickMsg:
		return a, tea.Batch(a.refreshUnread(), unreadTickCmd())

	case unreadLoadedMsg:
		return a, nil

	case screenMsg:
		if msg.mount != a.mount {
			return a, nil
		}
		return a.update(msg.msg)

	case navigateMsg:
		return a.navigateTo(msg.path, true)

	case backMsg:
		return a.back()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			return a.updateHelp(msg)
		}
		if !a.screen.editing() {
			if next, cmd, ok := a.globalKey(msg); ok {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)
	return a, tagCmd(a.mount, cmd)
}

// globalKey handles navigation keys. ok is false when the key belongs to the screen.
func (a App) globalKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	var path string
	switch msg.String() {
	case "q":
		return a, tea.Quit, true
	case "h", "?":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil, true
	case "esc":
		next, cmd := a.back()
		return next, cmd, true
	case "1":
		path = guard.HomePath
	case "2":
		path = "/courses"
	case "3":
		path = guard.DashboardPath(a.sess.Role())
		if !a.sess.IsAuthenticated() {
			path = guard.LoginPath
		}
	case "4":
		path = a.messagesPath()
		if path == "" {
			return a, nil, true
		}
	case "5":
		path = "/profile"
	case "l":
		if a.sess.IsAuthenticated() {
			a.svc.Auth.Logout()
			return a, nil, true
		}
		path = guard.LoginRedirect(a.res.Path)
		if a.res.Route.Name == "login" {
			return a, nil, true
		}
	default:
		return a, nil, false
	}
	next, cmd := a.navigateTo(path, true)
	return next, cmd, true
}

func (a App) updateHelp(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "h", "?", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.helpCursor = moveCursor(a.helpCursor, 1, len(helpItems))
	case "k", "up":
		a.helpCursor = moveCursor(a.helpCursor, -1, len(helpItems))
	case "enter":
		a.openURL(helpItems[a.helpCursor].url) //nolint:errcheck // best-effort browser open
	}
	return a, nil
}

// syncSession reacts to sign-in and sign-out, whoever caused them. A screen
// the session no longer admits is re-resolved, which lands on the login page
// with a return path or on the unauthorized page.
func (a App) syncSession(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	authed, role := a.sess.IsAuthenticated(), a.sess.Role()
	if authed == a.authed && role == a.role {
		return a, cmd
	}
	a.authed, a.role = authed, role

	if !authed {
		a.svc.ClearAll()
	}
	var cmds []tea.Cmd
	cmds = append(cmds, cmd, a.refreshUnread())
	if d := a.res.Route.Check(a.sess, a.res.Path); !d.Allowed {
		next, navCmd := a.navigateTo(a.res.Path, false)
		a = next
		cmds = append(cmds, navCmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := strings.Repeat(" ", max((a.width-lipgloss.Width(logo))/2, 0)) + logo

	var who string
	if a.sess.IsAuthenticated() {
		who = selectedStyle.Render(a.sess.DisplayName()) + " " + RoleBadge(a.sess.Role())
		if n := a.svc.Messages.Unread(); n > 0 {
			who += " " + badgeStyle.Render(fmt.Sprintf(" ✉ %d ", n))
		}
	} else {
		who = dimStyle.Render("guest . ") + helpEntry("l", "sign in")
	}
	header += "\n" + strings.Repeat(" ", max((a.width-lipgloss.Width(who))/2, 0)) + who

	type tabEntry struct {
		key  string
		name string
	}
	tabs := []tabEntry{{"1", "Home"}, {"2", "Catalog"}, {"3", "Dashboard"}}
	if a.messagesPath() != "" {
		tabs = append(tabs, tabEntry{"4", "Messages"})
	}
	tabs = append(tabs, tabEntry{"5", "Profile"})
	active := a.activeTab()
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		label := metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		if t.key == active {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		}
		w := lipgloss.Width(label)
		left := max((colWidth-w)/2, 0)
		right := max(colWidth-w-left, 0)
		tabBar.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}

	body := a.screen.View()
	help := helpLine("1-5", "tabs", "h", "help", "q", "quit") + " " + a.screen.helpKeys()
	if a.screen.editing() {
		help = a.screen.helpKeys()
	}
	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = helpLine("j/k", "nav", "enter", "open", "esc", "close")
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", header, tabBar.String(), body, help)
}

// activeTab maps the mounted route to its tab key.
func (a App) activeTab() string {
	switch a.res.Route.Name {
	case "home":
		return "1"
	case "catalog", "course":
		return "2"
	case "messages":
		return "4"
	case "profile":
		return "5"
	case "login", "register", "unauthorized":
		return ""
	}
	return "3"
}
