package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/internal/guard"
	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/internal/session"
	"github.com/educonect/educonect/pkg/client"
)

// screen is the view mounted for a resolved route.
type screen interface {
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	// helpKeys is the screen part of the help bar.
	helpKeys() string
	// editing reports whether keystrokes go to a text input.
	editing() bool
}

// env is what a screen gets at mount time. ctx is cancelled on unmount.
type env struct {
	ctx  context.Context
	svc  *service.Services
	sess *session.Store
	res  guard.Resolution
	// pageSize is the catalog page size.
	pageSize int
	// openURL and copyText are swapped out in tests.
	openURL  func(string) error
	copyText func(string) error
}

// navigateMsg asks the App to resolve and mount path.
type navigateMsg struct {
	path string
}

// backMsg asks the App to return to the previous screen.
type backMsg struct{}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// statusMsg is a one-line result shown by a screen, e.g. after a copy.
type statusMsg struct {
	text string
	err  error
}

// screenMsg tags a message with the mount that produced it.
type screenMsg struct {
	mount uint64
	msg   tea.Msg
}

// tagCmd wraps cmd so its result is routed only to the mount that issued it.
func tagCmd(mount uint64, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		switch m := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			out := make(tea.BatchMsg, 0, len(m))
			for _, c := range m {
				out = append(out, tagCmd(mount, c))
			}
			return out
		}
		return screenMsg{mount: mount, msg: msg}
	}
}

// errText renders err for a screen. Cancellations and stale loads render as "".
func errText(err error) string {
	if err == nil || ignorable(err) {
		return ""
	}
	var e *client.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ignorable reports errors a screen drops silently.
func ignorable(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, service.ErrStale)
}

// mount builds the screen for a resolution.
func mount(e env) (screen, tea.Cmd) {
	switch e.res.Route.Name {
	case "home":
		return newHomeScreen(e)
	case "catalog":
		return newCatalogScreen(e)
	case "course", "course-viewer":
		return newCourseScreen(e)
	case "login":
		return newAuthScreen(e, false)
	case "register":
		return newAuthScreen(e, true)
	case "student-dashboard", "student-courses":
		return newStudentScreen(e)
	case "teacher-dashboard", "teacher-courses", "course-form", "live-classes", "analytics":
		return newTeacherScreen(e)
	case "admin-dashboard", "user-management", "course-management":
		return newAdminScreen(e)
	case "messages":
		return newInboxScreen(e)
	case "profile":
		return newProfileScreen(e)
	default:
		return newUnauthorizedScreen(e)
	}
}
