package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/internal/session"
	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

type harness struct {
	store  *session.Store
	svc    *service.Services
	copied []string
	opened []string
	mu     sync.Mutex
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// backend is a small fake of the REST API keyed by "METHOD /path".
func backend(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func reply(status int, v any) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, status, v) }
}

func newHarness(srv *httptest.Server, user *domain.User) *harness {
	store := session.NewStore()
	if user != nil {
		store.SetUser(*user, "tok")
	}
	api := client.New(srv.URL, store)
	return &harness{
		store: store,
		svc:   service.New(service.Deps{API: api, Session: store, Log: zerolog.Nop()}),
	}
}

func (h *harness) app(start string) (App, tea.Cmd) {
	a := NewApp(Options{
		Services: h.svc,
		Session:  h.store,
		Start:    start,
		PageSize: 12,
		OpenURL: func(u string) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.opened = append(h.opened, u)
			return nil
		},
		CopyText: func(s string) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.copied = append(h.copied, s)
			return nil
		},
	})
	a.width = 100
	a.height = 40
	return a, a.initCmd
}

// drive runs cmd and feeds every resulting message back into the app, the
// way the bubbletea runtime would. Tick and quit commands are not followed.
func drive(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch m := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, m...)
			continue
		case tea.QuitMsg, shimmerTickMsg, unreadTickMsg:
			continue
		}
		model, next := a.Update(msg)
		a = model.(App)
		queue = append(queue, next)
	}
	return a
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		model, cmd := a.Update(msg)
		a = drive(t, model.(App), cmd)
	}
	return a
}

func typeText(t *testing.T, a App, s string) App {
	t.Helper()
	for _, r := range s {
		a = press(t, a, string(r))
	}
	return a
}

var (
	student = &domain.User{ID: 1, Email: "ana@x.io", Name: "Ana", Surname: "Diaz", Role: domain.RoleStudent}
	admin   = &domain.User{ID: 2, Email: "root@x.io", Name: "Root", Role: domain.RoleAdmin}
)

func TestProtectedStartRedirectsToLogin(t *testing.T) {
	srv := backend(t, nil)
	h := newHarness(srv, nil)
	a, _ := h.app("/student/dashboard")

	if a.res.Route.Name != "login" {
		t.Fatalf("route = %q, want login", a.res.Route.Name)
	}
	if !strings.Contains(a.Path(), "returnUrl=%2Fstudent%2Fdashboard") {
		t.Errorf("path = %q, want returnUrl", a.Path())
	}
	if !strings.Contains(a.View(), "Sign in") {
		t.Errorf("view missing login form:\n%s", a.View())
	}
}

func TestLoginReturnsToRequestedPage(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /auth/login": reply(http.StatusOK, domain.AuthResponse{Token: "jwt", User: *student}),
		"GET /students/enrolled-courses": reply(http.StatusOK, []domain.Course{
			{ID: 7, Title: "Intro to Go"},
		}),
		"GET /students/courses/7/progress": reply(http.StatusOK, domain.CourseProgress{CourseID: 7, ProgressPercent: 40}),
		"GET /students/upcoming-classes":   reply(http.StatusOK, []domain.LiveClass{}),
		"GET /messages/unread-count":       reply(http.StatusOK, 3),
	})
	h := newHarness(srv, nil)
	a, _ := h.app("/student/dashboard")

	a = typeText(t, a, "ana@x.io")
	a = press(t, a, "tab")
	a = typeText(t, a, "secret")
	a = press(t, a, "enter")

	if !h.store.IsAuthenticated() {
		t.Fatal("login did not set the session")
	}
	if a.Path() != "/student/dashboard" {
		t.Fatalf("path = %q, want /student/dashboard", a.Path())
	}
	view := a.View()
	for _, want := range []string{"Intro to Go", "Ana Diaz", "[STUDENT]", "✉ 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestLoginFailureShowsMessage(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /auth/login": reply(http.StatusUnauthorized, map[string]string{"message": "Bad credentials"}),
	})
	h := newHarness(srv, nil)
	a, _ := h.app("/auth/login")

	a = typeText(t, a, "ana@x.io")
	a = press(t, a, "tab")
	a = typeText(t, a, "wrongpass")
	a = press(t, a, "enter")

	if h.store.IsAuthenticated() {
		t.Fatal("failed login left a session")
	}
	if !strings.Contains(a.View(), "Invalid credentials") {
		t.Errorf("view missing error:\n%s", a.View())
	}
}

func TestWrongRoleLandsOnUnauthorized(t *testing.T) {
	srv := backend(t, nil)
	h := newHarness(srv, student)
	a, _ := h.app("/admin/dashboard")

	if a.Path() != "/unauthorized" {
		t.Fatalf("path = %q, want /unauthorized", a.Path())
	}
	if !strings.Contains(a.View(), "do not have access") {
		t.Errorf("view:\n%s", a.View())
	}
}

func TestStaleScreenMessagesDropped(t *testing.T) {
	srv := backend(t, nil)
	h := newHarness(srv, nil)
	a, _ := h.app("/courses")
	catalogMount := a.mount

	model, _ := a.Update(navigateMsg{path: "/home"})
	a = model.(App)
	if a.res.Route.Name != "home" {
		t.Fatalf("route = %q", a.res.Route.Name)
	}

	late := screenMsg{mount: catalogMount, msg: featuredLoadedMsg{courses: []domain.Course{{ID: 1, Title: "Ghost"}}}}
	model, _ = a.Update(late)
	a = model.(App)
	if strings.Contains(a.View(), "Ghost") {
		t.Error("message from an unmounted screen reached the new screen")
	}

	fresh := screenMsg{mount: a.mount, msg: featuredLoadedMsg{courses: []domain.Course{{ID: 2, Title: "Live"}}}}
	model, _ = a.Update(fresh)
	a = model.(App)
	if !strings.Contains(a.View(), "Live") {
		t.Errorf("current screen did not receive its message:\n%s", a.View())
	}
}

func TestUnauthorizedResponseSignsOut(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /students/enrolled-courses": reply(http.StatusUnauthorized, map[string]string{"message": "expired"}),
	})
	h := newHarness(srv, student)
	a, cmd := h.app("/student/dashboard")
	a = drive(t, a, cmd)

	if h.store.IsAuthenticated() {
		t.Fatal("session survived a 401")
	}
	if a.res.Route.Name != "login" {
		t.Errorf("route = %q, want login after sign-out", a.res.Route.Name)
	}
	if !strings.Contains(a.Path(), "returnUrl=") {
		t.Errorf("path = %q, want a returnUrl", a.Path())
	}
}

func TestLogoutKeyLeavesProtectedPage(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /messages/inbox": reply(http.StatusOK, []domain.Message{}),
	})
	h := newHarness(srv, student)
	a, cmd := h.app("/student/messages")
	a = drive(t, a, cmd)

	a = press(t, a, "l")
	if h.store.IsAuthenticated() {
		t.Fatal("l did not sign out")
	}
	if a.res.Route.Name != "login" {
		t.Errorf("route = %q, want login", a.res.Route.Name)
	}
	if !strings.Contains(a.View(), "guest") {
		t.Errorf("header still shows a user:\n%s", a.View())
	}
}

func TestTabsAndBack(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /courses/featured": reply(http.StatusOK, []domain.Course{}),
		"GET /courses":          reply(http.StatusOK, []domain.Course{}),
	})
	h := newHarness(srv, nil)
	a, cmd := h.app("")
	a = drive(t, a, cmd)
	if a.Path() != "/home" {
		t.Fatalf("empty start path = %q, want /home", a.Path())
	}

	a = press(t, a, "2")
	if a.res.Route.Name != "catalog" {
		t.Fatalf("route = %q, want catalog", a.res.Route.Name)
	}
	a = press(t, a, "3")
	if a.res.Route.Name != "login" {
		t.Fatalf("dashboard for guest = %q, want login", a.res.Route.Name)
	}
	a = press(t, a, "esc")
	if a.res.Route.Name != "catalog" {
		t.Errorf("esc = %q, want catalog", a.res.Route.Name)
	}
}

func TestHelpOverlayOpensLink(t *testing.T) {
	srv := backend(t, nil)
	h := newHarness(srv, nil)
	a, _ := h.app("/unauthorized")

	a = press(t, a, "h")
	if !a.helpOpen || !strings.Contains(a.View(), "Links") {
		t.Fatal("help overlay did not open")
	}
	a = press(t, a, "j", "enter")
	if len(h.opened) != 1 || h.opened[0] != helpItems[1].url {
		t.Errorf("opened = %v", h.opened)
	}
	a = press(t, a, "esc")
	if a.helpOpen {
		t.Error("esc did not close help")
	}
}

func TestAdminApproveReloadsQueue(t *testing.T) {
	var mu sync.Mutex
	pending := []domain.Course{{ID: 10, Title: "Watercolor"}, {ID: 11, Title: "Kotlin"}}
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /admin/courses/pending": func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			writeJSON(w, http.StatusOK, pending)
		},
		"PATCH /admin/courses/10/approve": func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			pending = pending[1:]
			mu.Unlock()
			writeJSON(w, http.StatusOK, domain.Course{ID: 10, Status: domain.StatusPublished})
		},
		"GET /admin/users": reply(http.StatusOK, []domain.User{*admin}),
		"GET /admin/stats": reply(http.StatusOK, domain.AdminStats{TotalUsers: 1, TotalCourses: 2}),
	})
	h := newHarness(srv, admin)
	a, cmd := h.app("/admin/dashboard")
	a = drive(t, a, cmd)
	if !strings.Contains(a.View(), "Watercolor") {
		t.Fatalf("queue not shown:\n%s", a.View())
	}

	a = press(t, a, "a")
	view := a.View()
	if strings.Contains(view, "Pending approval (2)") || !strings.Contains(view, "Pending approval (1)") {
		t.Errorf("queue not reloaded:\n%s", view)
	}
	if !strings.Contains(view, "approved Watercolor") {
		t.Errorf("missing status:\n%s", view)
	}
}

func TestStudentCopiesMeetingLink(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /students/enrolled-courses": reply(http.StatusOK, []domain.Course{}),
		"GET /students/upcoming-classes": reply(http.StatusOK, []domain.LiveClass{
			{ID: 4, Title: "Office hours", StartTime: "18:00", MeetingURL: "https://zoom.us/j/123"},
		}),
	})
	h := newHarness(srv, student)
	a, cmd := h.app("/student/dashboard")
	a = drive(t, a, cmd)

	a = press(t, a, "tab", "c")
	if len(h.copied) != 1 || h.copied[0] != "https://zoom.us/j/123" {
		t.Errorf("copied = %v", h.copied)
	}
	if !strings.Contains(a.View(), "meeting link copied") {
		t.Errorf("view:\n%s", a.View())
	}
}

func TestGuestEnrollGoesToLogin(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /courses/5":         reply(http.StatusOK, domain.Course{ID: 5, Title: "Photography 101", Price: 20}),
		"GET /courses/5/reviews": reply(http.StatusOK, []domain.Review{}),
	})
	h := newHarness(srv, nil)
	a, cmd := h.app("/courses/5")
	a = drive(t, a, cmd)
	if !strings.Contains(a.View(), "Photography 101") {
		t.Fatalf("course not shown:\n%s", a.View())
	}

	a = press(t, a, "e")
	if a.res.Route.Name != "login" {
		t.Fatalf("route = %q, want login", a.res.Route.Name)
	}
	if !strings.Contains(a.Path(), "returnUrl=%2Fcourses%2F5") {
		t.Errorf("path = %q", a.Path())
	}
}

func TestStudentEnrolls(t *testing.T) {
	var body domain.EnrollRequest
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /courses/5":                      reply(http.StatusOK, domain.Course{ID: 5, Title: "Photography 101"}),
		"GET /courses/5/reviews":              reply(http.StatusOK, []domain.Review{}),
		"GET /students/courses/5/is-enrolled": reply(http.StatusOK, false),
		"POST /enrollments": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			writeJSON(w, http.StatusCreated, domain.Enrollment{ID: 1, CourseID: 5})
		},
	})
	h := newHarness(srv, student)
	a, cmd := h.app("/courses/5")
	a = drive(t, a, cmd)

	a = press(t, a, "e")
	if body.CourseID != 5 || body.PaymentMethod != domain.PaymentFree {
		t.Errorf("enroll body = %+v, want course 5 paid FREE", body)
	}
	if !strings.Contains(a.View(), "enrolled") {
		t.Errorf("view:\n%s", a.View())
	}
	if len(h.svc.Student.Enrollments()) != 1 {
		t.Errorf("enrollment not cached")
	}
}

func TestAdminHasNoMessagesTab(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /admin/courses/pending": reply(http.StatusOK, []domain.Course{}),
		"GET /admin/users":           reply(http.StatusOK, []domain.User{*admin}),
		"GET /admin/stats":           reply(http.StatusOK, domain.AdminStats{}),
	})
	h := newHarness(srv, admin)
	a, cmd := h.app("/admin/dashboard")
	a = drive(t, a, cmd)

	if strings.Contains(a.View(), "Messages") {
		t.Errorf("admin tab bar shows Messages:\n%s", a.View())
	}
	a = press(t, a, "4")
	if a.Path() != "/admin/dashboard" {
		t.Errorf("4 moved an admin to %q", a.Path())
	}
}

func TestTeacherMessagesTab(t *testing.T) {
	srv := backend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /messages/inbox": reply(http.StatusOK, []domain.Message{}),
	})
	teacher := &domain.User{ID: 3, Email: "t@x.io", Name: "Tina", Role: domain.RoleTeacher}
	h := newHarness(srv, teacher)
	a, _ := h.app("/home")

	a = press(t, a, "4")
	if a.Path() != "/teacher/messages" {
		t.Errorf("path = %q, want /teacher/messages", a.Path())
	}
}
