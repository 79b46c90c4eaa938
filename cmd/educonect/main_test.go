package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/educonect/educonect/internal/config"
	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/internal/session"
	"github.com/educonect/educonect/internal/storage"
	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

func newTestCLI(t *testing.T, h http.HandlerFunc, stdin string) (*cli, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := session.NewStore()
	out := &bytes.Buffer{}
	return &cli{
		cfg:   &config.Config{APIURL: srv.URL, PageSize: 12},
		log:   zerolog.Nop(),
		store: store,
		svc: service.New(service.Deps{
			API:     client.New(srv.URL, store),
			Session: store,
			Log:     zerolog.Nop(),
		}),
		in:           bufio.NewReader(strings.NewReader(stdin)),
		out:          out,
		readPassword: func() (string, error) { return "", errNotTerminal },
	}, out
}

func TestLoginCommand(t *testing.T) {
	var got domain.LoginRequest
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)           //nolint:errcheck
		json.NewEncoder(w).Encode(domain.AuthResponse{ //nolint:errcheck
			Token: "tok",
			User:  domain.User{ID: 1, Email: got.Email, Name: "Ana", Surname: "Diaz", Role: domain.RoleTeacher},
		})
	}, "s3cret pass\n")

	if err := c.runLogin(context.Background(), []string{"ana@x.io"}); err != nil {
		t.Fatalf("runLogin() error: %v", err)
	}
	if got.Email != "ana@x.io" || got.Password != "s3cret pass" {
		t.Errorf("request = %+v", got)
	}
	if !c.store.IsTeacher() {
		t.Error("session not set")
	}
	if !strings.Contains(out.String(), "Signed in as Ana Diaz (TEACHER)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	c, _ := newTestCLI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "ana@x.io\nwrong\n")

	err := c.runLogin(context.Background(), nil)
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("err = %v, want Invalid credentials", err)
	}
	if c.store.IsAuthenticated() {
		t.Error("failed login left a session")
	}
}

func TestRegisterCommand(t *testing.T) {
	var got domain.RegisterRequest
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)           //nolint:errcheck
		json.NewEncoder(w).Encode(domain.AuthResponse{ //nolint:errcheck
			Token: "tok",
			User:  domain.User{ID: 2, Email: got.Email, Name: got.Name, Surname: got.Surname, Role: got.Role},
		})
	}, "Luis\nPerez\nluis@x.io\nsecret1\nteacher\n")

	if err := c.runRegister(context.Background()); err != nil {
		t.Fatalf("runRegister() error: %v", err)
	}
	if got.Role != domain.RoleTeacher || got.Name != "Luis" || got.Password != "secret1" {
		t.Errorf("request = %+v", got)
	}
	if !strings.Contains(out.String(), "Welcome, Luis Perez") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLogoutCommand(t *testing.T) {
	c, out := newTestCLI(t, http.NotFound, "")
	c.store.SetUser(domain.User{ID: 1, Name: "Ana", Role: domain.RoleStudent}, "tok")

	if err := c.runLogout(); err != nil {
		t.Fatal(err)
	}
	if c.store.IsAuthenticated() {
		t.Error("still signed in")
	}
	if out.String() != "Signed out.\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestWhoami(t *testing.T) {
	tests := []struct {
		name     string
		signedIn bool
		valid    string
		want     string
	}{
		{"guest", false, "true", "Not signed in"},
		{"valid", true, "true", "Ana Diaz <ana@x.io> STUDENT"},
		{"expired", true, "false", "Session expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.valid)) //nolint:errcheck
			}, "")
			if tt.signedIn {
				c.store.SetUser(domain.User{ID: 1, Email: "ana@x.io", Name: "Ana", Surname: "Diaz", Role: domain.RoleStudent}, "tok")
			}
			if err := c.runWhoami(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestCoursesCommand(t *testing.T) {
	c, out := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/courses/search":
			if r.URL.Query().Get("q") != "go" {
				t.Errorf("search without text: %q", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode([]domain.Course{{ID: 3, Title: "Go basics", Category: domain.CategoryProgramming}}) //nolint:errcheck
		case "/courses":
			json.NewEncoder(w).Encode([]domain.Course{ //nolint:errcheck
				{ID: 1, Title: "Figma", Category: domain.CategoryDesign, Price: 19.5},
			})
		default:
			http.NotFound(w, r)
		}
	}, "")

	if err := c.runCourses(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if err := c.runCourses(context.Background(), "go"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(lines[0], "Figma") || !strings.Contains(lines[0], "19.50 USD") {
		t.Errorf("list row = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Go basics") || !strings.Contains(lines[1], "Free") {
		t.Errorf("search row = %q", lines[1])
	}
}

func TestCourseRowTruncatesTitle(t *testing.T) {
	row := courseRow(domain.Course{ID: 1, Title: strings.Repeat("x", 60)})
	if !strings.Contains(row, strings.Repeat("x", 39)+"…") {
		t.Errorf("row = %q", row)
	}
}

func TestDescribe(t *testing.T) {
	ce := &client.Error{Category: client.CategoryForbidden, Message: "no access"}
	if got := describe(ce); got.Error() != "no access" {
		t.Errorf("describe(client error) = %q", got)
	}
	plain := errors.New("boom")
	if got := describe(plain); got != plain {
		t.Errorf("describe(plain) = %v", got)
	}
}

func TestOpenStorageDefaultsToFiles(t *testing.T) {
	cfg := &config.Config{StateDir: t.TempDir()}
	kv, closeKV, err := openStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer closeKV()
	if _, ok := kv.(*storage.FileKV); !ok {
		t.Errorf("kv = %T, want *storage.FileKV", kv)
	}
}

func TestOpenStorageBadRedisURL(t *testing.T) {
	cfg := &config.Config{RedisURL: "not-a-url"}
	if _, _, err := openStorage(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Error("expected error for bad redis URL")
	}
}

func TestHelpMentionsCommands(t *testing.T) {
	var b bytes.Buffer
	printHelp(&b)
	for _, cmd := range []string{"login", "register", "logout", "whoami", "courses", "open"} {
		if !strings.Contains(b.String(), "educonect "+cmd) {
			t.Errorf("help missing %q", cmd)
		}
	}
}
