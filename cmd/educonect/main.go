package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/educonect/educonect/internal/config"
	"github.com/educonect/educonect/internal/logger"
	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/internal/session"
	"github.com/educonect/educonect/internal/storage"
	"github.com/educonect/educonect/internal/tui"
	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds everything a subcommand needs.
type cli struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *session.Store
	svc   *service.Services
	in    *bufio.Reader
	out   io.Writer
	// readPassword prompts without echo when stdin is a terminal.
	readPassword func() (string, error)
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("educonect " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, logFile, err := logger.OpenFile(cfg.LogFile(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck

	ctx := context.Background()
	kv, closeKV, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeKV()

	store := session.NewStore()
	persister := session.NewPersister(kv, log)
	persister.Restore(ctx, store)
	unbind := persister.Bind(ctx, store)
	defer unbind()

	var tokens client.TokenSource = store
	if cfg.Token != "" {
		tokens = client.StaticToken(cfg.Token)
	}
	api := client.New(cfg.APIURL, tokens, client.WithTimeout(cfg.APITimeout))

	c := &cli{
		cfg:          cfg,
		log:          log,
		store:        store,
		svc:          service.New(service.Deps{API: api, Session: store, Log: log}),
		in:           bufio.NewReader(os.Stdin),
		out:          os.Stdout,
		readPassword: terminalPassword,
	}

	if len(args) == 0 {
		return c.runTUI(ctx, "")
	}
	switch args[0] {
	case "login":
		return c.runLogin(ctx, args[1:])
	case "register":
		return c.runRegister(ctx)
	case "logout":
		return c.runLogout()
	case "whoami":
		return c.runWhoami(ctx)
	case "courses":
		return c.runCourses(ctx, strings.Join(args[1:], " "))
	case "open":
		if len(args) < 2 {
			return errors.New("usage: educonect open <path>")
		}
		return c.runTUI(ctx, args[1])
	default:
		printHelp(os.Stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// openStorage picks Redis when a URL is configured, else files under StateDir.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.KV, func(), error) {
	if cfg.RedisURL == "" {
		return storage.NewFileKV(cfg.StateDir), func() {}, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rkv, err := storage.NewRedisKV(pingCtx, cfg.RedisURL, "educonect:", log)
	if err != nil {
		return nil, nil, fmt.Errorf("open session storage: %w", err)
	}
	return rkv, func() { rkv.Close() }, nil //nolint:errcheck
}

func (c *cli) runTUI(ctx context.Context, start string) error {
	// A restored session may have been revoked server-side. Only a definite
	// rejection signs out; network errors leave the session for the TUI to retry.
	if c.store.IsAuthenticated() {
		if _, err := c.svc.Auth.Validate(ctx); err != nil {
			c.log.Warn().Err(err).Msg("session validation failed")
		}
	}

	app := tui.NewApp(tui.Options{
		Services: c.svc,
		Session:  c.store,
		Start:    start,
		PageSize: c.cfg.PageSize,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(tui.App); ok {
		m.Close()
	}
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label) //nolint:errcheck
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func (c *cli) password() (string, error) {
	fmt.Fprint(c.out, "Password: ") //nolint:errcheck
	if c.readPassword != nil {
		pw, err := c.readPassword()
		fmt.Fprintln(c.out) //nolint:errcheck
		if err == nil {
			return pw, nil
		}
		if !errors.Is(err, errNotTerminal) {
			return "", fmt.Errorf("read password: %w", err)
		}
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var errNotTerminal = errors.New("stdin is not a terminal")

func terminalPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNotTerminal
	}
	b, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *cli) runLogin(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = c.prompt("Email: "); err != nil {
			return err
		}
	}
	pw, err := c.password()
	if err != nil {
		return err
	}
	u, err := c.svc.Auth.Login(ctx, domain.LoginRequest{Email: email, Password: pw})
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(c.out, "Signed in as %s (%s).\n", u.FullName(), u.Role) //nolint:errcheck
	return nil
}

func (c *cli) runRegister(ctx context.Context) error {
	var req domain.RegisterRequest
	var err error
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Name: ", &req.Name},
		{"Surname: ", &req.Surname},
		{"Email: ", &req.Email},
	} {
		if *f.dst, err = c.prompt(f.label); err != nil {
			return err
		}
	}
	if req.Password, err = c.password(); err != nil {
		return err
	}
	role, err := c.prompt("Role [STUDENT/teacher]: ")
	if err != nil {
		return err
	}
	req.Role = domain.RoleStudent
	if strings.EqualFold(role, string(domain.RoleTeacher)) {
		req.Role = domain.RoleTeacher
	}

	u, err := c.svc.Auth.Register(ctx, req)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(c.out, "Welcome, %s. You are signed in.\n", u.FullName()) //nolint:errcheck
	return nil
}

func (c *cli) runLogout() error {
	if !c.store.IsAuthenticated() {
		fmt.Fprintln(c.out, "Not signed in.") //nolint:errcheck
		return nil
	}
	c.svc.Auth.Logout()
	fmt.Fprintln(c.out, "Signed out.") //nolint:errcheck
	return nil
}

func (c *cli) runWhoami(ctx context.Context) error {
	if !c.store.IsAuthenticated() {
		fmt.Fprintln(c.out, "Not signed in. Run: educonect login") //nolint:errcheck
		return nil
	}
	valid, err := c.svc.Auth.Validate(ctx)
	if err != nil {
		return describe(err)
	}
	if !valid {
		fmt.Fprintln(c.out, "Session expired. Run: educonect login") //nolint:errcheck
		return nil
	}
	u := c.store.CurrentUser()
	fmt.Fprintf(c.out, "%s <%s> %s\n", c.store.DisplayName(), u.Email, u.Role) //nolint:errcheck
	if exp, ok := session.TokenExpiry(c.store.CurrentToken()); ok {
		fmt.Fprintf(c.out, "session expires %s\n", exp.Local().Format(time.RFC1123)) //nolint:errcheck
	}
	return nil
}

func (c *cli) runCourses(ctx context.Context, query string) error {
	var courses []domain.Course
	if query != "" {
		found, err := c.svc.Courses.Search(ctx, query)
		if err != nil {
			return describe(err)
		}
		courses = found
	} else {
		page, err := c.svc.Courses.List(ctx, domain.CourseFilters{Page: 1, PageSize: c.cfg.PageSize})
		if err != nil {
			return describe(err)
		}
		courses = page.Courses
	}
	if len(courses) == 0 {
		fmt.Fprintln(c.out, "No courses found.") //nolint:errcheck
		return nil
	}
	for _, course := range courses {
		fmt.Fprintln(c.out, courseRow(course)) //nolint:errcheck
	}
	return nil
}

func courseRow(c domain.Course) string {
	price := "Free"
	if !c.IsFree() {
		cur := c.Currency
		if cur == "" {
			cur = "USD"
		}
		price = fmt.Sprintf("%.2f %s", c.Price, cur)
	}
	title := c.Title
	if r := []rune(title); len(r) > 40 {
		title = string(r[:39]) + "…"
	}
	return fmt.Sprintf("%6d  %-40s  %-18s  %s", c.ID, title, c.Category, price)
}

// describe turns a service error into its user-facing message.
func describe(err error) error {
	var ce *client.Error
	if errors.As(err, &ce) {
		return errors.New(ce.Message)
	}
	return err
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `educonect - browse and manage EduConect courses from the terminal

Usage:
  educonect                 open the terminal client
  educonect open <path>     open the client at a page, e.g. /courses/12
  educonect login [email]   sign in
  educonect register        create an account
  educonect logout          sign out
  educonect whoami          show the signed-in user
  educonect courses [text]  list or search courses
  educonect version         print the version

Environment:
  EDUCONECT_API_URL      API base URL (default http://localhost:8080/api)
  EDUCONECT_STATE_DIR    where the session and log live (default ~/.educonect)
  EDUCONECT_REDIS_URL    keep the session in Redis instead
  EDUCONECT_TOKEN        bearer token for one-off commands
  EDUCONECT_LOG_LEVEL    debug, info, warn or error
`) //nolint:errcheck
}
