package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/pkg/domain"
)

type catalogLoadedMsg struct {
	page *domain.CoursePage
	err  error
}

type catalogScreen struct {
	env       env
	filters   domain.CourseFilters
	page      *domain.CoursePage
	cursor    int
	loading   bool
	searching bool
	query     string
	err       string
	width     int
}

func newCatalogScreen(e env) (screen, tea.Cmd) {
	q := e.res.Query
	f := domain.CourseFilters{
		Search:   q.Get("search"),
		Category: domain.CourseCategory(q.Get("category")),
		Page:     1,
		PageSize: e.pageSize,
	}
	if !domain.ValidCategory(f.Category) {
		f.Category = ""
	}
	m := catalogScreen{env: e, filters: f, query: f.Search, loading: true}
	return m, m.load()
}

func (m catalogScreen) load() tea.Cmd {
	ctx, svc, f := m.env.ctx, m.env.svc, m.filters
	return func() tea.Msg {
		page, err := svc.Courses.List(ctx, f)
		return catalogLoadedMsg{page: page, err: err}
	}
}

func (m catalogScreen) reload() (screen, tea.Cmd) {
	m.loading = true
	m.cursor = 0
	return m, m.load()
}

func (m catalogScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		if ignorable(msg.err) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.page = msg.page

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		n := m.count()
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, n)
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, n)
		case "enter":
			if m.cursor < n {
				return m, navigate(fmt.Sprintf("/courses/%d", m.page.Courses[m.cursor].ID))
			}
		case "/":
			m.searching = true
		case "c":
			m.filters.Category = nextCategory(m.filters.Category)
			m.filters.Page = 1
			return m.reload()
		case "n":
			if m.page != nil && m.filters.Page < m.page.TotalPages {
				m.filters.Page++
				return m.reload()
			}
		case "p":
			if m.filters.Page > 1 {
				m.filters.Page--
				return m.reload()
			}
		case "r":
			return m.reload()
		}
	}
	return m, nil
}

func (m catalogScreen) updateSearch(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.filters.Search = strings.TrimSpace(m.query)
		m.filters.Page = 1
		return m.reload()
	case "esc":
		m.searching = false
		m.query = m.filters.Search
	default:
		m.query = editRune(m.query, msg.String())
	}
	return m, nil
}

func (m catalogScreen) count() int {
	if m.page == nil {
		return 0
	}
	return len(m.page.Courses)
}

// nextCategory cycles "" -> first category -> ... -> last -> "".
func nextCategory(c domain.CourseCategory) domain.CourseCategory {
	if c == "" {
		return domain.Categories[0]
	}
	for i, cat := range domain.Categories {
		if cat == c && i+1 < len(domain.Categories) {
			return domain.Categories[i+1]
		}
	}
	return ""
}

func (m catalogScreen) View() string {
	var sb strings.Builder

	search := inputPlaceholderStyle.Render("search courses...")
	if m.searching {
		search = selectedStyle.Render(m.query) + accentStyle.Render("█")
	} else if m.filters.Search != "" {
		search = normalStyle.Render(m.filters.Search)
	}
	category := dimStyle.Render("all categories")
	if m.filters.Category != "" {
		category = CategoryStyle(m.filters.Category).Render(string(m.filters.Category))
	}
	sb.WriteString(" " + inputPromptStyle.Render("/ ") + search + "   " + category + "\n\n")

	switch {
	case m.loading && m.page == nil:
		sb.WriteString(" " + dimStyle.Render("loading catalog..."))
		return sb.String()
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render("error: "+m.err))
		return sb.String()
	case m.count() == 0:
		sb.WriteString(" " + dimStyle.Render("no courses match"))
		return sb.String()
	}

	for i, c := range m.page.Courses {
		sb.WriteString(courseLine(c, i == m.cursor, m.width) + "\n")
	}
	sb.WriteString("\n " + metaStyle.Render(fmt.Sprintf("page %d of %d . %d courses",
		m.page.Page, max(m.page.TotalPages, 1), m.page.Total)))
	return sb.String()
}

func (m catalogScreen) helpKeys() string {
	if m.searching {
		return helpLine("enter", "search", "esc", "cancel")
	}
	return helpLine("j/k", "nav", "enter", "open", "/", "search", "c", "category", "n/p", "page")
}

func (m catalogScreen) editing() bool { return m.searching }
