package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/educonect/educonect/pkg/domain"
)

// Shimmer animation for the header logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "EDUCONECT" as a flowing wave from deep indigo
// (#1e2a5a) to sky blue (#60a5fa).
func renderShimmerLogo(frame int) string {
	const text = "EDUCONECT"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + math.Sin(t*0.035)*0.12 + 0.18
		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(30 + b*(96-30))
		g := clampByte(42 + b*(165-42))
		bl := clampByte(90 + b*(250-90))
		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(text[i])))
		if i < n-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93c5fd")).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	ratingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#facc15"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111118")).
			Background(lipgloss.Color("#f59e0b")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878")).
				Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#60a5fa")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	categoryColors = map[domain.CourseCategory]lipgloss.Color{
		domain.CategoryProgramming:         lipgloss.Color("#60a0e0"),
		domain.CategoryDesign:              lipgloss.Color("#c084e0"),
		domain.CategoryBusiness:            lipgloss.Color("#d4a844"),
		domain.CategoryMarketing:           lipgloss.Color("#f0944a"),
		domain.CategoryPhotography:         lipgloss.Color("#3ecce4"),
		domain.CategoryMusic:               lipgloss.Color("#e06060"),
		domain.CategoryLanguages:           lipgloss.Color("#86efac"),
		domain.CategoryPersonalDevelopment: lipgloss.Color("#b080d0"),
		domain.CategoryDataScience:         lipgloss.Color("#4ade80"),
		domain.CategoryOther:               lipgloss.Color("#8890a0"),
	}

	roleColors = map[domain.Role]lipgloss.Color{
		domain.RoleStudent: lipgloss.Color("#60a5fa"),
		domain.RoleTeacher: lipgloss.Color("#f59e0b"),
		domain.RoleAdmin:   lipgloss.Color("#f87171"),
	}
)

// CategoryStyle returns a bold style colored for the given course category.
func CategoryStyle(c domain.CourseCategory) lipgloss.Style {
	if col, ok := categoryColors[c]; ok {
		return lipgloss.NewStyle().Foreground(col).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// RoleBadge renders a role as a short colored label, e.g. "[TEACHER]".
func RoleBadge(r domain.Role) string {
	if r == "" {
		return ""
	}
	col, ok := roleColors[r]
	if !ok {
		col = lipgloss.Color("#8890a0")
	}
	return lipgloss.NewStyle().Foreground(col).Bold(true).Render("[" + string(r) + "]")
}

// statusStyle colors a course status.
func statusStyle(s domain.CourseStatus) lipgloss.Style {
	switch s {
	case domain.StatusPublished:
		return okStyle
	case domain.StatusPending:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	case domain.StatusRejected:
		return errorStyle
	default:
		return dimStyle
	}
}

// progressBar renders pct (0-100) as a fixed-width bar.
func progressBar(pct float64, width int) string {
	if width < 4 {
		width = 4
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	return okStyle.Render(strings.Repeat("█", filled)) +
		metaStyle.Render(strings.Repeat("░", width-filled)) +
		dimStyle.Render(fmt.Sprintf(" %3.0f%%", pct))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Course catalog", "educonect.com/courses", "https://educonect.com/courses"},
	{"Terms of Service", "educonect.com/terms", "https://educonect.com/terms"},
	{"Privacy Policy", "educonect.com/privacy", "https://educonect.com/privacy"},
	{"Support", "educonect.com/support", "https://educonect.com/support"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := titleStyle.Render("E D U C O N E C T")
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60a5fa"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"educonect", "Open the course browser"},
		{"educonect login", "Sign in with email and password"},
		{"educonect register", "Create an account"},
		{"educonect whoami", "Show the signed-in user"},
		{"educonect courses", "Search the catalog"},
		{"educonect logout", "Clear your session"},
	}
	keys := []struct{ key, desc string }{
		{"1", "home"},
		{"2", "catalog"},
		{"3", "dashboard"},
		{"4", "messages"},
		{"5", "profile"},
		{"l", "sign in / out"},
		{"esc", "back"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = selStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
