package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/educonect/educonect/internal/guard"
	"github.com/educonect/educonect/internal/service"
	"github.com/educonect/educonect/pkg/domain"
)

type courseLoadedMsg struct {
	course   *domain.Course
	reviews  []domain.Review
	enrolled bool
	progress *domain.CourseProgress
	err      error
}

type enrolledMsg struct {
	err error
}

type lessonDoneMsg struct {
	progress *domain.CourseProgress
	err      error
}

// courseScreen shows a course. Mounted on the viewer route it also tracks
// the student's progress through the lessons.
type courseScreen struct {
	env      env
	id       int64
	viewer   bool
	course   *domain.Course
	reviews  []domain.Review
	lessons  []domain.Lesson
	enrolled bool
	progress *domain.CourseProgress
	method   int
	cursor   int
	loading  bool
	busy     bool
	status   string
	err      string
}

func newCourseScreen(e env) (screen, tea.Cmd) {
	m := courseScreen{env: e, viewer: e.res.Route.Name == "course-viewer"}
	id, err := strconv.ParseInt(e.res.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		m.err = "invalid course id"
		return m, nil
	}
	m.id = id
	m.loading = true
	return m, m.load()
}

func (m courseScreen) load() tea.Cmd {
	ctx, svc, id := m.env.ctx, m.env.svc, m.id
	student := m.env.sess.IsStudent()
	viewer := m.viewer
	return func() tea.Msg {
		return loadCourse(ctx, svc, id, student, viewer)
	}
}

func loadCourse(ctx context.Context, svc *service.Services, id int64, student, viewer bool) courseLoadedMsg {
	course, err := svc.Courses.Get(ctx, id)
	if err != nil {
		return courseLoadedMsg{err: err}
	}
	out := courseLoadedMsg{course: course}
	// Reviews and enrollment are extras; the course renders without them.
	if reviews, err := svc.Courses.Reviews(ctx, id); err == nil {
		out.reviews = reviews
	}
	if student {
		if ok, err := svc.Student.IsEnrolled(ctx, id); err == nil {
			out.enrolled = ok
		}
	}
	if viewer && student {
		if p, err := svc.Student.Progress(ctx, id); err == nil {
			out.progress = p
		}
	}
	return out
}

func (m courseScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case courseLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errText(msg.err)
			return m, nil
		}
		m.err = ""
		m.course = msg.course
		m.reviews = msg.reviews
		m.enrolled = msg.enrolled
		m.progress = msg.progress
		m.lessons = nil
		for _, s := range msg.course.Sections {
			m.lessons = append(m.lessons, s.Lessons...)
		}

	case enrolledMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		m.enrolled = true
		m.status = "enrolled"

	case lessonDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errText(msg.err)
			return m, nil
		}
		m.progress = msg.progress
		m.status = "lesson completed"

	case statusMsg:
		m.status = msg.text
		if msg.err != nil {
			m.status = "failed: " + msg.err.Error()
		}

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m courseScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	if m.course == nil || m.busy {
		return m, nil
	}
	switch msg.String() {
	case "e":
		return m.enroll()
	case "m":
		m.method = (m.method + 1) % len(domain.PaymentMethods)
	case "v":
		if m.enrolled {
			return m, navigate(fmt.Sprintf("/student/course/%d", m.id))
		}
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, len(m.lessons))
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, len(m.lessons))
	case "d":
		if m.viewer && m.cursor < len(m.lessons) {
			m.busy = true
			ctx, svc, course, lesson := m.env.ctx, m.env.svc, m.id, m.lessons[m.cursor].ID
			return m, func() tea.Msg {
				p, err := svc.Student.CompleteLesson(ctx, course, lesson)
				return lessonDoneMsg{progress: p, err: err}
			}
		}
	case "o":
		if m.cursor < len(m.lessons) && m.lessons[m.cursor].VideoURL != "" {
			url, open := m.lessons[m.cursor].VideoURL, m.env.openURL
			return m, func() tea.Msg {
				return statusMsg{text: "opened in browser", err: open(url)}
			}
		}
	case "c":
		link := fmt.Sprintf("/courses/%d", m.id)
		cp := m.env.copyText
		return m, func() tea.Msg {
			return statusMsg{text: "link copied", err: cp(link)}
		}
	}
	return m, nil
}

func (m courseScreen) enroll() (screen, tea.Cmd) {
	sess := m.env.sess
	if !sess.IsAuthenticated() {
		return m, navigate(guard.LoginRedirect(m.env.res.Path))
	}
	if !sess.IsStudent() {
		m.status = "only students can enroll"
		return m, nil
	}
	if m.enrolled {
		m.status = "already enrolled"
		return m, nil
	}
	method := domain.PaymentMethods[m.method]
	if m.course.IsFree() {
		method = domain.PaymentFree
	}
	m.busy = true
	ctx, svc, id := m.env.ctx, m.env.svc, m.id
	return m, func() tea.Msg {
		_, err := svc.Student.Enroll(ctx, domain.EnrollRequest{CourseID: id, PaymentMethod: method})
		return enrolledMsg{err: err}
	}
}

func (m courseScreen) View() string {
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}
	if m.loading || m.course == nil {
		return " " + dimStyle.Render("loading course...")
	}
	c := m.course
	var sb strings.Builder

	sb.WriteString(" " + titleStyle.Render(c.Title) + "\n")
	meta := []string{
		CategoryStyle(c.Category).Render(string(c.Category)),
		dimStyle.Render(string(c.Level)),
		ratingStyle.Render(fmt.Sprintf("★ %.1f (%d)", c.Rating, c.TotalReviews)),
		dimStyle.Render(fmt.Sprintf("%d students", c.EnrolledStudents)),
		priceStyle.Render(formatPrice(*c)),
	}
	sb.WriteString(" " + strings.Join(meta, metaStyle.Render(" . ")) + "\n")
	if c.TeacherName != "" {
		sb.WriteString(" " + dimStyle.Render("by "+c.TeacherName) + "\n")
	}
	if d := firstNonEmpty(c.ShortDescription, c.Description); d != "" {
		sb.WriteString("\n " + normalStyle.Render(truncStr(d, 300)) + "\n")
	}

	if m.viewer && m.progress != nil {
		sb.WriteString("\n " + progressBar(m.progress.ProgressPercent, 30) + "\n")
	}

	if len(m.lessons) > 0 {
		sb.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("Syllabus . %d lessons", c.LessonCount())) + "\n")
		for i, l := range m.lessons {
			mark := "  "
			if m.progress != nil && slices.Contains(m.progress.CompletedLessons, l.ID) {
				mark = okStyle.Render("✓ ")
			}
			line := fmt.Sprintf("%s%-40s %3dm", mark, truncStr(l.Title, 40), l.Duration)
			sb.WriteString(row(m.viewer && i == m.cursor, line) + "\n")
		}
	}

	if len(m.reviews) > 0 {
		sb.WriteString("\n " + sectionHeaderStyle.Render("Reviews") + "\n")
		for _, r := range m.reviews {
			sb.WriteString("   " + ratingStyle.Render(r.Stars()) + " " + dimStyle.Render(r.StudentName) + "  " +
				normalStyle.Render(truncStr(r.Comment, 60)) + "\n")
		}
	}

	sb.WriteString("\n")
	switch {
	case m.enrolled:
		sb.WriteString(" " + okStyle.Render("enrolled"))
	case m.env.sess.IsStudent():
		sb.WriteString(" " + dimStyle.Render("pay with ") + accentStyle.Render(string(domain.PaymentMethods[m.method])))
	}
	if m.busy {
		sb.WriteString(" " + dimStyle.Render("working..."))
	}
	if m.status != "" {
		sb.WriteString("  " + accentStyle.Render(m.status))
	}
	return sb.String()
}

func (m courseScreen) helpKeys() string {
	if m.viewer {
		return helpLine("j/k", "lesson", "d", "complete", "o", "open video", "c", "copy link", "esc", "back")
	}
	if m.enrolled {
		return helpLine("v", "view content", "c", "copy link", "esc", "back")
	}
	return helpLine("e", "enroll", "m", "payment", "c", "copy link", "esc", "back")
}

func (m courseScreen) editing() bool { return false }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
