package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

func TestCourseCacheUpdates(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/courses":
			writeJSON(w, http.StatusOK, map[string]any{
				"courses":    []domain.Course{{ID: 1, Title: "Go"}, {ID: 2, Title: "SQL"}},
				"total":      2,
				"page":       1,
				"totalPages": 1,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/courses":
			writeJSON(w, http.StatusCreated, domain.Course{ID: 3, Title: "Rust"})
		case r.Method == http.MethodPatch && r.URL.Path == "/courses/2":
			writeJSON(w, http.StatusOK, domain.Course{ID: 2, Title: "Postgres"})
		case r.Method == http.MethodDelete && r.URL.Path == "/courses/1":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	signIn(store, domain.RoleTeacher)
	ctx := context.Background()

	if _, err := svc.Courses.List(ctx, domain.CourseFilters{}); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if _, err := svc.Courses.Create(ctx, domain.CreateCourseRequest{
		Title:       "Rust",
		Description: "Systems programming from scratch",
		Category:    domain.CategoryProgramming,
		Level:       domain.LevelBeginner,
		Price:       10,
		Language:    "en",
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	title := "Postgres"
	if _, err := svc.Courses.Update(ctx, 2, domain.UpdateCourseRequest{Title: &title}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if err := svc.Courses.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	got := svc.Courses.Courses()
	var titles []string
	for _, c := range got {
		titles = append(titles, c.Title)
	}
	if strings.Join(titles, ",") != "Rust,Postgres" {
		t.Errorf("cache titles = %v, want [Rust Postgres]", titles)
	}
	if svc.Courses.Total() != 2 {
		t.Errorf("Total() = %d, want 2", svc.Courses.Total())
	}
	if sel := svc.Courses.Selected(); sel == nil || sel.Title != "Postgres" {
		t.Errorf("Selected() = %+v, want the updated course", sel)
	}
}

func TestCourseCreateRejectsBadCategory(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("invalid course reached the server")
	})
	signIn(store, domain.RoleTeacher)

	_, err := svc.Courses.Create(context.Background(), domain.CreateCourseRequest{
		Title:       "Rust",
		Description: "Systems programming from scratch",
		Category:    "COOKING",
		Level:       domain.LevelBeginner,
		Language:    "en",
	})
	var e *client.Error
	if !errors.As(err, &e) || e.Category != client.CategoryInvalidInput {
		t.Fatalf("err = %v, want invalid_input", err)
	}
	if _, ok := e.Fields["category"]; !ok {
		t.Errorf("Fields = %v, want a category entry", e.Fields)
	}
}

func TestAdminApproveDropsPending(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/admin/courses/pending":
			writeJSON(w, http.StatusOK, []domain.Course{{ID: 5}, {ID: 6}, {ID: 7}})
		case r.URL.Path == "/admin/courses/6/approve":
			writeJSON(w, http.StatusOK, domain.Course{ID: 6, Status: domain.StatusPublished})
		case r.URL.Path == "/admin/courses/7/reject":
			writeJSON(w, http.StatusOK, domain.Course{ID: 7, Status: domain.StatusRejected})
		default:
			http.NotFound(w, r)
		}
	})
	signIn(store, domain.RoleAdmin)
	ctx := context.Background()

	if _, err := svc.Admin.PendingCourses(ctx); err != nil {
		t.Fatal(err)
	}
	c, err := svc.Admin.Approve(ctx, 6)
	if err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if c.Status != domain.StatusPublished {
		t.Errorf("Status = %q", c.Status)
	}
	if _, err := svc.Admin.Reject(ctx, 7, "needs more content"); err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if p := svc.Admin.Pending(); len(p) != 1 || p[0].ID != 5 {
		t.Errorf("Pending() = %+v, want only course 5", p)
	}
}

func TestAdminApprove_NotFoundKeepsPending(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin/courses/pending" {
			writeJSON(w, http.StatusOK, []domain.Course{{ID: 5}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	signIn(store, domain.RoleAdmin)

	svc.Admin.PendingCourses(context.Background()) //nolint:errcheck
	_, err := svc.Admin.Approve(context.Background(), 5)
	if err == nil || err.Error() != client.ResourceCourse.NotFound {
		t.Fatalf("err = %v, want %q", err, client.ResourceCourse.NotFound)
	}
	if len(svc.Admin.Pending()) != 1 {
		t.Error("failed approval removed the course")
	}
}

func TestUnreadCount(t *testing.T) {
	var fail atomic.Bool
	svc, store := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/messages/unread-count":
			if fail.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("1")) //nolint:errcheck
		case strings.HasSuffix(r.URL.Path, "/read"):
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	})
	signIn(store, domain.RoleStudent)
	ctx := context.Background()

	if n, err := svc.Messages.RefreshUnreadCount(ctx); err != nil || n != 1 {
		t.Fatalf("RefreshUnreadCount() = %d, %v", n, err)
	}
	for _, id := range []int64{1, 2} {
		if err := svc.Messages.MarkRead(ctx, id); err != nil {
			t.Fatalf("MarkRead(%d) error: %v", id, err)
		}
	}
	if got := svc.Messages.Unread(); got != 0 {
		t.Errorf("Unread() = %d, want 0", got)
	}

	svc.Messages.RefreshUnreadCount(ctx) //nolint:errcheck
	fail.Store(true)
	if _, err := svc.Messages.RefreshUnreadCount(ctx); err == nil {
		t.Fatal("expected error from failing refresh")
	}
	if got := svc.Messages.Unread(); got != 0 {
		t.Errorf("Unread() after failure = %d, want 0", got)
	}
}

func TestOverallProgress(t *testing.T) {
	progress := map[string]float64{"/students/courses/1/progress": 50, "/students/courses/2/progress": 25, "/students/courses/3/progress": 100}
	svc, store := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		p, ok := progress[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, domain.CourseProgress{ProgressPercent: p})
	})
	signIn(store, domain.RoleStudent)

	if got := svc.Student.OverallProgress(); got != 0 {
		t.Errorf("OverallProgress() with no data = %d, want 0", got)
	}
	for id := int64(1); id <= 3; id++ {
		if _, err := svc.Student.Progress(context.Background(), id); err != nil {
			t.Fatalf("Progress(%d) error: %v", id, err)
		}
	}
	// (50+25+100)/3 = 58.33
	if got := svc.Student.OverallProgress(); got != 58 {
		t.Errorf("OverallProgress() = %d, want 58", got)
	}
	if p, ok := svc.Student.CachedProgress(2); !ok || p.ProgressPercent != 25 {
		t.Errorf("CachedProgress(2) = %+v, %v", p, ok)
	}
}

func TestTeacherTotalStudents(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Course{{ID: 1, EnrolledStudents: 12}, {ID: 2, EnrolledStudents: 30}})
	})
	signIn(store, domain.RoleTeacher)

	if _, err := svc.Teacher.MyCourses(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := svc.Teacher.TotalStudents(); got != 42 {
		t.Errorf("TotalStudents() = %d, want 42", got)
	}
}

func TestClearAll(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Course{{ID: 1}})
	})
	signIn(store, domain.RoleStudent)

	svc.Student.EnrolledCourses(context.Background()) //nolint:errcheck
	svc.ClearAll()
	if len(svc.Student.Enrolled()) != 0 {
		t.Error("ClearAll() left enrolled courses cached")
	}
}
