package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/educonect/educonect/internal/session"
	"github.com/educonect/educonect/internal/storage"
	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

func newTestServices(t *testing.T, h http.HandlerFunc) (*Services, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := session.NewStore()
	api := client.New(srv.URL, store)
	return New(Deps{API: api, Session: store, Log: zerolog.Nop()}), store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func signIn(store *session.Store, role domain.Role) {
	store.SetUser(domain.User{ID: 9, Name: "Pat", Role: role}, "tok")
}

func TestLogin(t *testing.T) {
	var svc *Services
	var store *session.Store
	svc, store = newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		if !store.IsLoading() || !svc.Auth.IsLoading() {
			t.Error("loading flags not raised during login")
		}
		writeJSON(w, http.StatusOK, domain.AuthResponse{
			Token: "jwt",
			User:  domain.User{ID: 3, Name: "Ana", Role: domain.RoleTeacher},
		})
	})

	u, err := svc.Auth.Login(context.Background(), domain.LoginRequest{Email: "ana@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if u.ID != 3 || !store.IsAuthenticated() || store.CurrentToken() != "jwt" {
		t.Errorf("session = %+v", store.Snapshot())
	}
	if store.IsLoading() || svc.Auth.IsLoading() {
		t.Error("loading flags left raised after success")
	}
	if got := svc.Auth.DashboardPath(); got != "/teacher/dashboard" {
		t.Errorf("DashboardPath() = %q", got)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})

	_, err := svc.Auth.Login(context.Background(), domain.LoginRequest{Email: "ana@x.io", Password: "wrong"})
	var e *client.Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %v, want *client.Error", err)
	}
	if e.Category != client.CategoryUnauthenticated || e.Message != "Invalid credentials" {
		t.Errorf("err = %+v", e)
	}
	if store.IsAuthenticated() || store.IsLoading() || svc.Auth.IsLoading() {
		t.Errorf("session after failed login = %+v", store.Snapshot())
	}
}

func TestLogin_InvalidPayloadNeverSent(t *testing.T) {
	var hits atomic.Int32
	svc, _ := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	err := func() error {
		_, err := svc.Auth.Login(context.Background(), domain.LoginRequest{Email: "not-an-email"})
		return err
	}()
	if client.CategoryOf(err) != client.CategoryInvalidInput {
		t.Errorf("category = %q, want invalid_input", client.CategoryOf(err))
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times", hits.Load())
	}
}

func TestUnauthorizedEndsSession(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
	})
	signIn(store, domain.RoleStudent)

	_, err := svc.Student.EnrolledCourses(context.Background())
	if client.CategoryOf(err) != client.CategoryUnauthenticated {
		t.Fatalf("category = %q", client.CategoryOf(err))
	}
	if err.Error() != client.MsgUnauthorized {
		t.Errorf("message = %q", err.Error())
	}
	if store.IsAuthenticated() {
		t.Error("session survived a 401")
	}
}

func TestForbiddenKeepsSession(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	signIn(store, domain.RoleStudent)

	_, err := svc.Admin.Users(context.Background())
	if client.CategoryOf(err) != client.CategoryForbidden {
		t.Fatalf("category = %q", client.CategoryOf(err))
	}
	if !store.IsAuthenticated() {
		t.Error("403 should not end the session")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantValid  bool
		wantSignIn bool
	}{
		{"accepted", http.StatusOK, "true", true, true},
		{"rejected body", http.StatusOK, "false", false, false},
		{"unauthorized", http.StatusUnauthorized, "", false, false},
		{"server error keeps session", http.StatusInternalServerError, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) //nolint:errcheck
			})
			signIn(store, domain.RoleAdmin)

			valid, _ := svc.Auth.Validate(context.Background())
			if valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", valid, tt.wantValid)
			}
			if store.IsAuthenticated() != tt.wantSignIn {
				t.Errorf("authenticated = %v, want %v", store.IsAuthenticated(), tt.wantSignIn)
			}
		})
	}
}

func TestValidate_NoToken(t *testing.T) {
	svc, _ := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("server should not be called without a token")
	})
	if _, err := svc.Auth.Validate(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
}

func TestUpdateProfileMergesSession(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/users/profile" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, domain.User{ID: 9, Name: "Patricia", Surname: "Gomez", Role: domain.RoleStudent})
	})
	signIn(store, domain.RoleStudent)

	name := "Patricia"
	if _, err := svc.Auth.UpdateProfile(context.Background(), domain.UserPatch{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if store.DisplayName() != "Patricia Gomez" || store.CurrentToken() != "tok" {
		t.Errorf("session = %+v", store.Snapshot())
	}
}

func TestLoadingReleasedOnEveryOutcome(t *testing.T) {
	statuses := []int{http.StatusOK, http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, http.StatusTeapot}
	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var svc *Services
			svc, _ = newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
				if !svc.Courses.IsLoading() {
					t.Error("IsLoading() = false while request in flight")
				}
				if status == http.StatusOK {
					writeJSON(w, status, domain.Course{ID: 1})
					return
				}
				w.WriteHeader(status)
			})

			svc.Courses.Get(context.Background(), 1) //nolint:errcheck
			if svc.Courses.IsLoading() {
				t.Error("IsLoading() = true after call returned")
			}
		})
	}
}

func TestTransportErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := session.NewStore()
	svc := New(Deps{API: client.New(url, store), Session: store, Log: zerolog.Nop()})
	_, err := svc.Courses.Featured(context.Background())
	if client.CategoryOf(err) != client.CategoryUnknown || err.Error() != client.MsgOperationFailed {
		t.Errorf("err = %v", err)
	}
	if svc.Courses.IsLoading() {
		t.Error("loading stuck after transport failure")
	}
}

func TestCancelledCallDropsResult(t *testing.T) {
	release := make(chan struct{})
	svc, _ := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, []domain.Course{{ID: 1}})
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Courses.List(ctx, domain.CourseFilters{})
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	close(release)

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(svc.Courses.Courses()) != 0 {
		t.Error("cancelled load wrote into the cache")
	}
	if svc.Courses.IsLoading() {
		t.Error("loading stuck after cancellation")
	}
}

func TestStaleListLoadDiscarded(t *testing.T) {
	release := make(chan struct{})
	svc, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			<-release
			writeJSON(w, http.StatusOK, []domain.Course{{ID: 1, Title: "old"}})
			return
		}
		writeJSON(w, http.StatusOK, []domain.Course{{ID: 2, Title: "new"}})
	})

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Courses.List(context.Background(), domain.CourseFilters{Page: 1})
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)

	if _, err := svc.Courses.List(context.Background(), domain.CourseFilters{Page: 2}); err != nil {
		t.Fatalf("newer List() error: %v", err)
	}
	close(release)

	if err := <-errCh; !errors.Is(err, ErrStale) {
		t.Fatalf("older List() err = %v, want ErrStale", err)
	}
	got := svc.Courses.Courses()
	if len(got) != 1 || got[0].Title != "new" {
		t.Errorf("cache = %+v, want the newer page", got)
	}
}

func TestStaleFailedLoadDiscarded(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"unauthorized", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release := make(chan struct{})
			svc, store := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("category") == string(domain.CategoryDesign) {
					<-release
					writeJSON(w, tt.status, map[string]string{"message": "late failure"})
					return
				}
				writeJSON(w, http.StatusOK, []domain.Course{{ID: 2, Title: "new"}})
			})
			signIn(store, domain.RoleStudent)

			errCh := make(chan error, 1)
			go func() {
				_, err := svc.Courses.List(context.Background(), domain.CourseFilters{Category: domain.CategoryDesign})
				errCh <- err
			}()
			time.Sleep(50 * time.Millisecond)

			if _, err := svc.Courses.List(context.Background(), domain.CourseFilters{Category: domain.CategoryProgramming}); err != nil {
				t.Fatalf("newer List() error: %v", err)
			}
			close(release)

			if err := <-errCh; !errors.Is(err, ErrStale) {
				t.Fatalf("older List() err = %v, want ErrStale", err)
			}
			if got := svc.Courses.Courses(); len(got) != 1 || got[0].Title != "new" {
				t.Errorf("cache = %+v, want the newer page", got)
			}
			if !store.IsAuthenticated() {
				t.Error("an overtaken load ended the session")
			}
		})
	}
}

func TestFailedReloginKeepsSession(t *testing.T) {
	svc, store := newTestServices(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})
	kv := storage.NewMemoryKV()
	unbind := session.NewPersister(kv, zerolog.Nop()).Bind(context.Background(), store)
	defer unbind()
	signIn(store, domain.RoleStudent)

	_, err := svc.Auth.Login(context.Background(), domain.LoginRequest{Email: "pat@x.io", Password: "typo"})
	var ce *client.Error
	if !errors.As(err, &ce) || ce.Message != "Invalid credentials" {
		t.Fatalf("err = %v, want Invalid credentials", err)
	}
	if !store.IsAuthenticated() || store.CurrentToken() != "tok" {
		t.Errorf("failed login replaced the session: %+v", store.Snapshot())
	}
	if kv.Len() != 2 {
		t.Errorf("persisted keys = %d, want 2", kv.Len())
	}
	if store.IsLoading() {
		t.Error("session loading flag left raised")
	}
}
