package service

import (
	"context"
	"sync"

	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

func userID(u domain.User) int64 { return u.ID }

// AdminService moderates users and courses and reads platform statistics.
type AdminService struct {
	base

	mu      sync.RWMutex
	users   []domain.User
	pending []domain.Course
	stats   *domain.AdminStats

	usersSeq   seq
	pendingSeq seq
}

func NewAdminService(deps Deps) *AdminService {
	s := &AdminService{}
	s.init(deps, "admin")
	return s
}

// CachedUsers returns the cached user list.
func (s *AdminService) CachedUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.users)
}

// Pending returns the cached moderation queue.
func (s *AdminService) Pending() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.pending)
}

// CachedStats returns the last loaded statistics, or nil.
func (s *AdminService) CachedStats() *domain.AdminStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return nil
	}
	st := *s.stats
	return &st
}

// Users loads every account into the cache.
func (s *AdminService) Users(ctx context.Context) ([]domain.User, error) {
	ticket := s.usersSeq.next()
	done := s.begin()
	defer done()

	users, err := s.api.Users(ctx)
	if err != nil {
		return nil, s.failLoad("Users", err, client.ResourceUser, &s.usersSeq, ticket)
	}
	if err := settle(ctx, &s.usersSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.users = clone(users)
	s.mu.Unlock()
	return users, nil
}

// CreateUser creates an account and appends it to the cache.
func (s *AdminService) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := s.check("CreateUser", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	u, err := s.api.CreateUser(ctx, req)
	if err != nil {
		return nil, s.fail("CreateUser", err, client.ResourceUser)
	}
	s.mu.Lock()
	s.users = append(s.users, *u)
	s.mu.Unlock()
	return u, nil
}

// UpdateUser patches an account and replaces its cache entry.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	done := s.begin()
	defer done()

	u, err := s.api.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, s.fail("UpdateUser", err, client.ResourceUser)
	}
	s.mu.Lock()
	s.users = replaceByID(s.users, id, userID, *u)
	s.mu.Unlock()
	return u, nil
}

// SetUserActive activates or deactivates an account.
func (s *AdminService) SetUserActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	done := s.begin()
	defer done()

	u, err := s.api.SetUserActive(ctx, id, active)
	if err != nil {
		return nil, s.fail("SetUserActive", err, client.ResourceUser)
	}
	s.mu.Lock()
	s.users = replaceByID(s.users, id, userID, *u)
	s.mu.Unlock()
	s.log.Info().Int64("user_id", id).Bool("active", u.Active).Msg("user status changed")
	return u, nil
}

// DeleteUser removes an account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()

	if err := s.api.DeleteUser(ctx, id); err != nil {
		return s.fail("DeleteUser", err, client.ResourceUser)
	}
	s.mu.Lock()
	s.users = removeByID(s.users, id, userID)
	s.mu.Unlock()
	return nil
}

// PendingCourses loads the moderation queue.
func (s *AdminService) PendingCourses(ctx context.Context) ([]domain.Course, error) {
	ticket := s.pendingSeq.next()
	done := s.begin()
	defer done()

	courses, err := s.api.PendingCourses(ctx)
	if err != nil {
		return nil, s.failLoad("PendingCourses", err, client.ResourceCourse, &s.pendingSeq, ticket)
	}
	if err := settle(ctx, &s.pendingSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.pending = clone(courses)
	s.mu.Unlock()
	return courses, nil
}

// Approve publishes a pending course and drops it from the queue.
func (s *AdminService) Approve(ctx context.Context, id int64) (*domain.Course, error) {
	done := s.begin()
	defer done()

	c, err := s.api.ApproveCourse(ctx, id)
	if err != nil {
		return nil, s.fail("Approve", err, client.ResourceCourse)
	}
	s.dropPending(id)
	s.log.Info().Int64("course_id", id).Msg("course approved")
	return c, nil
}

// Reject rejects a pending course and drops it from the queue.
func (s *AdminService) Reject(ctx context.Context, id int64, reason string) (*domain.Course, error) {
	done := s.begin()
	defer done()

	c, err := s.api.RejectCourse(ctx, id, reason)
	if err != nil {
		return nil, s.fail("Reject", err, client.ResourceCourse)
	}
	s.dropPending(id)
	s.log.Info().Int64("course_id", id).Msg("course rejected")
	return c, nil
}

func (s *AdminService) dropPending(id int64) {
	s.mu.Lock()
	s.pending = removeByID(s.pending, id, courseID)
	s.mu.Unlock()
}

// Stats loads platform statistics.
func (s *AdminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	done := s.begin()
	defer done()

	st, err := s.api.AdminStats(ctx)
	if err != nil {
		return nil, s.fail("Stats", err, client.Resource{Name: "stats"})
	}
	s.mu.Lock()
	cached := *st
	s.stats = &cached
	s.mu.Unlock()
	return st, nil
}

// RevenueReport loads revenue between two YYYY-MM-DD dates.
func (s *AdminService) RevenueReport(ctx context.Context, startDate, endDate string) (*domain.RevenueReport, error) {
	done := s.begin()
	defer done()

	r, err := s.api.RevenueReport(ctx, startDate, endDate)
	if err != nil {
		return nil, s.fail("RevenueReport", err, client.Resource{Name: "revenue"})
	}
	return r, nil
}

// Clear empties every cache.
func (s *AdminService) Clear() {
	s.mu.Lock()
	s.users = nil
	s.pending = nil
	s.stats = nil
	s.mu.Unlock()
}
