package service

import (
	"context"
	"sync"

	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

func liveClassID(l domain.LiveClass) int64 { return l.ID }

// TeacherService manages a teacher's courses, live classes and earnings.
type TeacherService struct {
	base

	mu          sync.RWMutex
	courses     []domain.Course
	liveClasses []domain.LiveClass
	revenue     *domain.TeacherRevenue

	coursesSeq seq
	classesSeq seq
}

func NewTeacherService(deps Deps) *TeacherService {
	s := &TeacherService{}
	s.init(deps, "teacher")
	return s
}

// Courses returns the cached authored courses.
func (s *TeacherService) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.courses)
}

// LiveClasses returns the cached live classes.
func (s *TeacherService) LiveClasses() []domain.LiveClass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.liveClasses)
}

// CachedRevenue returns the last loaded revenue, or nil.
func (s *TeacherService) CachedRevenue() *domain.TeacherRevenue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.revenue == nil {
		return nil
	}
	r := *s.revenue
	return &r
}

// TotalStudents sums enrolled students across the cached courses.
func (s *TeacherService) TotalStudents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.courses {
		n += c.EnrolledStudents
	}
	return n
}

// MyCourses loads the caller's courses into the cache.
func (s *TeacherService) MyCourses(ctx context.Context) ([]domain.Course, error) {
	ticket := s.coursesSeq.next()
	done := s.begin()
	defer done()

	courses, err := s.api.MyCourses(ctx)
	if err != nil {
		return nil, s.failLoad("MyCourses", err, client.ResourceCourse, &s.coursesSeq, ticket)
	}
	if err := settle(ctx, &s.coursesSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.courses = clone(courses)
	s.mu.Unlock()
	return courses, nil
}

// Course loads one of the caller's courses, drafts included.
func (s *TeacherService) Course(ctx context.Context, id int64) (*domain.Course, error) {
	done := s.begin()
	defer done()

	c, err := s.api.TeacherCourse(ctx, id)
	if err != nil {
		return nil, s.fail("Course", err, client.ResourceCourse)
	}
	return c, nil
}

// CreateCourse creates a course and prepends it to the cache.
func (s *TeacherService) CreateCourse(ctx context.Context, req domain.CreateCourseRequest) (*domain.Course, error) {
	if err := s.check("CreateCourse", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	c, err := s.api.CreateTeacherCourse(ctx, req)
	if err != nil {
		return nil, s.fail("CreateCourse", err, client.ResourceCourse)
	}
	s.mu.Lock()
	s.courses = append([]domain.Course{*c}, s.courses...)
	s.mu.Unlock()
	return c, nil
}

// UpdateCourse patches a course and replaces its cache entry.
func (s *TeacherService) UpdateCourse(ctx context.Context, id int64, req domain.UpdateCourseRequest) (*domain.Course, error) {
	if err := s.check("UpdateCourse", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	c, err := s.api.UpdateTeacherCourse(ctx, id, req)
	if err != nil {
		return nil, s.fail("UpdateCourse", err, client.ResourceCourse)
	}
	s.mu.Lock()
	s.courses = replaceByID(s.courses, id, courseID, *c)
	s.mu.Unlock()
	return c, nil
}

// DeleteCourse removes a course from the backend and the cache.
func (s *TeacherService) DeleteCourse(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()

	if err := s.api.DeleteTeacherCourse(ctx, id); err != nil {
		return s.fail("DeleteCourse", err, client.ResourceCourse)
	}
	s.mu.Lock()
	s.courses = removeByID(s.courses, id, courseID)
	s.mu.Unlock()
	return nil
}

// CourseStudents lists the students of one course.
func (s *TeacherService) CourseStudents(ctx context.Context, courseID int64) ([]domain.EnrolledStudent, error) {
	done := s.begin()
	defer done()

	students, err := s.api.CourseStudents(ctx, courseID)
	if err != nil {
		return nil, s.fail("CourseStudents", err, client.ResourceCourse)
	}
	return students, nil
}

// LoadLiveClasses loads the caller's live classes into the cache.
func (s *TeacherService) LoadLiveClasses(ctx context.Context) ([]domain.LiveClass, error) {
	ticket := s.classesSeq.next()
	done := s.begin()
	defer done()

	classes, err := s.api.TeacherLiveClasses(ctx)
	if err != nil {
		return nil, s.failLoad("LiveClasses", err, client.ResourceLiveClass, &s.classesSeq, ticket)
	}
	if err := settle(ctx, &s.classesSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.liveClasses = clone(classes)
	s.mu.Unlock()
	return classes, nil
}

// CreateLiveClass schedules a class and prepends it to the cache.
func (s *TeacherService) CreateLiveClass(ctx context.Context, req domain.CreateLiveClassRequest) (*domain.LiveClass, error) {
	if err := s.check("CreateLiveClass", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	lc, err := s.api.CreateLiveClass(ctx, req)
	if err != nil {
		return nil, s.fail("CreateLiveClass", err, client.ResourceLiveClass)
	}
	s.mu.Lock()
	s.liveClasses = append([]domain.LiveClass{*lc}, s.liveClasses...)
	s.mu.Unlock()
	return lc, nil
}

// UpdateLiveClass edits a class and replaces its cache entry.
func (s *TeacherService) UpdateLiveClass(ctx context.Context, id int64, req domain.UpdateLiveClassRequest) (*domain.LiveClass, error) {
	if err := s.check("UpdateLiveClass", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	lc, err := s.api.UpdateLiveClass(ctx, id, req)
	if err != nil {
		return nil, s.fail("UpdateLiveClass", err, client.ResourceLiveClass)
	}
	s.mu.Lock()
	s.liveClasses = replaceByID(s.liveClasses, id, liveClassID, *lc)
	s.mu.Unlock()
	return lc, nil
}

// DeleteLiveClass removes a class from the backend and the cache.
func (s *TeacherService) DeleteLiveClass(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()

	if err := s.api.DeleteLiveClass(ctx, id); err != nil {
		return s.fail("DeleteLiveClass", err, client.ResourceLiveClass)
	}
	s.mu.Lock()
	s.liveClasses = removeByID(s.liveClasses, id, liveClassID)
	s.mu.Unlock()
	return nil
}

// Revenue loads earnings for period and caches them.
func (s *TeacherService) Revenue(ctx context.Context, period domain.RevenuePeriod) (*domain.TeacherRevenue, error) {
	done := s.begin()
	defer done()

	rev, err := s.api.TeacherRevenue(ctx, period)
	if err != nil {
		return nil, s.fail("Revenue", err, client.Resource{Name: "revenue"})
	}
	s.mu.Lock()
	cached := *rev
	s.revenue = &cached
	s.mu.Unlock()
	return rev, nil
}

// ReplyReview answers a review publicly.
func (s *TeacherService) ReplyReview(ctx context.Context, reviewID int64, response string) (*domain.Review, error) {
	req := domain.ReplyReviewRequest{Response: response}
	if err := s.check("ReplyReview", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	r, err := s.api.ReplyReview(ctx, reviewID, req)
	if err != nil {
		return nil, s.fail("ReplyReview", err, client.ResourceReview)
	}
	return r, nil
}

// Clear empties every cache.
func (s *TeacherService) Clear() {
	s.mu.Lock()
	s.courses = nil
	s.liveClasses = nil
	s.revenue = nil
	s.mu.Unlock()
}
