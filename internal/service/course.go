package service

import (
	"context"
	"sync"

	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

func courseID(c domain.Course) int64 { return c.ID }

// CourseService reads and edits the course catalog.
type CourseService struct {
	base

	mu       sync.RWMutex
	courses  []domain.Course
	total    int
	selected *domain.Course
	listSeq  seq
}

func NewCourseService(deps Deps) *CourseService {
	s := &CourseService{}
	s.init(deps, "courses")
	return s
}

// Courses returns the cached list.
func (s *CourseService) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.courses)
}

// Total is the server-side count behind the cached list.
func (s *CourseService) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Selected returns the course opened last, or nil.
func (s *CourseService) Selected() *domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	c := *s.selected
	return &c
}

// List loads a catalog page and replaces the cache with it.
func (s *CourseService) List(ctx context.Context, f domain.CourseFilters) (*domain.CoursePage, error) {
	ticket := s.listSeq.next()
	done := s.begin()
	defer done()

	page, err := s.api.ListCourses(ctx, f)
	if err != nil {
		return nil, s.failLoad("List", err, client.ResourceCourse, &s.listSeq, ticket)
	}
	if err := settle(ctx, &s.listSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.courses = clone(page.Courses)
	s.total = page.Total
	s.mu.Unlock()
	return page, nil
}

// Search runs a free-text search and replaces the cache with the matches.
func (s *CourseService) Search(ctx context.Context, query string) ([]domain.Course, error) {
	ticket := s.listSeq.next()
	done := s.begin()
	defer done()

	courses, err := s.api.SearchCourses(ctx, query)
	if err != nil {
		return nil, s.failLoad("Search", err, client.ResourceCourse, &s.listSeq, ticket)
	}
	if err := settle(ctx, &s.listSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.courses = clone(courses)
	s.total = len(courses)
	s.mu.Unlock()
	return courses, nil
}

// Get loads one course and selects it.
func (s *CourseService) Get(ctx context.Context, id int64) (*domain.Course, error) {
	done := s.begin()
	defer done()

	c, err := s.api.GetCourse(ctx, id)
	if err != nil {
		return nil, s.fail("Get", err, client.ResourceCourse)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	sel := *c
	s.selected = &sel
	s.mu.Unlock()
	return c, nil
}

// Create adds a course and puts it at the head of the cache.
func (s *CourseService) Create(ctx context.Context, req domain.CreateCourseRequest) (*domain.Course, error) {
	if err := s.check("Create", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	c, err := s.api.CreateCourse(ctx, req)
	if err != nil {
		return nil, s.fail("Create", err, client.ResourceCourse)
	}
	s.mu.Lock()
	s.courses = append([]domain.Course{*c}, s.courses...)
	s.total++
	s.mu.Unlock()
	return c, nil
}

// Update patches a course, refreshing its cache entry and the selection.
func (s *CourseService) Update(ctx context.Context, id int64, req domain.UpdateCourseRequest) (*domain.Course, error) {
	if err := s.check("Update", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	c, err := s.api.UpdateCourse(ctx, id, req)
	if err != nil {
		return nil, s.fail("Update", err, client.ResourceCourse)
	}
	s.replace(id, *c)
	return c, nil
}

// Delete removes a course from the backend and the cache.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()

	if err := s.api.DeleteCourse(ctx, id); err != nil {
		return s.fail("Delete", err, client.ResourceCourse)
	}
	s.mu.Lock()
	before := len(s.courses)
	s.courses = removeByID(s.courses, id, courseID)
	if len(s.courses) < before && s.total > 0 {
		s.total--
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	return nil
}

// Publish moves a course to PUBLISHED.
func (s *CourseService) Publish(ctx context.Context, id int64) (*domain.Course, error) {
	return s.setStatus(ctx, "Publish", id, domain.StatusPublished)
}

// Archive moves a course to ARCHIVED.
func (s *CourseService) Archive(ctx context.Context, id int64) (*domain.Course, error) {
	return s.setStatus(ctx, "Archive", id, domain.StatusArchived)
}

func (s *CourseService) setStatus(ctx context.Context, op string, id int64, status domain.CourseStatus) (*domain.Course, error) {
	done := s.begin()
	defer done()

	c, err := s.api.SetCourseStatus(ctx, id, status)
	if err != nil {
		return nil, s.fail(op, err, client.ResourceCourse)
	}
	s.replace(id, *c)
	s.log.Info().Int64("course_id", id).Str("status", string(status)).Msg("course status changed")
	return c, nil
}

func (s *CourseService) replace(id int64, c domain.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = replaceByID(s.courses, id, courseID, c)
	if s.selected != nil && s.selected.ID == id {
		sel := c
		s.selected = &sel
	}
}

// Featured returns the home page selection without touching the cache.
func (s *CourseService) Featured(ctx context.Context) ([]domain.Course, error) {
	done := s.begin()
	defer done()

	courses, err := s.api.FeaturedCourses(ctx)
	if err != nil {
		return nil, s.fail("Featured", err, client.ResourceCourse)
	}
	return courses, nil
}

// ByTeacher lists a teacher's courses.
func (s *CourseService) ByTeacher(ctx context.Context, teacherID int64) ([]domain.Course, error) {
	done := s.begin()
	defer done()

	courses, err := s.api.CoursesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, s.fail("ByTeacher", err, client.ResourceCourse)
	}
	return courses, nil
}

// Reviews lists a course's reviews.
func (s *CourseService) Reviews(ctx context.Context, courseID int64) ([]domain.Review, error) {
	done := s.begin()
	defer done()

	reviews, err := s.api.CourseReviews(ctx, courseID)
	if err != nil {
		return nil, s.fail("Reviews", err, client.ResourceCourse)
	}
	return reviews, nil
}

// ClearSelected forgets the selected course.
func (s *CourseService) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Clear empties the cache.
func (s *CourseService) Clear() {
	s.mu.Lock()
	s.courses = nil
	s.total = 0
	s.selected = nil
	s.mu.Unlock()
}
