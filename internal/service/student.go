package service

import (
	"context"
	"math"
	"sync"

	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

// StudentService covers enrollment, progress, classes and reviews for students.
type StudentService struct {
	base

	mu          sync.RWMutex
	enrolled    []domain.Course
	enrollments []domain.Enrollment
	progress    map[int64]domain.CourseProgress
	upcoming    []domain.LiveClass

	enrolledSeq seq
	upcomingSeq seq
}

func NewStudentService(deps Deps) *StudentService {
	s := &StudentService{progress: make(map[int64]domain.CourseProgress)}
	s.init(deps, "student")
	return s
}

// Enrolled returns the cached enrolled courses.
func (s *StudentService) Enrolled() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.enrolled)
}

// Enrollments returns the cached enrollments.
func (s *StudentService) Enrollments() []domain.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.enrollments)
}

// Upcoming returns the cached upcoming live classes.
func (s *StudentService) Upcoming() []domain.LiveClass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.upcoming)
}

// CachedProgress returns the last known progress for a course.
func (s *StudentService) CachedProgress(courseID int64) (domain.CourseProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[courseID]
	return p, ok
}

// OverallProgress is the rounded mean of every cached course progress, 0 when none.
func (s *StudentService) OverallProgress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.progress) == 0 {
		return 0
	}
	var total float64
	for _, p := range s.progress {
		total += p.ProgressPercent
	}
	return int(math.Round(total / float64(len(s.progress))))
}

// EnrolledCourses loads the caller's courses into the cache.
func (s *StudentService) EnrolledCourses(ctx context.Context) ([]domain.Course, error) {
	ticket := s.enrolledSeq.next()
	done := s.begin()
	defer done()

	courses, err := s.api.EnrolledCourses(ctx)
	if err != nil {
		return nil, s.failLoad("EnrolledCourses", err, client.ResourceCourse, &s.enrolledSeq, ticket)
	}
	if err := settle(ctx, &s.enrolledSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.enrolled = clone(courses)
	s.mu.Unlock()
	return courses, nil
}

// Enroll joins a course and appends the enrollment to the cache.
func (s *StudentService) Enroll(ctx context.Context, req domain.EnrollRequest) (*domain.Enrollment, error) {
	if err := s.check("Enroll", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	e, err := s.api.Enroll(ctx, req)
	if err != nil {
		return nil, s.fail("Enroll", err, client.ResourceEnrollment)
	}
	s.mu.Lock()
	s.enrollments = append(s.enrollments, *e)
	s.mu.Unlock()
	s.log.Info().Int64("course_id", req.CourseID).Msg("enrolled")
	return e, nil
}

// Progress loads and caches progress in one course.
func (s *StudentService) Progress(ctx context.Context, courseID int64) (*domain.CourseProgress, error) {
	done := s.begin()
	defer done()

	p, err := s.api.CourseProgress(ctx, courseID)
	if err != nil {
		return nil, s.fail("Progress", err, client.ResourceCourse)
	}
	s.storeProgress(courseID, *p)
	return p, nil
}

// CompleteLesson marks a lesson done and caches the new progress.
func (s *StudentService) CompleteLesson(ctx context.Context, courseID, lessonID int64) (*domain.CourseProgress, error) {
	done := s.begin()
	defer done()

	p, err := s.api.CompleteLesson(ctx, courseID, lessonID)
	if err != nil {
		return nil, s.fail("CompleteLesson", err, client.ResourceCourse)
	}
	s.storeProgress(courseID, *p)
	return p, nil
}

func (s *StudentService) storeProgress(courseID int64, p domain.CourseProgress) {
	s.mu.Lock()
	s.progress[courseID] = p
	s.mu.Unlock()
}

// UpcomingClasses loads scheduled live classes into the cache.
func (s *StudentService) UpcomingClasses(ctx context.Context) ([]domain.LiveClass, error) {
	ticket := s.upcomingSeq.next()
	done := s.begin()
	defer done()

	classes, err := s.api.UpcomingClasses(ctx)
	if err != nil {
		return nil, s.failLoad("UpcomingClasses", err, client.ResourceLiveClass, &s.upcomingSeq, ticket)
	}
	if err := settle(ctx, &s.upcomingSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.upcoming = clone(classes)
	s.mu.Unlock()
	return classes, nil
}

// AttendLiveClass registers attendance.
func (s *StudentService) AttendLiveClass(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()

	if err := s.api.AttendLiveClass(ctx, id); err != nil {
		return s.fail("AttendLiveClass", err, client.ResourceLiveClass)
	}
	return nil
}

// CreateReview reviews a course.
func (s *StudentService) CreateReview(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, error) {
	if err := s.check("CreateReview", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	r, err := s.api.CreateReview(ctx, req)
	if err != nil {
		return nil, s.fail("CreateReview", err, client.ResourceReview)
	}
	return r, nil
}

// UpdateReview edits a review.
func (s *StudentService) UpdateReview(ctx context.Context, id int64, req domain.UpdateReviewRequest) (*domain.Review, error) {
	if err := s.check("UpdateReview", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	r, err := s.api.UpdateReview(ctx, id, req)
	if err != nil {
		return nil, s.fail("UpdateReview", err, client.ResourceReview)
	}
	return r, nil
}

// DeleteReview removes a review.
func (s *StudentService) DeleteReview(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()

	if err := s.api.DeleteReview(ctx, id); err != nil {
		return s.fail("DeleteReview", err, client.ResourceReview)
	}
	return nil
}

// Certificate downloads the completion certificate.
func (s *StudentService) Certificate(ctx context.Context, courseID int64) ([]byte, error) {
	done := s.begin()
	defer done()

	data, err := s.api.Certificate(ctx, courseID)
	if err != nil {
		return nil, s.fail("Certificate", err, client.ResourceCourse)
	}
	return data, nil
}

// EnrollmentHistory loads every enrollment and replaces the cache.
func (s *StudentService) EnrollmentHistory(ctx context.Context) ([]domain.Enrollment, error) {
	done := s.begin()
	defer done()

	enrollments, err := s.api.EnrollmentHistory(ctx)
	if err != nil {
		return nil, s.fail("EnrollmentHistory", err, client.ResourceEnrollment)
	}
	s.mu.Lock()
	s.enrollments = clone(enrollments)
	s.mu.Unlock()
	return enrollments, nil
}

// IsEnrolled asks whether the caller is enrolled in a course.
func (s *StudentService) IsEnrolled(ctx context.Context, courseID int64) (bool, error) {
	done := s.begin()
	defer done()

	ok, err := s.api.IsEnrolled(ctx, courseID)
	if err != nil {
		return false, s.fail("IsEnrolled", err, client.ResourceEnrollment)
	}
	return ok, nil
}

// Clear empties every cache.
func (s *StudentService) Clear() {
	s.mu.Lock()
	s.enrolled = nil
	s.enrollments = nil
	s.progress = make(map[int64]domain.CourseProgress)
	s.upcoming = nil
	s.mu.Unlock()
}
