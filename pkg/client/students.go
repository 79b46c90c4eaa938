package client

import (
	"context"
	"fmt"

	"github.com/educonect/educonect/pkg/domain"
)

// EnrolledCourses lists the courses the caller is enrolled in.
func (c *Client) EnrolledCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.get(ctx, "/students/enrolled-courses", &courses); err != nil {
		return nil, fmt.Errorf("client.EnrolledCourses: %w", err)
	}
	return courses, nil
}

// Enroll joins a course.
func (c *Client) Enroll(ctx context.Context, req domain.EnrollRequest) (*domain.Enrollment, error) {
	var e domain.Enrollment
	if err := c.post(ctx, "/enrollments", req, &e); err != nil {
		return nil, fmt.Errorf("client.Enroll: %w", err)
	}
	return &e, nil
}

// CourseProgress returns the caller's progress in a course.
func (c *Client) CourseProgress(ctx context.Context, courseID int64) (*domain.CourseProgress, error) {
	var p domain.CourseProgress
	if err := c.get(ctx, "/students/courses/"+idPath(courseID)+"/progress", &p); err != nil {
		return nil, fmt.Errorf("client.CourseProgress: %w", err)
	}
	return &p, nil
}

// CompleteLesson marks a lesson done and returns the updated progress.
func (c *Client) CompleteLesson(ctx context.Context, courseID, lessonID int64) (*domain.CourseProgress, error) {
	var p domain.CourseProgress
	path := "/students/courses/" + idPath(courseID) + "/lessons/" + idPath(lessonID) + "/complete"
	if err := c.post(ctx, path, nil, &p); err != nil {
		return nil, fmt.Errorf("client.CompleteLesson: %w", err)
	}
	return &p, nil
}

// UpcomingClasses lists live classes scheduled for the caller's courses.
func (c *Client) UpcomingClasses(ctx context.Context) ([]domain.LiveClass, error) {
	var classes []domain.LiveClass
	if err := c.get(ctx, "/students/upcoming-classes", &classes); err != nil {
		return nil, fmt.Errorf("client.UpcomingClasses: %w", err)
	}
	return classes, nil
}

// AttendLiveClass registers attendance.
func (c *Client) AttendLiveClass(ctx context.Context, id int64) error {
	if err := c.post(ctx, "/students/live-classes/"+idPath(id)+"/attend", nil, nil); err != nil {
		return fmt.Errorf("client.AttendLiveClass: %w", err)
	}
	return nil
}

// CreateReview reviews a course.
func (c *Client) CreateReview(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, error) {
	var r domain.Review
	if err := c.post(ctx, "/reviews", req, &r); err != nil {
		return nil, fmt.Errorf("client.CreateReview: %w", err)
	}
	return &r, nil
}

// UpdateReview edits one of the caller's reviews.
func (c *Client) UpdateReview(ctx context.Context, id int64, req domain.UpdateReviewRequest) (*domain.Review, error) {
	var r domain.Review
	if err := c.patch(ctx, "/reviews/"+idPath(id), req, &r); err != nil {
		return nil, fmt.Errorf("client.UpdateReview: %w", err)
	}
	return &r, nil
}

// DeleteReview removes one of the caller's reviews.
func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	if err := c.delete(ctx, "/reviews/"+idPath(id)); err != nil {
		return fmt.Errorf("client.DeleteReview: %w", err)
	}
	return nil
}

// Certificate downloads the completion certificate as raw bytes.
func (c *Client) Certificate(ctx context.Context, courseID int64) ([]byte, error) {
	data, err := c.getRaw(ctx, "/students/courses/"+idPath(courseID)+"/certificate")
	if err != nil {
		return nil, fmt.Errorf("client.Certificate: %w", err)
	}
	return data, nil
}

// EnrollmentHistory lists every enrollment of the caller.
func (c *Client) EnrollmentHistory(ctx context.Context) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	if err := c.get(ctx, "/students/enrollments", &enrollments); err != nil {
		return nil, fmt.Errorf("client.EnrollmentHistory: %w", err)
	}
	return enrollments, nil
}

// IsEnrolled reports whether the caller is enrolled in a course.
func (c *Client) IsEnrolled(ctx context.Context, courseID int64) (bool, error) {
	var enrolled bool
	if err := c.get(ctx, "/students/courses/"+idPath(courseID)+"/is-enrolled", &enrolled); err != nil {
		return false, fmt.Errorf("client.IsEnrolled: %w", err)
	}
	return enrolled, nil
}
