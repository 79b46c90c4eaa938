package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/educonect/educonect/pkg/domain"
)

// MyCourses lists the caller's authored courses.
func (c *Client) MyCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.get(ctx, "/teachers/my-courses", &courses); err != nil {
		return nil, fmt.Errorf("client.MyCourses: %w", err)
	}
	return courses, nil
}

// TeacherCourse fetches one of the caller's courses, drafts included.
func (c *Client) TeacherCourse(ctx context.Context, id int64) (*domain.Course, error) {
	var course domain.Course
	if err := c.get(ctx, "/teachers/courses/"+idPath(id), &course); err != nil {
		return nil, fmt.Errorf("client.TeacherCourse: %w", err)
	}
	return &course, nil
}

// CreateTeacherCourse creates a draft course.
func (c *Client) CreateTeacherCourse(ctx context.Context, req domain.CreateCourseRequest) (*domain.Course, error) {
	var course domain.Course
	if err := c.post(ctx, "/teachers/courses", req, &course); err != nil {
		return nil, fmt.Errorf("client.CreateTeacherCourse: %w", err)
	}
	return &course, nil
}

// UpdateTeacherCourse patches one of the caller's courses.
func (c *Client) UpdateTeacherCourse(ctx context.Context, id int64, req domain.UpdateCourseRequest) (*domain.Course, error) {
	var course domain.Course
	if err := c.patch(ctx, "/teachers/courses/"+idPath(id), req, &course); err != nil {
		return nil, fmt.Errorf("client.UpdateTeacherCourse: %w", err)
	}
	return &course, nil
}

// DeleteTeacherCourse removes one of the caller's courses.
func (c *Client) DeleteTeacherCourse(ctx context.Context, id int64) error {
	if err := c.delete(ctx, "/teachers/courses/"+idPath(id)); err != nil {
		return fmt.Errorf("client.DeleteTeacherCourse: %w", err)
	}
	return nil
}

// CourseStudents lists the students enrolled in one of the caller's courses.
func (c *Client) CourseStudents(ctx context.Context, courseID int64) ([]domain.EnrolledStudent, error) {
	var students []domain.EnrolledStudent
	if err := c.get(ctx, "/teachers/courses/"+idPath(courseID)+"/students", &students); err != nil {
		return nil, fmt.Errorf("client.CourseStudents: %w", err)
	}
	return students, nil
}

// TeacherLiveClasses lists the caller's live classes.
func (c *Client) TeacherLiveClasses(ctx context.Context) ([]domain.LiveClass, error) {
	var classes []domain.LiveClass
	if err := c.get(ctx, "/teachers/live-classes", &classes); err != nil {
		return nil, fmt.Errorf("client.TeacherLiveClasses: %w", err)
	}
	return classes, nil
}

// CreateLiveClass schedules a live class.
func (c *Client) CreateLiveClass(ctx context.Context, req domain.CreateLiveClassRequest) (*domain.LiveClass, error) {
	var lc domain.LiveClass
	if err := c.post(ctx, "/teachers/live-classes", req, &lc); err != nil {
		return nil, fmt.Errorf("client.CreateLiveClass: %w", err)
	}
	return &lc, nil
}

// UpdateLiveClass edits a live class.
func (c *Client) UpdateLiveClass(ctx context.Context, id int64, req domain.UpdateLiveClassRequest) (*domain.LiveClass, error) {
	var lc domain.LiveClass
	if err := c.patch(ctx, "/teachers/live-classes/"+idPath(id), req, &lc); err != nil {
		return nil, fmt.Errorf("client.UpdateLiveClass: %w", err)
	}
	return &lc, nil
}

// DeleteLiveClass cancels and removes a live class.
func (c *Client) DeleteLiveClass(ctx context.Context, id int64) error {
	if err := c.delete(ctx, "/teachers/live-classes/"+idPath(id)); err != nil {
		return fmt.Errorf("client.DeleteLiveClass: %w", err)
	}
	return nil
}

// TeacherRevenue returns the caller's earnings for period.
func (c *Client) TeacherRevenue(ctx context.Context, period domain.RevenuePeriod) (*domain.TeacherRevenue, error) {
	path := "/teachers/revenue"
	if period != "" {
		params := url.Values{}
		params.Set("period", string(period))
		path += "?" + params.Encode()
	}
	var rev domain.TeacherRevenue
	if err := c.get(ctx, path, &rev); err != nil {
		return nil, fmt.Errorf("client.TeacherRevenue: %w", err)
	}
	return &rev, nil
}

// ReplyReview posts the teacher's answer to a review.
func (c *Client) ReplyReview(ctx context.Context, reviewID int64, req domain.ReplyReviewRequest) (*domain.Review, error) {
	var r domain.Review
	if err := c.patch(ctx, "/reviews/"+idPath(reviewID)+"/reply", req, &r); err != nil {
		return nil, fmt.Errorf("client.ReplyReview: %w", err)
	}
	return &r, nil
}
