package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/educonect/educonect/pkg/domain"
)

// FiltersQuery encodes f as catalog query parameters. Zero values are omitted.
func FiltersQuery(f domain.CourseFilters) url.Values {
	params := url.Values{}
	if f.Category != "" {
		params.Set("category", string(f.Category))
	}
	if f.Level != "" {
		params.Set("level", string(f.Level))
	}
	if f.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.MinRating > 0 {
		params.Set("minRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.Language != "" {
		params.Set("language", f.Language)
	}
	if f.HasLiveClasses != nil {
		params.Set("hasLiveClasses", strconv.FormatBool(*f.HasLiveClasses))
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.SortBy != "" {
		params.Set("sortBy", string(f.SortBy))
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	return params
}

// ListCourses fetches a page of the public catalog.
func (c *Client) ListCourses(ctx context.Context, f domain.CourseFilters) (*domain.CoursePage, error) {
	path := "/courses"
	if q := FiltersQuery(f).Encode(); q != "" {
		path += "?" + q
	}
	var page domain.CoursePage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("client.ListCourses: %w", err)
	}
	return &page, nil
}

// GetCourse fetches a single course with its syllabus.
func (c *Client) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	var course domain.Course
	if err := c.get(ctx, "/courses/"+idPath(id), &course); err != nil {
		return nil, fmt.Errorf("client.GetCourse: %w", err)
	}
	return &course, nil
}

// CreateCourse creates a course owned by the caller.
func (c *Client) CreateCourse(ctx context.Context, req domain.CreateCourseRequest) (*domain.Course, error) {
	var course domain.Course
	if err := c.post(ctx, "/courses", req, &course); err != nil {
		return nil, fmt.Errorf("client.CreateCourse: %w", err)
	}
	return &course, nil
}

// UpdateCourse patches a course.
func (c *Client) UpdateCourse(ctx context.Context, id int64, req domain.UpdateCourseRequest) (*domain.Course, error) {
	var course domain.Course
	if err := c.patch(ctx, "/courses/"+idPath(id), req, &course); err != nil {
		return nil, fmt.Errorf("client.UpdateCourse: %w", err)
	}
	return &course, nil
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	if err := c.delete(ctx, "/courses/"+idPath(id)); err != nil {
		return fmt.Errorf("client.DeleteCourse: %w", err)
	}
	return nil
}

// SetCourseStatus moves a course to status.
func (c *Client) SetCourseStatus(ctx context.Context, id int64, status domain.CourseStatus) (*domain.Course, error) {
	var course domain.Course
	if err := c.patch(ctx, "/courses/"+idPath(id)+"/status", map[string]string{"status": string(status)}, &course); err != nil {
		return nil, fmt.Errorf("client.SetCourseStatus: %w", err)
	}
	return &course, nil
}

// FeaturedCourses returns the home page selection.
func (c *Client) FeaturedCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.get(ctx, "/courses/featured", &courses); err != nil {
		return nil, fmt.Errorf("client.FeaturedCourses: %w", err)
	}
	return courses, nil
}

// SearchCourses runs a free-text catalog search.
func (c *Client) SearchCourses(ctx context.Context, query string) ([]domain.Course, error) {
	params := url.Values{}
	params.Set("q", query)

	var courses []domain.Course
	if err := c.get(ctx, "/courses/search?"+params.Encode(), &courses); err != nil {
		return nil, fmt.Errorf("client.SearchCourses: %w", err)
	}
	return courses, nil
}

// CoursesByTeacher lists a teacher's published courses.
func (c *Client) CoursesByTeacher(ctx context.Context, teacherID int64) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.get(ctx, "/teachers/"+idPath(teacherID)+"/courses", &courses); err != nil {
		return nil, fmt.Errorf("client.CoursesByTeacher: %w", err)
	}
	return courses, nil
}

// CourseReviews lists the reviews of a course.
func (c *Client) CourseReviews(ctx context.Context, courseID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.get(ctx, "/courses/"+idPath(courseID)+"/reviews", &reviews); err != nil {
		return nil, fmt.Errorf("client.CourseReviews: %w", err)
	}
	return reviews, nil
}

func idPath(id int64) string {
	return strconv.FormatInt(id, 10)
}
