package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/educonect/educonect/pkg/domain"
)

// Users lists every account.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, fmt.Errorf("client.Users: %w", err)
	}
	return users, nil
}

// CreateUser creates an account of any role.
func (c *Client) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/admin/users", req, &u); err != nil {
		return nil, fmt.Errorf("client.CreateUser: %w", err)
	}
	return &u, nil
}

// UpdateUser patches another account.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	var u domain.User
	if err := c.patch(ctx, "/admin/users/"+idPath(id), patch, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateUser: %w", err)
	}
	return &u, nil
}

// SetUserActive activates or deactivates an account.
func (c *Client) SetUserActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	var u domain.User
	if err := c.patch(ctx, "/admin/users/"+idPath(id)+"/status", map[string]bool{"active": active}, &u); err != nil {
		return nil, fmt.Errorf("client.SetUserActive: %w", err)
	}
	return &u, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.delete(ctx, "/admin/users/"+idPath(id)); err != nil {
		return fmt.Errorf("client.DeleteUser: %w", err)
	}
	return nil
}

// PendingCourses lists courses awaiting moderation.
func (c *Client) PendingCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.get(ctx, "/admin/courses/pending", &courses); err != nil {
		return nil, fmt.Errorf("client.PendingCourses: %w", err)
	}
	return courses, nil
}

// ApproveCourse publishes a pending course.
func (c *Client) ApproveCourse(ctx context.Context, id int64) (*domain.Course, error) {
	var course domain.Course
	if err := c.patch(ctx, "/admin/courses/"+idPath(id)+"/approve", struct{}{}, &course); err != nil {
		return nil, fmt.Errorf("client.ApproveCourse: %w", err)
	}
	return &course, nil
}

// RejectCourse rejects a pending course. An empty reason is not sent.
func (c *Client) RejectCourse(ctx context.Context, id int64, reason string) (*domain.Course, error) {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	var course domain.Course
	if err := c.patch(ctx, "/admin/courses/"+idPath(id)+"/reject", body, &course); err != nil {
		return nil, fmt.Errorf("client.RejectCourse: %w", err)
	}
	return &course, nil
}

// AdminStats returns the platform overview.
func (c *Client) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := c.get(ctx, "/admin/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.AdminStats: %w", err)
	}
	return &stats, nil
}

// RevenueReport returns revenue between two YYYY-MM-DD dates. Empty bounds are omitted.
func (c *Client) RevenueReport(ctx context.Context, startDate, endDate string) (*domain.RevenueReport, error) {
	params := url.Values{}
	if startDate != "" {
		params.Set("startDate", startDate)
	}
	if endDate != "" {
		params.Set("endDate", endDate)
	}
	path := "/admin/reports/revenue"
	if q := params.Encode(); q != "" {
		path += "?" + q
	}
	var report domain.RevenueReport
	if err := c.get(ctx, path, &report); err != nil {
		return nil, fmt.Errorf("client.RevenueReport: %w", err)
	}
	return &report, nil
}
