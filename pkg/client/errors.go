package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Category is the user-facing class of a failed call.
type Category string

const (
	CategoryInvalidInput    Category = "invalid_input"
	CategoryUnauthenticated Category = "unauthenticated"
	CategoryForbidden       Category = "forbidden"
	CategoryNotFound        Category = "not_found"
	CategoryConflict        Category = "conflict"
	CategoryServer          Category = "server"
	CategoryUnknown         Category = "unknown"
)

// Default messages per category.
const (
	MsgInvalidData     = "Invalid data"
	MsgUnauthorized    = "Unauthorized. Please log in"
	MsgForbidden       = "You do not have permission to perform this action"
	MsgNotFound        = "Resource not found"
	MsgConflict        = "Conflict with the current state"
	MsgServer          = "Server error. Please try again later"
	MsgOperationFailed = "The operation failed"
)

// Resource carries the domain wording used when classifying a failure.
// Empty fields fall back to the generic messages.
type Resource struct {
	Name            string
	NotFound        string
	Conflict        string
	Unauthenticated string
}

// Resources used by the services.
var (
	ResourceAuth = Resource{
		Name:            "auth",
		Unauthenticated: "Invalid credentials",
		Conflict:        "The email is already registered",
	}
	ResourceCourse = Resource{
		Name:     "course",
		NotFound: "Course not found",
		Conflict: "A course with this title already exists",
	}
	ResourceEnrollment = Resource{
		Name:     "enrollment",
		NotFound: "Course not found",
		Conflict: "You are already enrolled in this course",
	}
	ResourceReview = Resource{
		Name:     "review",
		NotFound: "Review not found",
		Conflict: "You have already reviewed this course",
	}
	ResourceLiveClass = Resource{
		Name:     "live class",
		NotFound: "Live class not found",
	}
	ResourceUser = Resource{
		Name:     "user",
		NotFound: "User not found",
		Conflict: "The email is already registered",
	}
	ResourceMessage = Resource{
		Name:     "message",
		NotFound: "Message not found",
	}
	ResourceMedia = Resource{
		Name: "media",
	}
)

// Error is a classified failure ready for display.
type Error struct {
	Category Category
	Status   int
	Message  string
	// Fields holds per-field messages for local validation failures.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps err to a display-level *Error using the wording of res.
// A nil err yields nil. Context cancellation is returned as-is so callers
// can drop the result instead of showing it.
func Classify(err error, res Resource) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return &Error{Category: CategoryUnknown, Message: MsgOperationFailed, Err: err}
	}

	e := &Error{Status: httpErr.StatusCode, Err: err}
	switch httpErr.StatusCode {
	case http.StatusBadRequest:
		e.Category = CategoryInvalidInput
		e.Message = firstNonEmpty(httpErr.Message, MsgInvalidData)
	case http.StatusUnauthorized:
		e.Category = CategoryUnauthenticated
		e.Message = firstNonEmpty(res.Unauthenticated, MsgUnauthorized)
	case http.StatusForbidden:
		e.Category = CategoryForbidden
		e.Message = MsgForbidden
	case http.StatusNotFound:
		e.Category = CategoryNotFound
		e.Message = firstNonEmpty(res.NotFound, MsgNotFound)
	case http.StatusConflict:
		e.Category = CategoryConflict
		e.Message = firstNonEmpty(httpErr.Message, res.Conflict, MsgConflict)
	case http.StatusInternalServerError:
		e.Category = CategoryServer
		e.Message = MsgServer
	default:
		e.Category = CategoryUnknown
		e.Message = MsgOperationFailed
	}
	return e
}

// CategoryOf returns the category of a classified error, or CategoryUnknown.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryUnknown
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
