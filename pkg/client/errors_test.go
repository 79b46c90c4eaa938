package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	res := Resource{Name: "course", NotFound: "Course not found", Conflict: "Duplicate course"}
	tests := []struct {
		name     string
		err      error
		res      Resource
		category Category
		message  string
	}{
		{"400 with server message", &HTTPError{400, "Title is required"}, res, CategoryInvalidInput, "Title is required"},
		{"400 without message", &HTTPError{400, ""}, res, CategoryInvalidInput, MsgInvalidData},
		{"401 generic", &HTTPError{401, "jwt expired"}, res, CategoryUnauthenticated, MsgUnauthorized},
		{"401 auth resource", &HTTPError{401, ""}, ResourceAuth, CategoryUnauthenticated, "Invalid credentials"},
		{"403", &HTTPError{403, "nope"}, res, CategoryForbidden, MsgForbidden},
		{"404 domain wording", &HTTPError{404, "whatever"}, res, CategoryNotFound, "Course not found"},
		{"404 generic", &HTTPError{404, ""}, Resource{}, CategoryNotFound, MsgNotFound},
		{"409 server message", &HTTPError{409, "Already enrolled"}, res, CategoryConflict, "Already enrolled"},
		{"409 domain wording", &HTTPError{409, ""}, res, CategoryConflict, "Duplicate course"},
		{"409 generic", &HTTPError{409, ""}, Resource{}, CategoryConflict, MsgConflict},
		{"500", &HTTPError{500, "NullPointerException"}, res, CategoryServer, MsgServer},
		{"418 is generic", &HTTPError{418, "teapot"}, res, CategoryUnknown, MsgOperationFailed},
		{"502 is generic", &HTTPError{502, "bad gateway"}, res, CategoryUnknown, MsgOperationFailed},
		{"wrapped", fmt.Errorf("client.GetCourse: %w", &HTTPError{404, ""}), res, CategoryNotFound, "Course not found"},
		{"transport", errors.New("dial tcp: connection refused"), res, CategoryUnknown, MsgOperationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.err, tt.res)
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Classify() = %T, want *Error", err)
			}
			if e.Category != tt.category {
				t.Errorf("Category = %q, want %q", e.Category, tt.category)
			}
			if e.Message != tt.message {
				t.Errorf("Message = %q, want %q", e.Message, tt.message)
			}
			if !errors.Is(err, tt.err) {
				t.Error("classified error does not wrap the original")
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if err := Classify(nil, ResourceCourse); err != nil {
		t.Errorf("Classify(nil) = %v, want nil", err)
	}
}

func TestClassify_Canceled(t *testing.T) {
	err := Classify(fmt.Errorf("client.ListCourses: %w", context.Canceled), ResourceCourse)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	var e *Error
	if errors.As(err, &e) {
		t.Error("cancellation should not be classified")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	first := Classify(&HTTPError{404, ""}, ResourceCourse)
	second := Classify(first, ResourceUser)
	if second.Error() != "Course not found" {
		t.Errorf("reclassified message = %q", second.Error())
	}
	if CategoryOf(second) != CategoryNotFound {
		t.Errorf("CategoryOf = %q", CategoryOf(second))
	}
}
