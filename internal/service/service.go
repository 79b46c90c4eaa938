// Package service wraps the API client with per-domain caches, loading
// state and error classification.
package service

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/educonect/educonect/internal/session"
	"github.com/educonect/educonect/internal/validator"
	"github.com/educonect/educonect/pkg/client"
)

// ErrStale is returned by list loads that were overtaken by a newer load of
// the same list. Their result is dropped and should not be shown.
var ErrStale = errors.New("service: superseded by a newer load")

// Deps are the collaborators shared by every service.
type Deps struct {
	API       *client.Client
	Session   *session.Store
	Validator *validator.Validator
	Log       zerolog.Logger
}

// Services bundles one instance of each domain service.
type Services struct {
	Auth     *AuthService
	Courses  *CourseService
	Student  *StudentService
	Teacher  *TeacherService
	Admin    *AdminService
	Messages *MessageService
	Media    *MediaService
}

// New builds every service over deps.
func New(deps Deps) *Services {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &Services{
		Auth:     NewAuthService(deps),
		Courses:  NewCourseService(deps),
		Student:  NewStudentService(deps),
		Teacher:  NewTeacherService(deps),
		Admin:    NewAdminService(deps),
		Messages: NewMessageService(deps),
		Media:    NewMediaService(deps),
	}
}

// ClearAll drops every cached slice, e.g. after logout.
func (s *Services) ClearAll() {
	s.Courses.Clear()
	s.Student.Clear()
	s.Teacher.Clear()
	s.Admin.Clear()
	s.Messages.Clear()
}

// base carries the shared plumbing of a service.
type base struct {
	api      *client.Client
	sess     *session.Store
	val      *validator.Validator
	log      zerolog.Logger
	inflight atomic.Int32
}

func (b *base) init(deps Deps, name string) {
	b.api = deps.API
	b.sess = deps.Session
	b.val = deps.Validator
	if b.val == nil {
		b.val = validator.New()
	}
	b.log = deps.Log.With().Str("service", name).Logger()
}

// begin marks a call in flight. The returned func must run in every outcome.
func (b *base) begin() func() {
	b.inflight.Add(1)
	return func() { b.inflight.Add(-1) }
}

// IsLoading reports whether any call of this service is in flight.
func (b *base) IsLoading() bool {
	return b.inflight.Load() > 0
}

// fail classifies err for display. A 401 on an authenticated session ends it.
func (b *base) fail(op string, err error, res client.Resource) error {
	if errors.Is(err, context.Canceled) {
		b.log.Debug().Str("op", op).Msg("call cancelled")
		return err
	}
	if client.IsStatus(err, http.StatusUnauthorized) && b.sess != nil && b.sess.IsAuthenticated() {
		b.log.Info().Str("op", op).Msg("token rejected, ending session")
		b.sess.Logout()
	}
	return b.classify(op, err, res)
}

// classify is fail without the session side effect, for calls that do not
// present the session token as their credential.
func (b *base) classify(op string, err error, res client.Resource) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	classified := client.Classify(err, res)
	b.log.Warn().
		Str("op", op).
		Str("category", string(client.CategoryOf(classified))).
		Err(err).
		Msg("call failed")
	return classified
}

// failLoad is fail for a sequenced list load. A load overtaken by a newer
// one is stale whatever its outcome, so its error is neither shown nor
// allowed to end the session.
func (b *base) failLoad(op string, err error, res client.Resource, s *seq, ticket uint64) error {
	if !errors.Is(err, context.Canceled) && !s.current(ticket) {
		b.log.Debug().Str("op", op).Err(err).Msg("overtaken load failed")
		return ErrStale
	}
	return b.fail(op, err, res)
}

// check validates a payload before it is sent.
func (b *base) check(op string, payload any) error {
	if err := b.val.Check(payload); err != nil {
		b.log.Debug().Str("op", op).Err(err).Msg("payload rejected")
		return err
	}
	return nil
}

// seq orders loads of one list so only the newest result is kept.
type seq struct {
	n atomic.Uint64
}

func (s *seq) next() uint64 {
	return s.n.Add(1)
}

func (s *seq) current(ticket uint64) bool {
	return s.n.Load() == ticket
}

// settle decides whether a finished load may be applied: the caller's
// context must be live and no newer load of the list may have started.
func settle(ctx context.Context, s *seq, ticket uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.current(ticket) {
		return ErrStale
	}
	return nil
}

func replaceByID[T any](items []T, id int64, idOf func(T) int64, v T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if idOf(it) == id {
			out[i] = v
		} else {
			out[i] = it
		}
	}
	return out
}

func removeByID[T any](items []T, id int64, idOf func(T) int64) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
