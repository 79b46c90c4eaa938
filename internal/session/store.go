// Package session holds the client's authentication state and the
// authorization facts derived from it.
package session

import (
	"strings"
	"sync"

	"github.com/educonect/educonect/pkg/domain"
)

// AvatarPlaceholder is prefixed to the escaped display name when the user has no avatar.
const AvatarPlaceholder = "https://ui-avatars.com/api/?name="

// State is the raw session. An empty Token means no token.
type State struct {
	User    *domain.User
	Token   string
	Loading bool
}

// Facts is the read-only view derived from a State.
type Facts struct {
	Authenticated bool
	User          *domain.User
	Token         string
	Role          domain.Role
	IsStudent     bool
	IsTeacher     bool
	IsAdmin       bool
	DisplayName   string
	AvatarURL     string
}

// IsAuthenticated lets Facts satisfy guard checks directly.
func (f Facts) IsAuthenticated() bool { return f.Authenticated }

// UserRole returns the role, empty when unauthenticated.
func (f Facts) UserRole() domain.Role { return f.Role }

// Derive computes the facts of s.
func Derive(s State) Facts {
	f := Facts{
		Authenticated: s.User != nil && s.Token != "",
		Token:         s.Token,
		AvatarURL:     avatarFor("User"),
	}
	if s.User == nil {
		return f
	}
	u := *s.User
	f.User = &u
	f.Role = u.Role
	f.IsStudent = u.Role == domain.RoleStudent
	f.IsTeacher = u.Role == domain.RoleTeacher
	f.IsAdmin = u.Role == domain.RoleAdmin
	f.DisplayName = u.FullName()
	switch {
	case u.Avatar != "":
		f.AvatarURL = u.Avatar
	case u.Name != "":
		f.AvatarURL = avatarFor(u.Name)
	}
	return f
}

func avatarFor(name string) string {
	return AvatarPlaceholder + escapeComponent(name)
}

// escapeComponent percent-encodes s byte by byte, leaving letters, digits
// and -_.!~*'() as they are.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}

// Store is the single source of truth for the session. It is safe for
// concurrent use; listeners run synchronously after every mutation, in
// mutation order.
type Store struct {
	mu    sync.RWMutex
	state State
	facts Facts

	// notify serializes listener delivery so hooks observe mutations in order.
	notify    sync.Mutex
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(State)
}

// NewStore returns an empty, unauthenticated store.
func NewStore() *Store {
	s := &Store{}
	s.facts = Derive(s.state)
	return s
}

// Subscribe registers fn to run after every mutation. The returned func removes it.
// fn may read the store but must not mutate it.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.notify.Lock()
	defer s.notify.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.notify.Lock()
		defer s.notify.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// mutate applies fn under the write lock, re-derives facts and notifies listeners.
func (s *Store) mutate(fn func(st *State) bool) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	s.facts = Derive(s.state)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	for _, l := range s.listeners {
		l.fn(snap)
	}
}

func (s *Store) snapshotLocked() State {
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// SetUser signs the session in with user and token and clears loading.
func (s *Store) SetUser(user domain.User, token string) {
	s.mutate(func(st *State) bool {
		u := user
		st.User = &u
		st.Token = token
		st.Loading = false
		return true
	})
}

// Logout resets the session to the empty state.
func (s *Store) Logout() {
	s.mutate(func(st *State) bool {
		*st = State{}
		return true
	})
}

// SetLoading toggles the loading flag without touching authentication.
func (s *Store) SetLoading(loading bool) {
	s.mutate(func(st *State) bool {
		st.Loading = loading
		return true
	})
}

// UpdateUser merges patch into the current user. No-op when there is no user.
func (s *Store) UpdateUser(patch domain.UserPatch) {
	s.mutate(func(st *State) bool {
		if st.User == nil {
			return false
		}
		u := *st.User
		patch.Apply(&u)
		st.User = &u
		return true
	})
}

// UpdateToken swaps the token and keeps the user.
func (s *Store) UpdateToken(token string) {
	s.mutate(func(st *State) bool {
		st.Token = token
		return true
	})
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Facts returns the memoized derived view.
func (s *Store) Facts() Facts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facts
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	u := s.Facts().User
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (s *Store) CurrentToken() string  { return s.Facts().Token }
func (s *Store) IsAuthenticated() bool { return s.Facts().Authenticated }
func (s *Store) Role() domain.Role     { return s.Facts().Role }
func (s *Store) UserRole() domain.Role { return s.Facts().Role }
func (s *Store) IsStudent() bool       { return s.Facts().IsStudent }
func (s *Store) IsTeacher() bool       { return s.Facts().IsTeacher }
func (s *Store) IsAdmin() bool         { return s.Facts().IsAdmin }
func (s *Store) DisplayName() string   { return s.Facts().DisplayName }
func (s *Store) AvatarURL() string     { return s.Facts().AvatarURL }

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}
