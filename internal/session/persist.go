package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/educonect/educonect/internal/storage"
	"github.com/educonect/educonect/pkg/domain"
)

// Storage keys. They are always written and removed together.
const (
	KeyUser  = "educonect_auth_user"
	KeyToken = "educonect_auth_token"
)

// Persister mirrors the session into durable storage.
type Persister struct {
	kv  storage.KV
	log zerolog.Logger
	now func() time.Time
}

// NewPersister returns a Persister writing to kv.
func NewPersister(kv storage.KV, log zerolog.Logger) *Persister {
	return &Persister{kv: kv, log: log, now: time.Now}
}

// Save writes both keys when st is authenticated and removes both otherwise.
// Failures are logged; the in-memory session stays authoritative.
func (p *Persister) Save(ctx context.Context, st State) {
	if st.User == nil || st.Token == "" {
		if err := p.kv.Delete(ctx, KeyUser, KeyToken); err != nil {
			p.log.Warn().Err(err).Msg("clear persisted session")
		}
		return
	}
	data, err := json.Marshal(st.User)
	if err != nil {
		p.log.Warn().Err(err).Msg("encode session user")
		return
	}
	if err := p.kv.Set(ctx, KeyUser, string(data)); err != nil {
		p.log.Warn().Err(err).Msg("persist session user")
		return
	}
	if err := p.kv.Set(ctx, KeyToken, st.Token); err != nil {
		p.log.Warn().Err(err).Msg("persist session token")
		// A user without a token would be discarded on restore anyway.
		p.kv.Delete(ctx, KeyUser) //nolint:errcheck // best-effort rollback
	}
}

// Bind saves the store's state after every mutation. The returned func stops it.
func (p *Persister) Bind(ctx context.Context, s *Store) (cancel func()) {
	return s.Subscribe(func(st State) {
		p.Save(ctx, st)
	})
}

// Restore loads a persisted session into s. It returns true only when a
// complete, well-formed and unexpired pair was found. Anything else leaves
// s untouched and clears the stored entries.
func (p *Persister) Restore(ctx context.Context, s *Store) bool {
	rawUser, userErr := p.kv.Get(ctx, KeyUser)
	token, tokErr := p.kv.Get(ctx, KeyToken)

	missingUser := errors.Is(userErr, storage.ErrNotFound)
	missingToken := errors.Is(tokErr, storage.ErrNotFound)
	if missingUser && missingToken {
		return false
	}
	if (userErr != nil && !missingUser) || (tokErr != nil && !missingToken) {
		p.log.Warn().AnErr("user_err", userErr).AnErr("token_err", tokErr).Msg("read persisted session")
		return false
	}

	user, reason := p.validate(rawUser, token, missingUser, missingToken)
	if reason != "" {
		p.log.Info().Str("reason", reason).Msg("discarding persisted session")
		if err := p.kv.Delete(ctx, KeyUser, KeyToken); err != nil {
			p.log.Warn().Err(err).Msg("clear persisted session")
		}
		return false
	}

	s.SetUser(user, token)
	p.log.Debug().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session restored")
	return true
}

func (p *Persister) validate(rawUser, token string, missingUser, missingToken bool) (domain.User, string) {
	var user domain.User
	switch {
	case missingUser:
		return user, "token without user"
	case missingToken || token == "":
		return user, "user without token"
	}
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return user, "malformed user"
	}
	if user.ID == 0 || !domain.ValidRole(user.Role) {
		return user, "incomplete user"
	}
	if tokenExpired(token, p.now()) {
		return user, "token expired"
	}
	return user, ""
}
