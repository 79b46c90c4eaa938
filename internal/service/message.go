package service

import (
	"context"
	"sync"

	"github.com/educonect/educonect/pkg/client"
	"github.com/educonect/educonect/pkg/domain"
)

// MessageService sends and reads direct messages and tracks the unread badge.
type MessageService struct {
	base

	mu     sync.RWMutex
	unread int
	inbox  []domain.Message

	inboxSeq seq
}

func NewMessageService(deps Deps) *MessageService {
	s := &MessageService{}
	s.init(deps, "messages")
	return s
}

// Unread is the cached unread count.
func (s *MessageService) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// CachedInbox returns the cached inbox.
func (s *MessageService) CachedInbox() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.inbox)
}

// RefreshUnreadCount reloads the badge. Any failure resets it to zero.
func (s *MessageService) RefreshUnreadCount(ctx context.Context) (int, error) {
	done := s.begin()
	defer done()

	n, err := s.api.UnreadCount(ctx)
	if err != nil {
		s.setUnread(0)
		return 0, s.fail("RefreshUnreadCount", err, client.ResourceMessage)
	}
	if n < 0 {
		n = 0
	}
	s.setUnread(n)
	return n, nil
}

func (s *MessageService) setUnread(n int) {
	s.mu.Lock()
	s.unread = n
	s.mu.Unlock()
}

// Send delivers a message.
func (s *MessageService) Send(ctx context.Context, req domain.SendMessageRequest) (*domain.Message, error) {
	if err := s.check("Send", req); err != nil {
		return nil, err
	}
	done := s.begin()
	defer done()

	m, err := s.api.SendMessage(ctx, req)
	if err != nil {
		return nil, s.fail("Send", err, client.ResourceMessage)
	}
	return m, nil
}

// Inbox loads received messages into the cache.
func (s *MessageService) Inbox(ctx context.Context) ([]domain.Message, error) {
	ticket := s.inboxSeq.next()
	done := s.begin()
	defer done()

	msgs, err := s.api.Inbox(ctx)
	if err != nil {
		return nil, s.failLoad("Inbox", err, client.ResourceMessage, &s.inboxSeq, ticket)
	}
	if err := settle(ctx, &s.inboxSeq, ticket); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.inbox = clone(msgs)
	s.mu.Unlock()
	return msgs, nil
}

// MarkRead flags a message read and decrements the badge, never below zero.
func (s *MessageService) MarkRead(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()

	if err := s.api.MarkRead(ctx, id); err != nil {
		return s.fail("MarkRead", err, client.ResourceMessage)
	}
	s.mu.Lock()
	if s.unread > 0 {
		s.unread--
	}
	for i := range s.inbox {
		if s.inbox[i].ID == id {
			s.inbox[i].Read = true
		}
	}
	s.mu.Unlock()
	return nil
}

// Clear resets the badge and the inbox.
func (s *MessageService) Clear() {
	s.mu.Lock()
	s.unread = 0
	s.inbox = nil
	s.mu.Unlock()
}
