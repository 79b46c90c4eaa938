package client

import (
	"context"
	"fmt"

	"github.com/educonect/educonect/pkg/domain"
)

// UnreadCount returns how many inbox messages are unread.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var n int
	if err := c.get(ctx, "/messages/unread-count", &n); err != nil {
		return 0, fmt.Errorf("client.UnreadCount: %w", err)
	}
	return n, nil
}

// SendMessage sends a direct message.
func (c *Client) SendMessage(ctx context.Context, req domain.SendMessageRequest) (*domain.Message, error) {
	var msg domain.Message
	if err := c.post(ctx, "/messages", req, &msg); err != nil {
		return nil, fmt.Errorf("client.SendMessage: %w", err)
	}
	return &msg, nil
}

// Inbox lists messages received by the caller.
func (c *Client) Inbox(ctx context.Context) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := c.get(ctx, "/messages/inbox", &msgs); err != nil {
		return nil, fmt.Errorf("client.Inbox: %w", err)
	}
	return msgs, nil
}

// MarkRead flags a message as read.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	if err := c.patch(ctx, "/messages/"+idPath(id)+"/read", nil, nil); err != nil {
		return fmt.Errorf("client.MarkRead: %w", err)
	}
	return nil
}
