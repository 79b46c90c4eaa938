package domain

// Message is a direct message between two users.
type Message struct {
	ID       int64  `json:"id"`
	Sender   *User  `json:"sender,omitempty"`
	Receiver *User  `json:"receiver,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Content  string `json:"content"`
	Read     bool   `json:"isRead"`
	SentAt   Time   `json:"sentAt,omitzero"`
}

// SenderName is the sender's full name, or "Unknown" when absent.
func (m Message) SenderName() string {
	if m.Sender == nil || m.Sender.FullName() == "" {
		return "Unknown"
	}
	return m.Sender.FullName()
}

// SendMessageRequest is the payload for sending a direct message.
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" validate:"required,gt=0"`
	Subject    string `json:"subject,omitempty" validate:"max=200"`
	Content    string `json:"content" validate:"required,max=5000"`
}
