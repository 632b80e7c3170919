package models

import (
	"fmt"
	"strings"
	"time"
)

// ChatKind tags the channel a question arrived on.
type ChatKind string

const (
	KindText  ChatKind = "text"
	KindAudio ChatKind = "audio"
)

// ParseChatKind maps the optional request "type" to a kind; empty means text.
func ParseChatKind(s string) (ChatKind, error) {
	switch ChatKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindText:
		return KindText, nil
	case KindAudio:
		return KindAudio, nil
	default:
		return "", fmt.Errorf("%w: type must be text or audio", ErrValidation)
	}
}

// Chat is one persisted question/answer exchange.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Kind      ChatKind  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Chat) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if strings.TrimSpace(c.Question) == "" {
		return fmt.Errorf("%w: question is required", ErrValidation)
	}
	if c.Answer == "" {
		return fmt.Errorf("%w: answer is required", ErrValidation)
	}
	if c.Kind != KindText && c.Kind != KindAudio {
		return fmt.Errorf("%w: type must be text or audio", ErrValidation)
	}
	return nil
}
