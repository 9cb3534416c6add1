// Package domain defines the outbound email contract. Delivery is an opaque
// external service; callers treat failures as soft errors.
package domain

import (
	"context"
	"errors"
)

// Message is a single transactional email.
type Message struct {
	To      string
	Subject string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	ErrInvalidRecipient = errors.New("invalid_recipient")
	ErrSendFailed       = errors.New("mail_send_failed")
)
