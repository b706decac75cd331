// Package mail delivers transactional mail. The default sender simulates
// delivery by logging the message, which is how OTP codes reach developers
// in local and test environments.
package mail

import (
	"context"
	"fmt"

	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleSender logs messages instead of delivering them.
type ConsoleSender struct {
	from   string
	logger logger.Logger
}

// NewConsoleSender creates a sender that writes messages to the log.
func NewConsoleSender(from string, log logger.Logger) *ConsoleSender {
	return &ConsoleSender{from: from, logger: log}
}

func (s *ConsoleSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.WithContext(ctx).Info("mail delivered",
		logger.String("from", s.from),
		logger.String("to", to),
		logger.String("subject", subject),
		logger.String("body", body),
	)
	return nil
}

// OTPSubject is the subject line of a login code message.
const OTPSubject = "Your login code"

// OTPBody renders the body of a login code message.
func OTPBody(code string, minutes int) string {
	return fmt.Sprintf("Your one-time login code is %s. It expires in %d minutes.", code, minutes)
}
