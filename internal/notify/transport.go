// Package notify composes and delivers RFP invitations to vendors.
package notify

import (
	"context"
	"fmt"
	"strings"

	"rfp-pipeline/internal/common/config"
	"rfp-pipeline/internal/common/logger"
)

// Transport delivers one plain-text message to an address. A send is a
// single fallible attempt; retries are the caller's business (the dispatch
// coordinator deliberately does none).
type Transport interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewTransport builds the transport selected by config.
func NewTransport(ctx context.Context, cfg config.MailConfig, log logger.Logger) (Transport, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPTransport(cfg, log), nil
	case "ses":
		return NewSESTransport(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// ValidateAddress performs the same basic shape check the SMTP servers
// will enforce anyway, so obviously broken vendor records fail fast.
func ValidateAddress(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("empty email address")
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) == 0 || !strings.Contains(parts[1], ".") {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}
