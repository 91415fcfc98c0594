package email

import "amplifyd_backend/internal/logger"

// NoopProvider logs instead of sending. Used in development and tests.
type NoopProvider struct{}

func (NoopProvider) Send(email *Email) error {
	logger.Debug("email suppressed (noop provider)", "to", email.To, "subject", email.Subject)
	return nil
}

func (NoopProvider) Validate() error { return nil }
