package checks

import (
	"context"
	"log/slog"
	"net/http"

	"ozzus/domain-scout/internal/domain"
)

// Checker decides whether a single candidate is registered. Implementations
// must not touch shared state and must always return a result.
type Checker interface {
	Check(ctx context.Context, candidate string) domain.CheckResult
}

type Option func(*RDAPChecker)

// WithHTTPClient replaces the client built from RDAPConfig.
func WithHTTPClient(client *http.Client) Option {
	return func(c *RDAPChecker) {
		if client != nil {
			c.client = client
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *RDAPChecker) {
		if log != nil {
			c.log = log
		}
	}
}
