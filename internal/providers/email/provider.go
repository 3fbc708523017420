package email

import "context"

// Provider is the fire-and-forget notification collaborator. Send failures
// are logged by callers, never propagated into business logic.
type Provider interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}
