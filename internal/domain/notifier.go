package domain

import "context"

// Notifier delivers a message to a user's address. Implementations are
// injected into the workflow at construction time; there is no ambient
// transport singleton.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
