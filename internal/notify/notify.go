package notify

import (
	"context"
	"log/slog"

	"github.com/mvanek/accountd/internal/domain"
)

// Verify implementations satisfy domain.Notifier at compile time.
var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*EmailNotifier)(nil)
)

// LogNotifier writes notifications to the log instead of delivering them.
// Used in development and whenever no mail provider is configured.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("notification (log only)", "to", to, "subject", subject, "body", body)
	return nil
}
