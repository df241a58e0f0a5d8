// AngelaMos | 2026
// noop.go

package notify

import (
	"context"
	"log/slog"
)

// NoopNotifier logs instead of sending. Used when mail is disabled so the
// lifecycle engine keeps its notification hooks in development.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) NotifyAdmin(
	ctx context.Context,
	snapshot MessageSnapshot,
) error {
	slog.Info("mail disabled, skipping admin notification",
		"message_id", snapshot.ID,
	)
	return nil
}

func (n *NoopNotifier) ConfirmToSender(
	ctx context.Context,
	email, name string,
) error {
	slog.Info("mail disabled, skipping sender confirmation", "email", email)
	return nil
}

func (n *NoopNotifier) SendReply(
	ctx context.Context,
	email, name, original, reply string,
) error {
	slog.Info("mail disabled, skipping reply delivery", "email", email)
	return nil
}

var _ Notifier = (*NoopNotifier)(nil)
