// AngelaMos | 2026
// notifier.go

package notify

import (
	"context"
	"time"
)

// MessageSnapshot is the read-only view of a message handed to the notifier.
// Notification delivery never sees or mutates the persisted record.
type MessageSnapshot struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// Notifier sends transactional email. Every method returns only
// success/failure; callers treat failures as degraded outcomes, never as
// reasons to roll back persisted state.
type Notifier interface {
	NotifyAdmin(ctx context.Context, snapshot MessageSnapshot) error
	ConfirmToSender(ctx context.Context, email, name string) error
	SendReply(ctx context.Context, email, name, original, reply string) error
}
