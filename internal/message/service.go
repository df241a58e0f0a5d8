// AngelaMos | 2026
// service.go

package message

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/angelamos/inbox-api/internal/notify"
)

// Service is the message lifecycle engine. Persistence is privileged over
// notification: every state change is durable before mail is attempted, and
// no mail failure ever rolls a state change back.
type Service struct {
	repo     Repository
	notifier notify.Notifier
}

func NewService(repo Repository, notifier notify.Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
	}
}

// Create persists a public submission, then fires the admin alert and sender
// confirmation. Both notifications are best-effort; the message is durably
// stored regardless of their outcome.
func (s *Service) Create(
	ctx context.Context,
	req CreateMessageRequest,
) (*Message, error) {
	req.Normalize()

	msg := &Message{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Message:   req.Message,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	snapshot := notify.MessageSnapshot{
		ID:        msg.ID,
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}

	if err := s.notifier.NotifyAdmin(ctx, snapshot); err != nil {
		slog.Error("admin notification failed",
			"message_id", msg.ID,
			"error", err,
		)
	}

	if err := s.notifier.ConfirmToSender(ctx, msg.Email, msg.SenderName()); err != nil {
		slog.Error("sender confirmation failed",
			"message_id", msg.ID,
			"error", err,
		)
	}

	return msg, nil
}

// MarkRead toggles the read flag in either direction. Soft-deleted messages
// are immutable to this operation and report NotFound.
func (s *Service) MarkRead(
	ctx context.Context,
	id string,
	read bool,
) (*Message, error) {
	return s.repo.SetRead(ctx, id, read)
}

// Reply attaches the admin's response and delivers it to the sender. The
// returned bool reports delivery: when it is false with a nil error, the
// state change persisted but the email did not go out — a degraded success,
// not a failure. Losing an authored reply over a transient mail error would
// be worse than an undelivered notification that can be resent.
func (s *Service) Reply(
	ctx context.Context,
	id, responseText string,
) (*Message, bool, error) {
	msg, err := s.repo.Reply(ctx, id, strings.TrimSpace(responseText))
	if err != nil {
		return nil, false, err
	}

	var response string
	if msg.Response != nil {
		response = *msg.Response
	}

	if err := s.notifier.SendReply(
		ctx,
		msg.Email,
		msg.SenderName(),
		msg.Message,
		response,
	); err != nil {
		slog.Error("reply delivery failed",
			"message_id", msg.ID,
			"error", err,
		)
		return msg, false, nil
	}

	return msg, true, nil
}

func (s *Service) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) HardDelete(ctx context.Context, id string) error {
	return s.repo.HardDelete(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListMessagesParams,
) ([]Message, Stats, error) {
	return s.repo.List(ctx, params)
}
