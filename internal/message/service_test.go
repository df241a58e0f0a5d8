// AngelaMos | 2026
// service_test.go

package message

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/inbox-api/internal/core"
	"github.com/angelamos/inbox-api/internal/notify"
)

type fakeRepository struct {
	messages map[string]*Message

	createErr error
	replyErr  error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{messages: map[string]*Message{}}
}

func (f *fakeRepository) Create(_ context.Context, msg *Message) error {
	if f.createErr != nil {
		return f.createErr
	}

	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	stored := *msg
	f.messages[msg.ID] = &stored
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*Message, error) {
	msg, ok := f.messages[id]
	if !ok || msg.IsDeleted() {
		return nil, core.ErrNotFound
	}
	copied := *msg
	return &copied, nil
}

func (f *fakeRepository) SetRead(
	_ context.Context,
	id string,
	read bool,
) (*Message, error) {
	msg, ok := f.messages[id]
	if !ok || msg.IsDeleted() {
		return nil, core.ErrNotFound
	}

	msg.IsRead = read
	msg.UpdatedAt = time.Now()

	copied := *msg
	return &copied, nil
}

func (f *fakeRepository) Reply(
	_ context.Context,
	id, response string,
) (*Message, error) {
	if f.replyErr != nil {
		return nil, f.replyErr
	}

	msg, ok := f.messages[id]
	if !ok || msg.IsDeleted() {
		return nil, core.ErrNotFound
	}

	now := time.Now()
	msg.Response = &response
	msg.IsReplied = true
	msg.IsRead = true
	msg.RepliedAt = &now
	msg.UpdatedAt = now

	copied := *msg
	return &copied, nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, id string) error {
	msg, ok := f.messages[id]
	if !ok {
		return core.ErrNotFound
	}
	if msg.DeletedAt == nil {
		now := time.Now()
		msg.DeletedAt = &now
	}
	return nil
}

func (f *fakeRepository) HardDelete(_ context.Context, id string) error {
	if _, ok := f.messages[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.messages, id)
	return nil
}

func (f *fakeRepository) List(
	_ context.Context,
	_ ListMessagesParams,
) ([]Message, Stats, error) {
	var out []Message
	for _, msg := range f.messages {
		if !msg.IsDeleted() {
			out = append(out, *msg)
		}
	}
	return out, Stats{Total: len(out)}, nil
}

type fakeNotifier struct {
	adminCalls   int
	confirmCalls int
	replyCalls   int

	lastReplyEmail string
	lastReplyBody  string

	err error
}

func (f *fakeNotifier) NotifyAdmin(
	_ context.Context,
	_ notify.MessageSnapshot,
) error {
	f.adminCalls++
	return f.err
}

func (f *fakeNotifier) ConfirmToSender(
	_ context.Context,
	_, _ string,
) error {
	f.confirmCalls++
	return f.err
}

func (f *fakeNotifier) SendReply(
	_ context.Context,
	email, _, _, reply string,
) error {
	f.replyCalls++
	f.lastReplyEmail = email
	f.lastReplyBody = reply
	return f.err
}

func TestService_Create_NormalizesAndNotifies(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	msg, err := svc.Create(context.Background(), CreateMessageRequest{
		FirstName: "  Alice ",
		LastName:  "Smith",
		Email:     " Alice@Example.COM ",
		Message:   "  hello there  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", msg.FirstName)
	assert.Equal(t, "alice@example.com", msg.Email)
	assert.Equal(t, "hello there", msg.Message)
	assert.False(t, msg.IsRead)
	assert.False(t, msg.IsReplied)
	assert.NotEmpty(t, msg.ID)

	assert.Equal(t, 1, notifier.adminCalls)
	assert.Equal(t, 1, notifier.confirmCalls)
}

func TestService_Create_SurvivesNotificationFailure(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	svc := NewService(repo, notifier)

	msg, err := svc.Create(context.Background(), CreateMessageRequest{
		Email:   "bob@example.com",
		Message: "please call me back",
	})
	require.NoError(t, err)

	// Message persisted even though both notifications failed.
	stored, err := repo.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", stored.Email)
}

func TestService_Create_PropagatesStoreFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = errors.New("connection refused")
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	_, err := svc.Create(context.Background(), CreateMessageRequest{
		Email:   "bob@example.com",
		Message: "please call me back",
	})
	require.Error(t, err)

	// No mail goes out for a message that was never stored.
	assert.Zero(t, notifier.adminCalls)
	assert.Zero(t, notifier.confirmCalls)
}

func TestService_Reply_DeliveredSuccess(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	msg, err := svc.Create(context.Background(), CreateMessageRequest{
		Email:   "carol@example.com",
		Message: "what are your hours?",
	})
	require.NoError(t, err)

	replied, notified, err := svc.Reply(
		context.Background(),
		msg.ID,
		"  we are open 9-5  ",
	)
	require.NoError(t, err)
	assert.True(t, notified)

	assert.True(t, replied.IsReplied)
	assert.True(t, replied.IsRead)
	require.NotNil(t, replied.Response)
	assert.Equal(t, "we are open 9-5", *replied.Response)
	assert.NotNil(t, replied.RepliedAt)

	assert.Equal(t, "carol@example.com", notifier.lastReplyEmail)
	assert.Equal(t, "we are open 9-5", notifier.lastReplyBody)
}

func TestService_Reply_DegradedOnMailFailure(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	msg, err := svc.Create(context.Background(), CreateMessageRequest{
		Email:   "carol@example.com",
		Message: "what are your hours?",
	})
	require.NoError(t, err)

	notifier.err = errors.New("smtp down")

	replied, notified, err := svc.Reply(
		context.Background(),
		msg.ID,
		"we are open 9-5",
	)
	require.NoError(t, err)
	assert.False(t, notified)

	// The reply persisted despite the failed delivery.
	assert.True(t, replied.IsReplied)
	stored, err := repo.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsReplied)
}

func TestService_Reply_NotFound(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	repo.replyErr = core.ErrNotFound

	_, notified, err := svc.Reply(context.Background(), "missing-id", "hi")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.False(t, notified)
	assert.Zero(t, notifier.replyCalls)
}

func TestService_MarkRead_Toggle(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeNotifier{})

	msg, err := svc.Create(context.Background(), CreateMessageRequest{
		Email:   "dave@example.com",
		Message: "quick question",
	})
	require.NoError(t, err)

	updated, err := svc.MarkRead(context.Background(), msg.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsRead)

	// Unread is a legal transition in both directions.
	updated, err = svc.MarkRead(context.Background(), msg.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsRead)
}

func TestService_SoftDelete_IsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeNotifier{})

	msg, err := svc.Create(context.Background(), CreateMessageRequest{
		Email:   "erin@example.com",
		Message: "remove my data please",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), msg.ID))
	require.NoError(t, svc.SoftDelete(context.Background(), msg.ID))

	// Soft-deleted messages are invisible to reads and mutations.
	_, err = svc.MarkRead(context.Background(), msg.ID, true)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_HardDelete(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeNotifier{})

	msg, err := svc.Create(context.Background(), CreateMessageRequest{
		Email:   "frank@example.com",
		Message: "spam spam spam",
	})
	require.NoError(t, err)

	require.NoError(t, svc.HardDelete(context.Background(), msg.ID))

	err = svc.HardDelete(context.Background(), msg.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
