// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/inbox-api/internal/core"
)

type fakeRepository struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    map[string]*User{},
		byEmail: map[string]*User{},
	}
}

func (f *fakeRepository) Create(_ context.Context, user *User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return core.ErrDuplicateKey
	}

	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*User, error) {
	user, ok := f.byID[id]
	if !ok || user.IsDeleted() {
		return nil, core.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepository) GetByEmail(
	_ context.Context,
	email string,
) (*User, error) {
	user, ok := f.byEmail[email]
	if !ok || user.IsDeleted() {
		return nil, core.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func TestService_Create_AdminRoleFromConfiguredEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "Owner@Example.com")

	admin, err := svc.Create(
		context.Background(),
		"OWNER@example.COM",
		"hash",
		"Owner",
	)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.Equal(t, "owner@example.com", admin.Email)

	regular, err := svc.Create(
		context.Background(),
		"someone@example.com",
		"hash",
		"Someone",
	)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, regular.Role)
}

func TestService_Create_Duplicate(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "owner@example.com")

	_, err := svc.Create(context.Background(), "a@example.com", "hash", "A")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "A@Example.com", "hash", "A")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestService_GetByEmail_NormalizesCase(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "owner@example.com")

	created, err := svc.Create(
		context.Background(),
		"Mixed@Example.com",
		"hash",
		"Mixed",
	)
	require.NoError(t, err)

	found, err := svc.GetByEmail(context.Background(), "MIXED@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
