// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelamos/inbox-api/internal/auth"
)

// Service is the identity store. The admin email is injected once at
// construction; role resolution happens exactly once, when the principal is
// created, and is never re-evaluated per request.
type Service struct {
	repo       Repository
	adminEmail string
}

func NewService(repo Repository, adminEmail string) *Service {
	return &Service{
		repo:       repo,
		adminEmail: strings.ToLower(adminEmail),
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	normalized := strings.ToLower(email)

	role := RoleUser
	if normalized == s.adminEmail {
		role = RoleAdmin
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        normalized,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

var _ auth.UserProvider = (*Service)(nil)
