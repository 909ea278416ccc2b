package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetRoles(ctx context.Context, userID int64) ([]string, error)
	Create(ctx context.Context, u *User) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	roles, err := s.repo.GetRoles(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	u.Roles = roles
	return u, nil
}

// Create registers a user; only System Managers may call it, except when
// actor is nil (seeding).
func (s *Service) Create(ctx context.Context, actor *coreUser.Actor, dto CreateUserDTO) (*User, error) {
	if actor != nil && !actor.IsPrivileged() {
		return nil, ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(dto.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roles := dto.Roles
	if len(roles) == 0 {
		roles = []string{coreUser.RoleEmployee}
	}
	u := &User{
		Email:        email,
		FullName:     dto.FullName,
		Employee:     dto.Employee,
		PasswordHash: string(hash),
		IsActive:     true,
		Roles:        roles,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, err
	}

	s.logger.Info("user created", "email", email, "roles", roles)
	return u, nil
}
