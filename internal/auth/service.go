package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       RepositoryAPI
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Authenticate verifies the credentials and builds the identity snapshot: the user's tenant,
// role names and the distinct permissions reachable through those roles.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (identity.Identity, error) {
	if err := dto.Validate(); err != nil {
		return identity.Identity{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Info("login rejected: unknown user", "username", dto.Username)
			return identity.Identity{}, ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", "username", dto.Username, "error", err)
		return identity.Identity{}, internal.ErrDatabaseUnavailable.WithCause(err)
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		s.logger.Info("login rejected: wrong password", "username", dto.Username)
		return identity.Identity{}, ErrInvalidCredentials
	}

	roles, err := s.repo.GetRoleNames(ctx, user.UserID)
	if err != nil {
		s.logger.Error("failed to load roles", "user_id", user.UserID, "error", err)
		return identity.Identity{}, internal.ErrDatabaseUnavailable.WithCause(err)
	}

	permissions, err := s.repo.GetPermissionNames(ctx, user.UserID)
	if err != nil {
		s.logger.Error("failed to load permissions", "user_id", user.UserID, "error", err)
		return identity.Identity{}, internal.ErrDatabaseUnavailable.WithCause(err)
	}

	s.logger.Info("user authenticated",
		"user_id", user.UserID,
		"tenant_id", user.TenantID,
		"roles", roles)

	return identity.New(user.UserID, user.Username, user.TenantID, user.TenantName, roles, permissions), nil
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

// MigratePasswords rehashes every stored password that is not yet a bcrypt hash.
func (s *Service) MigratePasswords(ctx context.Context) (int, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	migrated := 0
	for _, u := range users {
		if IsBcryptHash(u.PasswordHash) {
			continue
		}
		hash, err := s.HashPassword(u.PasswordHash)
		if err != nil {
			return migrated, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		if err := s.repo.UpdatePasswordHash(ctx, u.UserID, hash); err != nil {
			return migrated, fmt.Errorf("update password for %s: %w", u.Username, err)
		}
		s.logger.Info("password migrated to bcrypt", "user_id", u.UserID, "username", u.Username)
		migrated++
	}
	return migrated, nil
}

func (s *Service) SetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, user.UserID, hash)
}
