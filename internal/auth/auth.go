package auth

import (
	"context"
	"errors"
	"strings"

	userDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/user"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"golang.org/x/crypto/bcrypt"
)

// Permission names as stored in the Permissions table.
const (
	PermReadItem   = "Read_Item"
	PermCreateItem = "Create_Item"
	PermUpdateItem = "Update_Item"
	PermDeleteItem = "Delete_Item"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type RepositoryAPI interface {
	GetUserByUsername(ctx context.Context, username string) (*userDatamodel.UserWithTenant, error)
	GetRoleNames(ctx context.Context, userID int64) ([]string, error)
	GetPermissionNames(ctx context.Context, userID int64) ([]string, error)
	ListUsers(ctx context.Context) ([]userDatamodel.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (identity.Identity, error)
	HashPassword(password string) (string, error)
	MigratePasswords(ctx context.Context) (int, error)
	SetPassword(ctx context.Context, username, password string) error
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsBcryptHash reports whether a stored value already is a bcrypt hash rather than a legacy plaintext password.
func IsBcryptHash(value string) bool {
	if !strings.HasPrefix(value, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}
