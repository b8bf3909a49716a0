package auth

import (
	errors "github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/common/validation"
)

// LoginDTO holds the login form fields.
type LoginDTO struct {
	Username string
	Password string
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(100)
	v.Field("password", d.Password).Required()
	return v.Validate()
}
