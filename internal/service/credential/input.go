package credential

import (
	"strings"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// CreateAccountInput holds parameters for account creation.
type CreateAccountInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     domain.Role
}

// Validate validates the create account input. Password policy is
// checked separately so the caller can surface ErrWeakPassword.
func (i *CreateAccountInput) Validate() error {
	i.Username = strings.TrimSpace(i.Username)
	i.Email = strings.TrimSpace(i.Email)
	i.FullName = strings.TrimSpace(i.FullName)

	var errs []domain.FieldError

	if fe := domain.ValidateUsername(i.Username); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := domain.ValidateEmail(i.Email); fe != nil {
		errs = append(errs, *fe)
	}
	if len(i.FullName) > 100 {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "must be at most 100 characters"})
	}
	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be ADMIN or STAFF"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginInput holds parameters for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Validate validates the login input.
func (i *LoginInput) Validate() error {
	i.Username = strings.TrimSpace(i.Username)

	var errs []domain.FieldError

	if i.Username == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ChangePasswordInput holds parameters for a password change.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// Validate validates the change password input.
func (i *ChangePasswordInput) Validate() error {
	var errs []domain.FieldError

	if i.CurrentPassword == "" {
		errs = append(errs, domain.FieldError{Field: "current_password", Message: "required"})
	}
	if i.NewPassword == "" {
		errs = append(errs, domain.FieldError{Field: "new_password", Message: "required"})
	} else if i.NewPassword == i.CurrentPassword {
		errs = append(errs, domain.FieldError{Field: "new_password", Message: "must differ from the current password"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
