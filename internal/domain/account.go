package domain

import (
	"regexp"
	"strings"
	"time"
)

// Account represents a person who can sign in to the system.
type Account struct {
	ID                 int64
	Username           string
	Email              string
	FullName           string
	PasswordHash       string
	Role               Role
	IsActive           bool
	MustChangePassword bool
	CreatedAt          time.Time
	LastLoginAt        *time.Time
}

// RequiresPasswordChange reports whether the account must set a new
// password before using the rest of the API. Set on bootstrap accounts
// and after an administrative reset.
func (a *Account) RequiresPasswordChange() bool {
	return a.MustChangePassword
}

// Username constraints.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks length and charset. The first character must
// be a letter or underscore.
func ValidateUsername(username string) *FieldError {
	if len(username) < UsernameMinLen || len(username) > UsernameMaxLen {
		return &FieldError{Field: "username", Message: "must be between 3 and 50 characters"}
	}
	if !usernameRe.MatchString(username) {
		return &FieldError{Field: "username", Message: "may contain only letters, digits and underscores, and must not start with a digit"}
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) *FieldError {
	if email == "" || len(email) > 254 || !emailRe.MatchString(email) {
		return &FieldError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}

// Password policy.
const (
	PasswordMinLen  = 8
	PasswordSymbols = "!@#$%^&*"
)

// CheckPasswordPolicy verifies the candidate password against the
// policy: minimum length, at least one lowercase letter, one uppercase
// letter, one digit, and one symbol from PasswordSymbols. Returns a
// PasswordPolicyError listing every unmet requirement.
func CheckPasswordPolicy(password string) error {
	var missing []string
	if len(password) < PasswordMinLen {
		missing = append(missing, "at least 8 characters")
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !symbol {
		missing = append(missing, "a symbol ("+PasswordSymbols+")")
	}
	if len(missing) > 0 {
		return &PasswordPolicyError{Missing: missing}
	}
	return nil
}
