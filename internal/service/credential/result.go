package credential

import "github.com/brewmetric/brewmetric-backend/internal/domain"

// AuthResult is returned by Authenticate.
type AuthResult struct {
	AccessToken string
	Account     domain.Account
	Session     domain.Session

	// MustChangePassword mirrors the account flag so callers can force
	// a password change before anything else.
	MustChangePassword bool
}
