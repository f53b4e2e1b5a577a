// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrTransferNotFound      = errors.New("transfer not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrInvalidInput          = errors.New("invalid input provided")
	ErrInvalidTransition     = errors.New("invalid transfer status transition")
	ErrNotAdmin              = errors.New("acting user is not an admin")
	ErrDebtThresholdExceeded = errors.New("debt threshold exceeded")
	ErrInsufficientFloat     = errors.New("insufficient main balance")
	ErrSettingsConflict      = errors.New("settings were modified concurrently")
)

// IsError reports whether err wraps target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
