package account

// AccountError is a custom error type for account-related errors
type AccountError string

// Error implements the error interface
func (e AccountError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrMissingFields    AccountError = "required fields are missing"
	ErrInvalidEmail     AccountError = "invalid email address"
	ErrInvalidAge       AccountError = "invalid age"
	ErrPasswordMismatch AccountError = "passwords do not match"
	ErrTermsRequired    AccountError = "terms must be accepted"
	ErrInvalidRole      AccountError = "invalid role"
	ErrNilInput         AccountError = "input cannot be nil"
	ErrNilConfig        AccountError = "config cannot be nil"
	ErrNilTimeline      AccountError = "timeline cannot be nil"
	ErrNilMessaging     AccountError = "messaging service cannot be nil"
	ErrNilBackend       AccountError = "backend cannot be nil"
	ErrNilRenderer      AccountError = "renderer cannot be nil"
	ErrNilNotifier      AccountError = "notifier cannot be nil"
	ErrNilNavigator     AccountError = "navigator cannot be nil"
)
