package account

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_backend.go github.com/KirkDiggler/aura/internal/services/account Backend

// Service drives the signup and password reset forms
type Service interface {
	// EvaluatePassword scores a password and checks it against its confirmation
	EvaluatePassword(ctx context.Context, input *EvaluatePasswordInput) (*EvaluatePasswordOutput, error)

	// SelectRole shows or hides the user-only contact fields
	SelectRole(ctx context.Context, input *SelectRoleInput) (*SelectRoleOutput, error)

	// Signup validates the form and creates the account
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)

	// RequestPasswordReset asks the backend to send a reset link
	RequestPasswordReset(ctx context.Context, input *RequestPasswordResetInput) (*RequestPasswordResetOutput, error)
}
