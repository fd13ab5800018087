package account

import (
	"time"

	"github.com/KirkDiggler/aura/internal/common/clock"
	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSignupRedirectDelay = 1500 * time.Millisecond
	DefaultResetRedirectDelay  = 3 * time.Second

	// Simulated API latency
	DefaultSignupLatency = 2 * time.Second
	DefaultResetLatency  = 1500 * time.Millisecond

	// Submit button labels
	SignupButtonText  = "Create Account"
	SignupPendingText = "Creating Account..."
	ResetButtonText   = "Send Reset Link"
	ResetPendingText  = "Sending Link..."
	ResetSentText     = "Sent!"

	PasswordMismatchText = "Passwords do not match"

	MaxAge = 120
)

// Config holds configuration for the account service
type Config struct {
	// SignupRedirectDelay is the pause between a successful signup and the dashboard
	SignupRedirectDelay time.Duration

	// ResetRedirectDelay is the pause between a sent reset link and the login page
	ResetRedirectDelay time.Duration

	Timeline  timeline.Timeline
	Clock     clock.Clock
	Messaging messaging.Service
	Backend   Backend

	Renderer  surface.Renderer
	Notifier  surface.Notifier
	Navigator surface.Navigator

	Logger logrus.FieldLogger
}

// EvaluatePasswordInput contains the password fields as typed
type EvaluatePasswordInput struct {
	Password string
	Confirm  string
}

// EvaluatePasswordOutput contains the live feedback for the password fields
type EvaluatePasswordOutput struct {
	Strength Strength

	// Match is false only when a non-empty confirmation differs
	Match bool
}

// SelectRoleInput contains the chosen role
type SelectRoleInput struct {
	Role models.Role
}

// SelectRoleOutput contains the resulting form layout
type SelectRoleOutput struct {
	UserFieldsVisible bool
}

// SignupInput contains the signup form
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Age             int
	Password        string
	ConfirmPassword string

	// Role defaults to models.RoleUser
	Role models.Role

	AcceptedTerms bool

	// Only collected for models.RoleUser
	ContactNumber    string
	EmergencyContact string
}

// SignupOutput contains the created account
type SignupOutput struct {
	User *models.User

	// Destination is where the user is sent once the redirect delay passes
	Destination models.Destination
}

// RequestPasswordResetInput contains the reset form
type RequestPasswordResetInput struct {
	Email string
}

// RequestPasswordResetOutput contains the result of a reset request
type RequestPasswordResetOutput struct {
	Sent bool
}
