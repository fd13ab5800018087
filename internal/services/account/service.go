package account

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/KirkDiggler/aura/internal/common/clock"
	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// service implements the Service interface
type service struct {
	signupRedirectDelay time.Duration
	resetRedirectDelay  time.Duration

	timeline  timeline.Timeline
	clock     clock.Clock
	messaging messaging.Service
	backend   Backend

	renderer  surface.Renderer
	notifier  surface.Notifier
	navigator surface.Navigator

	log logrus.FieldLogger
}

// New creates a new account service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Timeline == nil {
		return nil, ErrNilTimeline
	}

	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}

	if cfg.Backend == nil {
		return nil, ErrNilBackend
	}

	if cfg.Renderer == nil {
		return nil, ErrNilRenderer
	}

	if cfg.Notifier == nil {
		return nil, ErrNilNotifier
	}

	if cfg.Navigator == nil {
		return nil, ErrNilNavigator
	}

	s := &service{
		signupRedirectDelay: cfg.SignupRedirectDelay,
		resetRedirectDelay:  cfg.ResetRedirectDelay,
		timeline:            cfg.Timeline,
		clock:               cfg.Clock,
		messaging:           cfg.Messaging,
		backend:             cfg.Backend,
		renderer:            cfg.Renderer,
		notifier:            cfg.Notifier,
		navigator:           cfg.Navigator,
		log:                 cfg.Logger,
	}

	if s.signupRedirectDelay <= 0 {
		s.signupRedirectDelay = DefaultSignupRedirectDelay
	}
	if s.resetRedirectDelay <= 0 {
		s.resetRedirectDelay = DefaultResetRedirectDelay
	}
	if s.clock == nil {
		s.clock = cfg.Timeline
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	return s, nil
}

// EvaluatePassword scores a password and checks it against its confirmation
func (s *service) EvaluatePassword(ctx context.Context, input *EvaluatePasswordInput) (*EvaluatePasswordOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	strength := PasswordStrength(input.Password)
	match := ValidatePasswordMatch(input.Password, input.Confirm)

	s.renderer.SetText(ctx, surface.ElementPasswordMeter, string(strength.Label))
	if match {
		s.renderer.SetText(ctx, surface.ElementConfirmPassword, "")
	} else {
		s.renderer.SetText(ctx, surface.ElementConfirmPassword, PasswordMismatchText)
	}

	return &EvaluatePasswordOutput{
		Strength: strength,
		Match:    match,
	}, nil
}

// SelectRole shows or hides the user-only contact fields
func (s *service) SelectRole(ctx context.Context, input *SelectRoleInput) (*SelectRoleOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	visible := UserFieldsVisible(input.Role)
	s.renderer.SetVisible(ctx, surface.ElementUserFields, visible)

	return &SelectRoleOutput{UserFieldsVisible: visible}, nil
}

// Signup validates the form and creates the account
func (s *service) Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	if err := s.validateSignup(ctx, input, role); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      fmt.Sprintf("%s %s", strings.TrimSpace(input.FirstName), strings.TrimSpace(input.LastName)),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Age:       input.Age,
		Role:      role,
	}
	if UserFieldsVisible(role) {
		contact := strings.TrimSpace(input.ContactNumber)
		emergency := strings.TrimSpace(input.EmergencyContact)
		user.ContactNumber = &contact
		user.EmergencyContact = &emergency
	}

	log := s.log.WithFields(logrus.Fields{
		"email": user.Email,
		"role":  role,
	})

	s.renderer.SetEnabled(ctx, surface.ElementSubmitButton, false)
	s.renderer.SetText(ctx, surface.ElementSubmitButton, SignupPendingText)

	if err := s.backend.CreateAccount(ctx, user); err != nil {
		log.WithError(err).Warn("account creation failed")
		s.notify(ctx, messaging.EventSignupFailed, "")
		s.renderer.SetEnabled(ctx, surface.ElementSubmitButton, true)
		s.renderer.SetText(ctx, surface.ElementSubmitButton, SignupButtonText)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	user.LoginTime = s.clock.Now()
	log.Info("account created")
	s.notify(ctx, messaging.EventSignupSucceeded, user.FirstName)

	destination := role.Dashboard()
	navCtx := context.WithoutCancel(ctx)
	s.timeline.After(s.signupRedirectDelay, func() {
		s.navigator.Navigate(navCtx, destination)
	})

	return &SignupOutput{
		User:        user,
		Destination: destination,
	}, nil
}

func (s *service) validateSignup(ctx context.Context, input *SignupInput, role models.Role) error {
	if !role.IsValid() {
		s.notify(ctx, messaging.EventMissingFields, "")
		return ErrInvalidRole
	}

	required := []string{
		input.FirstName,
		input.LastName,
		input.Email,
		input.Password,
		input.ConfirmPassword,
	}
	if UserFieldsVisible(role) {
		required = append(required, input.ContactNumber, input.EmergencyContact)
	}
	for _, field := range required {
		if isBlank(field) {
			s.notify(ctx, messaging.EventMissingFields, "")
			return ErrMissingFields
		}
	}

	if !ValidEmail(strings.TrimSpace(input.Email)) {
		s.notify(ctx, messaging.EventInvalidEmail, "")
		return ErrInvalidEmail
	}

	if input.Age <= 0 || input.Age > MaxAge {
		s.notify(ctx, messaging.EventInvalidAge, "")
		return ErrInvalidAge
	}

	if !ValidatePasswordMatch(input.Password, input.ConfirmPassword) {
		s.renderer.SetText(ctx, surface.ElementConfirmPassword, PasswordMismatchText)
		s.notify(ctx, messaging.EventPasswordMismatch, "")
		return ErrPasswordMismatch
	}

	if !input.AcceptedTerms {
		s.notify(ctx, messaging.EventTermsRequired, "")
		return ErrTermsRequired
	}

	return nil
}

// RequestPasswordReset asks the backend to send a reset link. The outcome
// shown to the user does not reveal whether the account exists.
func (s *service) RequestPasswordReset(ctx context.Context, input *RequestPasswordResetInput) (*RequestPasswordResetOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	email := strings.TrimSpace(input.Email)
	if !ValidEmail(email) {
		s.notify(ctx, messaging.EventInvalidEmail, "")
		return nil, ErrInvalidEmail
	}

	s.renderer.SetEnabled(ctx, surface.ElementSubmitButton, false)
	s.renderer.SetText(ctx, surface.ElementSubmitButton, ResetPendingText)

	if err := s.backend.SendResetLink(ctx, email); err != nil {
		s.log.WithError(err).Warn("reset link request failed")
		s.notify(ctx, messaging.EventResetFailed, "")
		s.renderer.SetEnabled(ctx, surface.ElementSubmitButton, true)
		s.renderer.SetText(ctx, surface.ElementSubmitButton, ResetButtonText)
		return nil, fmt.Errorf("failed to send reset link: %w", err)
	}

	s.notify(ctx, messaging.EventResetSent, "")
	s.renderer.SetText(ctx, surface.ElementEmailInput, "")
	s.renderer.SetText(ctx, surface.ElementSubmitButton, ResetSentText)

	navCtx := context.WithoutCancel(ctx)
	s.timeline.After(s.resetRedirectDelay, func() {
		s.navigator.Navigate(navCtx, models.DestinationLogin)
	})

	return &RequestPasswordResetOutput{Sent: true}, nil
}

func (s *service) notify(ctx context.Context, event messaging.Event, firstName string) {
	output, err := s.messaging.GetToast(ctx, &messaging.GetToastInput{
		Event:     event,
		FirstName: firstName,
	})
	if err != nil {
		s.log.WithError(err).WithField("event", event).Error("failed to build toast")
		return
	}
	s.notifier.Notify(ctx, output.Toast)
}
