package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/KirkDiggler/aura/internal/models"
)

var (
	ErrUnknownEvent  = errors.New("unknown event")
	ErrUnknownPhase  = errors.New("unknown phase")
	ErrUnknownPrompt = errors.New("unknown prompt")
)

var toasts = map[Event]models.Toast{
	EventNotStarted:       {Level: models.ToastError, Text: "Host will join soon. Please wait."},
	EventHostJoined:       {Level: models.ToastSuccess, Text: "Host joined the meeting"},
	EventMicMuted:         {Level: models.ToastInfo, Text: "Microphone muted"},
	EventMicUnmuted:       {Level: models.ToastInfo, Text: "Microphone unmuted"},
	EventCameraOff:        {Level: models.ToastInfo, Text: "Camera off"},
	EventCameraOn:         {Level: models.ToastInfo, Text: "Camera on"},
	EventMeetingEnded:     {Level: models.ToastSuccess, Text: "Meeting ended"},
	EventAlreadyStarted:   {Level: models.ToastError, Text: "Meeting already started"},
	EventConnectionFailed: {Level: models.ToastError, Text: "Could not reach the host. Tap retry to try again."},
	EventSessionEnded:     {Level: models.ToastError, Text: "This meeting has ended."},
	EventPasswordMismatch: {Level: models.ToastError, Text: "Passwords do not match."},
	EventInvalidEmail:     {Level: models.ToastError, Text: "Please enter a valid email address."},
	EventMissingFields:    {Level: models.ToastError, Text: "Please fill in all required fields."},
	EventTermsRequired:    {Level: models.ToastError, Text: "Please accept the terms to continue."},
	EventInvalidAge:       {Level: models.ToastError, Text: "Please enter a valid age."},
	EventResetSent:        {Level: models.ToastSuccess, Text: "If an account exists, a reset link has been sent."},
	EventResetFailed:      {Level: models.ToastError, Text: "Failed to send reset link. Please try again."},
	EventSignupFailed:     {Level: models.ToastError, Text: "Account creation failed. Please try again."},
}

var statusLabels = map[models.Phase]string{
	models.PhaseWaiting:    "Waiting for host",
	models.PhaseConnecting: "Connecting...",
	models.PhaseConnected:  "Connected",
	models.PhaseSpeaking:   "Speaking...",
	models.PhaseFailed:     "Connection lost",
	models.PhaseEnded:      "Meeting ended",
}

var greetings = map[MessageTone][]string{
	ToneWarm: {
		"Hello! Thanks for joining on time 😊",
		"Hi there, it's good to see you. How has your week been?",
		"Welcome! Make yourself comfortable, we can start whenever you're ready.",
	},
	ToneNeutral: {
		"Hello, thanks for joining.",
		"Hi, I'm here. Let me know when you're ready to begin.",
	},
	ToneEncouraging: {
		"Hello! Showing up is the hardest part, and you did it.",
		"Hi! Really glad you made time for this today.",
	},
}

// Greetings returns the greeting templates for a tone
func Greetings(tone MessageTone) []string {
	return greetings[tone]
}

// service implements the Service interface
type service struct {
	// Random number generator for selecting greetings
	rand *rand.Rand
}

// New creates a new messaging service
func New(cfg *Config) (Service, error) {
	seed := time.Now().UnixNano()
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// GetToast returns the notification for an event
func (s *service) GetToast(ctx context.Context, input *GetToastInput) (*GetToastOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Event == EventSignupSucceeded {
		text := "Account created successfully!"
		if input.FirstName != "" {
			text = fmt.Sprintf("Account created successfully! Welcome, %s!", input.FirstName)
		}
		return &GetToastOutput{
			Toast: &models.Toast{Level: models.ToastSuccess, Text: text},
		}, nil
	}

	toast, ok := toasts[input.Event]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, input.Event)
	}

	return &GetToastOutput{
		Toast: &toast,
	}, nil
}

// GetStatusLabel returns the status line shown for a session phase
func (s *service) GetStatusLabel(ctx context.Context, input *GetStatusLabelInput) (*GetStatusLabelOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	label, ok := statusLabels[input.Phase]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhase, input.Phase)
	}

	return &GetStatusLabelOutput{
		Label: label,
	}, nil
}

// GetGreeting returns the scripted first message from the host
func (s *service) GetGreeting(ctx context.Context, input *GetGreetingInput) (*GetGreetingOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	// Set default tone if not specified
	tone := input.PreferredTone
	if tone == "" {
		tone = ToneWarm
	}

	messages, ok := greetings[tone]
	if !ok {
		tone = ToneWarm
		messages = greetings[tone]
	}

	// Select a random message
	selectedMessage := messages[s.rand.Intn(len(messages))]

	return &GetGreetingOutput{
		Message: selectedMessage,
		Tone:    tone,
	}, nil
}

// GetConfirmPrompt returns the question asked before a destructive action
func (s *service) GetConfirmPrompt(ctx context.Context, input *GetConfirmPromptInput) (*GetConfirmPromptOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	switch input.Prompt {
	case PromptLeaveMeeting:
		return &GetConfirmPromptOutput{Text: "Leave this meeting?"}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrompt, input.Prompt)
	}
}
