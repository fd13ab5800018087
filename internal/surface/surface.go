// Package surface defines the collaborators through which services reach
// the user: a rendering surface, a toast notifier, a yes/no confirmation
// prompt and page navigation.
package surface

import (
	"context"

	"github.com/KirkDiggler/aura/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_surface.go github.com/KirkDiggler/aura/internal/surface Renderer,Notifier,Confirmer,Navigator

// Element names a display slot on a surface
type Element string

const (
	// Meeting room
	ElementCounselorName      Element = "counselor-name"
	ElementCounselorInitials  Element = "counselor-initials"
	ElementStatus             Element = "counselor-status"
	ElementSessionTime        Element = "session-time-text"
	ElementWaitingOverlay     Element = "waiting-overlay"
	ElementCountdown          Element = "countdown-timer"
	ElementMeetingTimer       Element = "meeting-timer"
	ElementAudioPulse         Element = "audio-pulse"
	ElementMicIcon            Element = "mic-icon"
	ElementCameraIcon         Element = "camera-icon"
	ElementCameraOffIndicator Element = "camera-off-indicator"
	ElementChatPanel          Element = "side-panel"
	ElementChatDot            Element = "chat-dot"
	ElementMessageInput       Element = "msg-input"
	ElementRoom               Element = "stage-container"

	// Forms
	ElementSubmitButton    Element = "submit-button"
	ElementEmailInput      Element = "reset-email"
	ElementUserFields      Element = "user-specific-fields"
	ElementConfirmPassword Element = "confirmPassword"
	ElementPasswordMeter   Element = "password-strength"
)

// Renderer sets display values. Implementations own any post-render work
// such as refreshing icons after new markup is inserted.
type Renderer interface {
	SetText(ctx context.Context, element Element, value string)
	SetVisible(ctx context.Context, element Element, visible bool)
	SetEnabled(ctx context.Context, element Element, enabled bool)
	AppendMessage(ctx context.Context, msg *models.ChatMessage)
}

// Notifier shows transient notifications
type Notifier interface {
	Notify(ctx context.Context, toast *models.Toast)
}

// Confirmer asks the user a blocking yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Navigator sends the user to another page
type Navigator interface {
	Navigate(ctx context.Context, destination models.Destination)
}
