package messaging

import (
	"github.com/KirkDiggler/aura/internal/models"
)

// Event identifies something the user should be told about
type Event string

const (
	// Meeting room
	EventNotStarted       Event = "not_started"
	EventHostJoined       Event = "host_joined"
	EventMicMuted         Event = "mic_muted"
	EventMicUnmuted       Event = "mic_unmuted"
	EventCameraOff        Event = "camera_off"
	EventCameraOn         Event = "camera_on"
	EventMeetingEnded     Event = "meeting_ended"
	EventAlreadyStarted   Event = "already_started"
	EventConnectionFailed Event = "connection_failed"
	EventSessionEnded     Event = "session_ended"

	// Account forms
	EventPasswordMismatch Event = "password_mismatch"
	EventInvalidEmail     Event = "invalid_email"
	EventMissingFields    Event = "missing_fields"
	EventTermsRequired    Event = "terms_required"
	EventInvalidAge       Event = "invalid_age"
	EventResetSent        Event = "reset_sent"
	EventResetFailed      Event = "reset_failed"
	EventSignupSucceeded  Event = "signup_succeeded"
	EventSignupFailed     Event = "signup_failed"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneWarm is a friendly tone
	ToneWarm MessageTone = "warm"

	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneEncouraging is an encouraging tone
	ToneEncouraging MessageTone = "encouraging"
)

// Prompt identifies a confirmation question
type Prompt string

const (
	PromptLeaveMeeting Prompt = "leave_meeting"
)

// Config holds configuration for the messaging service
type Config struct {
	// Seed makes greeting selection deterministic when non-zero
	Seed int64
}

// GetToastInput contains parameters for building a toast
type GetToastInput struct {
	Event Event

	// FirstName personalizes signup messages
	FirstName string
}

// GetToastOutput contains the toast to show
type GetToastOutput struct {
	Toast *models.Toast
}

// GetStatusLabelInput contains the phase to describe
type GetStatusLabelInput struct {
	Phase models.Phase
}

// GetStatusLabelOutput contains the status line
type GetStatusLabelOutput struct {
	Label string
}

// GetGreetingInput contains parameters for the host's first message
type GetGreetingInput struct {
	// CounselorName is the name of the host sending the greeting
	CounselorName string

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetGreetingOutput contains the greeting
type GetGreetingOutput struct {
	Message string
	Tone    MessageTone
}

// GetConfirmPromptInput identifies the question
type GetConfirmPromptInput struct {
	Prompt Prompt
}

// GetConfirmPromptOutput contains the question text
type GetConfirmPromptOutput struct {
	Text string
}
