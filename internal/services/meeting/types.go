package meeting

import (
	"context"
	"time"

	"github.com/KirkDiggler/aura/internal/common/clock"
	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/common/uuid"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTickInterval     = time.Second
	DefaultConnectDelay     = 1500 * time.Millisecond
	DefaultSpeakDelay       = 1500 * time.Millisecond
	DefaultGreetingDelay    = 2 * time.Second
	DefaultLeaveDelay       = 800 * time.Millisecond
	DefaultCounselorName    = "Dr. Rohan Verma"
	DefaultScheduledTimeFmt = "Jan 2, 2006, 3:04:05 PM"
)

// Connector reaches the host when the connection sequence starts.
// An error moves the session to the failed phase.
type Connector interface {
	Connect(ctx context.Context, sessionID string) error
}

// ConnectorFunc adapts a function to the Connector interface
type ConnectorFunc func(ctx context.Context, sessionID string) error

// Connect calls f
func (f ConnectorFunc) Connect(ctx context.Context, sessionID string) error {
	return f(ctx, sessionID)
}

// Config holds configuration for the meeting service
type Config struct {
	// TickInterval drives the countdown and the elapsed timer
	TickInterval time.Duration

	// Delays between the stages of the connection sequence
	ConnectDelay  time.Duration
	SpeakDelay    time.Duration
	GreetingDelay time.Duration

	// LeaveDelay is the pause between ending the session and navigating away
	LeaveDelay time.Duration

	// DefaultCounselor is used when no counselor name is supplied
	DefaultCounselor string

	// Location formats the scheduled start; defaults to time.Local
	Location *time.Location

	// Service dependencies
	Timeline      timeline.Timeline
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Messaging     messaging.Service

	// Connector is optional; without it the host always joins
	Connector Connector

	// Surface collaborators
	Renderer  surface.Renderer
	Notifier  surface.Notifier
	Confirmer surface.Confirmer
	Navigator surface.Navigator

	Logger logrus.FieldLogger
}

// InitializeInput contains parameters for starting a session
type InitializeInput struct {
	// CounselorName is the display name of the host
	CounselorName string

	// ScheduledStart is optional; nil means the session is already due
	ScheduledStart *time.Time
}

// InitializeOutput contains the result of starting a session
type InitializeOutput struct {
	Session *models.MeetingSession

	// Waiting indicates the session is counting down to its start
	Waiting bool
}

// ToggleOutput contains the result of flipping a control
type ToggleOutput struct {
	// Accepted is false when the toggle was rejected by a guard
	Accepted bool

	// Value is the control's state after the call
	Value bool
}

// SendMessageInput contains the text typed by the local participant
type SendMessageInput struct {
	Text string
}

// SendMessageOutput contains the result of sending a message
type SendMessageOutput struct {
	Accepted bool
	Message  *models.ChatMessage
}

// ReceiveMessageInput contains the text sent by the host
type ReceiveMessageInput struct {
	Text string
}

// ReceiveMessageOutput contains the result of receiving a message
type ReceiveMessageOutput struct {
	Accepted bool
	Message  *models.ChatMessage

	// Unread indicates the chat indicator was raised
	Unread bool
}

// EndSessionOutput contains the result of ending a session
type EndSessionOutput struct {
	// Ended is false when the user declined the confirmation
	Ended bool
}

// RetryOutput contains the result of retrying the connection
type RetryOutput struct {
	Phase models.Phase
}

// LeaveWaitingRoomOutput contains the result of leaving before the start
type LeaveWaitingRoomOutput struct {
	Left bool
}

// GetSessionOutput contains a snapshot of the session
type GetSessionOutput struct {
	Session *models.MeetingSession
}
