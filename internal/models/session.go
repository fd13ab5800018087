package models

import (
	"time"
)

// Phase is a named state in a meeting session's lifecycle
type Phase string

const (
	// PhaseWaiting indicates the session is counting down to its scheduled start
	PhaseWaiting Phase = "waiting"

	// PhaseConnecting indicates the connection sequence has begun
	PhaseConnecting Phase = "connecting"

	// PhaseConnected indicates the host has joined
	PhaseConnected Phase = "connected"

	// PhaseSpeaking indicates the host is speaking
	PhaseSpeaking Phase = "speaking"

	// PhaseFailed indicates the connection could not be established
	PhaseFailed Phase = "failed"

	// PhaseEnded is terminal
	PhaseEnded Phase = "ended"
)

// IsWaiting returns true if the session has not started yet
func (p Phase) IsWaiting() bool {
	return p == PhaseWaiting
}

// IsLive returns true while the elapsed timer should run
func (p Phase) IsLive() bool {
	return p == PhaseConnecting || p == PhaseConnected || p == PhaseSpeaking
}

// IsFailed returns true if the connection failed
func (p Phase) IsFailed() bool {
	return p == PhaseFailed
}

// IsEnded returns true once the session is over
func (p Phase) IsEnded() bool {
	return p == PhaseEnded
}

// Sender identifies who wrote a chat message
type Sender string

const (
	// SenderSelf is the local participant
	SenderSelf Sender = "self"

	// SenderRemote is the counselor on the other end
	SenderRemote Sender = "remote"
)

// ChatMessage is one entry in a session's chat feed
type ChatMessage struct {
	ID     string
	Text   string
	Sender Sender
	SentAt time.Time
}

// MeetingSession represents one meeting on one client
type MeetingSession struct {
	// ID is the unique identifier for this session
	ID string

	// CounselorName is the display name of the host
	CounselorName string

	// CounselorInitials is derived from CounselorName for the avatar
	CounselorInitials string

	// ScheduledStart is nil when the session is already due
	ScheduledStart *time.Time

	// Phase is the current lifecycle phase
	Phase Phase

	// ElapsedSeconds counts seconds spent connecting, connected or speaking
	ElapsedSeconds int

	MicMuted  bool
	CameraOff bool
	ChatOpen  bool

	// Unread is set when a remote message arrives while the chat panel is closed
	Unread bool

	// Messages is append-only for the lifetime of the session
	Messages []*ChatMessage

	// CreatedAt is when the session was initialized
	CreatedAt time.Time
}

// Clone returns a copy that shares no mutable state with s
func (s *MeetingSession) Clone() *MeetingSession {
	if s == nil {
		return nil
	}

	out := *s
	if s.ScheduledStart != nil {
		start := *s.ScheduledStart
		out.ScheduledStart = &start
	}

	out.Messages = make([]*ChatMessage, len(s.Messages))
	for i, msg := range s.Messages {
		m := *msg
		out.Messages[i] = &m
	}

	return &out
}
