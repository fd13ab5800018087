package meeting

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/aura/internal/services/meeting Service

// Service controls the lifecycle of one meeting session.
//
// A Service is not safe for concurrent use. Every call, and every timer
// callback it schedules, must run on the Timeline it was configured with.
type Service interface {
	// Initialize starts the session, either waiting for its scheduled start or connecting right away
	Initialize(ctx context.Context, input *InitializeInput) (*InitializeOutput, error)

	// ToggleMic mutes or unmutes the local microphone
	ToggleMic(ctx context.Context) (*ToggleOutput, error)

	// ToggleCamera turns the local camera off or on
	ToggleCamera(ctx context.Context) (*ToggleOutput, error)

	// ToggleChatPanel opens or closes the chat side panel
	ToggleChatPanel(ctx context.Context) (*ToggleOutput, error)

	// SendMessage appends a chat message from the local participant
	SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error)

	// ReceiveMessage appends a chat message from the host
	ReceiveMessage(ctx context.Context, input *ReceiveMessageInput) (*ReceiveMessageOutput, error)

	// EndSession asks for confirmation and ends the meeting
	EndSession(ctx context.Context) (*EndSessionOutput, error)

	// Retry reruns the connection sequence after a failure
	Retry(ctx context.Context) (*RetryOutput, error)

	// LeaveWaitingRoom returns to the dashboard before the meeting starts
	LeaveWaitingRoom(ctx context.Context) (*LeaveWaitingRoomOutput, error)

	// GetSession returns a copy of the current session state
	GetSession(ctx context.Context) (*GetSessionOutput, error)

	// Teardown cancels every pending activity. It is safe to call more than once.
	Teardown()
}
