package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetToast returns the notification for an event
	GetToast(ctx context.Context, input *GetToastInput) (*GetToastOutput, error)

	// GetStatusLabel returns the status line shown for a session phase
	GetStatusLabel(ctx context.Context, input *GetStatusLabelInput) (*GetStatusLabelOutput, error)

	// GetGreeting returns the scripted first message from the host
	GetGreeting(ctx context.Context, input *GetGreetingInput) (*GetGreetingOutput, error)

	// GetConfirmPrompt returns the question asked before a destructive action
	GetConfirmPrompt(ctx context.Context, input *GetConfirmPromptInput) (*GetConfirmPromptOutput, error)
}
