package meeting

// MeetingError is a custom error type for meeting-related errors
type MeetingError string

// Error implements the error interface
func (e MeetingError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNotInitialized     MeetingError = "session not initialized"
	ErrAlreadyInitialized MeetingError = "session already initialized"
	ErrSessionEnded       MeetingError = "session has ended"
	ErrSessionClosed      MeetingError = "session has been torn down"
	ErrNotFailed          MeetingError = "session is not in a failed state"
	ErrNilInput           MeetingError = "input cannot be nil"
	ErrNilConfig          MeetingError = "config cannot be nil"
	ErrNilTimeline        MeetingError = "timeline cannot be nil"
	ErrNilUUIDGenerator   MeetingError = "UUID generator cannot be nil"
	ErrNilMessaging       MeetingError = "messaging service cannot be nil"
	ErrNilRenderer        MeetingError = "renderer cannot be nil"
	ErrNilNotifier        MeetingError = "notifier cannot be nil"
	ErrNilConfirmer       MeetingError = "confirmer cannot be nil"
	ErrNilNavigator       MeetingError = "navigator cannot be nil"
)
