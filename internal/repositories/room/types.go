package room

import (
	"time"

	"github.com/KirkDiggler/aura/internal/services/meeting"
)

// Room is a meeting session hosted in a chat channel
type Room struct {
	// ID is the unique identifier for the room
	ID string

	// ChannelID is where the room is hosted
	ChannelID string

	// MessageID is the room message kept up to date with the session
	MessageID string

	// HostID is the user who opened the room
	HostID string

	// Meeting is the session controller; it must only be called on the room's timeline
	Meeting meeting.Service

	CreatedAt time.Time
}

type SaveRoomInput struct {
	Room *Room
}

type GetRoomByChannelInput struct {
	ChannelID string
}

// DeleteRoomInput removes the room in ChannelID. A non-empty RoomID only
// deletes if it still matches, so a stale teardown cannot remove a newer room.
type DeleteRoomInput struct {
	ChannelID string
	RoomID    string
}

type ListRoomsOutput struct {
	Rooms []*Room
}
