package room

import (
	"context"
)

// Repository tracks the live meeting room of each channel
type Repository interface {
	// SaveRoom registers a room; a channel holds at most one
	SaveRoom(ctx context.Context, input *SaveRoomInput) error

	// GetRoomByChannel retrieves the room hosted in a channel
	GetRoomByChannel(ctx context.Context, input *GetRoomByChannelInput) (*Room, error)

	// DeleteRoom removes a room
	DeleteRoom(ctx context.Context, input *DeleteRoomInput) error

	// ListRooms returns every live room
	ListRooms(ctx context.Context) (*ListRoomsOutput, error)
}
