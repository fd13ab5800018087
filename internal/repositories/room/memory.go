package room

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	// ErrRoomNotFound is returned when a channel has no room
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomExists is returned when a channel already hosts a room
	ErrRoomExists = errors.New("channel already has a room")
)

// memoryRepository implements the Repository interface with a map
type memoryRepository struct {
	mu        sync.RWMutex
	byChannel map[string]*Room
}

// NewMemory creates a new in-memory room repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		byChannel: make(map[string]*Room),
	}
}

// SaveRoom registers a room, or updates it if the same room is saved again
func (r *memoryRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	if input.Room.ChannelID == "" {
		return errors.New("channel ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byChannel[input.Room.ChannelID]; ok && existing.ID != input.Room.ID {
		return ErrRoomExists
	}

	r.byChannel[input.Room.ChannelID] = input.Room
	return nil
}

// GetRoomByChannel retrieves the room hosted in a channel
func (r *memoryRepository) GetRoomByChannel(ctx context.Context, input *GetRoomByChannelInput) (*Room, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.byChannel[input.ChannelID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// DeleteRoom removes a room
func (r *memoryRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil || input.ChannelID == "" {
		return errors.New("input and channel ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byChannel[input.ChannelID]
	if !ok {
		return ErrRoomNotFound
	}

	if input.RoomID != "" && existing.ID != input.RoomID {
		return ErrRoomNotFound
	}

	delete(r.byChannel, input.ChannelID)
	return nil
}

// ListRooms returns every live room, oldest first
func (r *memoryRepository) ListRooms(ctx context.Context) (*ListRoomsOutput, error) {
	r.mu.RLock()
	rooms := make([]*Room, 0, len(r.byChannel))
	for _, room := range r.byChannel {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})

	return &ListRoomsOutput{Rooms: rooms}, nil
}
