package store

import (
	"context"
	"time"
)

// AnonymousSender is recorded for messages whose sender is unknown.
// The relay accepts unauthenticated connections, so today this is every message.
const AnonymousSender = "anonymous"

// Room represents a chat room. Rooms are created lazily on first use and
// identified by their unique name.
type Room struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Message represents a persisted chat message. CreatedAt is assigned by the
// store at insert time.
type Message struct {
	ID        int64
	RoomID    int64
	Sender    string
	Content   string
	CreatedAt time.Time
}

// RoomStore handles room persistence.
type RoomStore interface {
	// GetOrCreateRoom returns the room with the given name, creating it if
	// it does not exist yet.
	GetOrCreateRoom(ctx context.Context, name string) (*Room, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// AppendMessage persists a message and assigns its timestamp.
	AppendMessage(ctx context.Context, roomID int64, sender, content string) (*Message, error)

	// MessagesByRoom retrieves all messages of a room by name, newest first.
	// An unknown room yields an empty slice, not an error.
	MessagesByRoom(ctx context.Context, name string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
