package sqlite

import (
	"context"
	"testing"

	"github.com/vovakirdan/chatrelay-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestGetOrCreateRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	room, err := s.GetOrCreateRoom(ctx, "lobby")
	if err != nil {
		t.Fatalf("GetOrCreateRoom failed: %v", err)
	}
	if room.Name != "lobby" {
		t.Errorf("expected room name 'lobby', got %q", room.Name)
	}
	if room.ID == 0 {
		t.Error("expected non-zero room id")
	}

	// Second call must return the same room, not create a duplicate.
	again, err := s.GetOrCreateRoom(ctx, "lobby")
	if err != nil {
		t.Fatalf("second GetOrCreateRoom failed: %v", err)
	}
	if again.ID != room.ID {
		t.Errorf("expected same room id %d, got %d", room.ID, again.ID)
	}

	other, err := s.GetOrCreateRoom(ctx, "random")
	if err != nil {
		t.Fatalf("GetOrCreateRoom for second room failed: %v", err)
	}
	if other.ID == room.ID {
		t.Error("distinct rooms must get distinct ids")
	}
}

func TestAppendMessageAssignsTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	room, err := s.GetOrCreateRoom(ctx, "lobby")
	if err != nil {
		t.Fatalf("GetOrCreateRoom failed: %v", err)
	}

	msg, err := s.AppendMessage(ctx, room.ID, store.AnonymousSender, "hi")
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if msg.ID == 0 {
		t.Error("expected non-zero message id")
	}
	if msg.Sender != store.AnonymousSender {
		t.Errorf("expected sender %q, got %q", store.AnonymousSender, msg.Sender)
	}
	if msg.Content != "hi" {
		t.Errorf("expected content 'hi', got %q", msg.Content)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected store-assigned timestamp")
	}
}

func TestMessagesByRoomNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	room, err := s.GetOrCreateRoom(ctx, "lobby")
	if err != nil {
		t.Fatalf("GetOrCreateRoom failed: %v", err)
	}

	for _, content := range []string{"first", "second", "third"} {
		if _, err := s.AppendMessage(ctx, room.ID, store.AnonymousSender, content); err != nil {
			t.Fatalf("AppendMessage(%q) failed: %v", content, err)
		}
	}

	messages, err := s.MessagesByRoom(ctx, "lobby")
	if err != nil {
		t.Fatalf("MessagesByRoom failed: %v", err)
	}

	expected := []string{"third", "second", "first"}
	if len(messages) != len(expected) {
		t.Fatalf("expected %d messages, got %d", len(expected), len(messages))
	}
	for i, content := range expected {
		if messages[i].Content != content {
			t.Errorf("expected %q at index %d, got %q", content, i, messages[i].Content)
		}
	}
}

func TestMessagesByRoomUnknownRoom(t *testing.T) {
	s := newTestStore(t)

	messages, err := s.MessagesByRoom(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("MessagesByRoom failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected empty result for unknown room, got %d messages", len(messages))
	}
}
