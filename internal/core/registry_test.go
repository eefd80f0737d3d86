package core

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a", "alice", 0)

	r.Join("lobby", alice)
	r.Join("lobby", alice)

	if got := len(r.Members("lobby")); got != 1 {
		t.Fatalf("expected 1 member after double join, got %d", got)
	}
}

func TestRegistryLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)

	r.Join("lobby", alice)
	r.Join("lobby", bob)

	r.Leave("lobby", alice)
	first := len(r.Members("lobby"))
	r.Leave("lobby", alice)
	second := len(r.Members("lobby"))

	if first != 1 || second != 1 {
		t.Fatalf("expected 1 member after single and double leave, got %d and %d", first, second)
	}
}

func TestRegistryLeaveUnknownRoomIsNoop(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a", "alice", 0)

	// Must not panic or create state.
	r.Leave("ghost", alice)

	if got := len(r.Members("ghost")); got != 0 {
		t.Fatalf("expected no members in unknown room, got %d", got)
	}
}

func TestRegistryMembersSnapshotIsolated(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)

	r.Join("lobby", alice)
	snapshot := r.Members("lobby")

	r.Join("lobby", bob)

	if len(snapshot) != 1 {
		t.Fatalf("snapshot must not grow after later joins, got %d members", len(snapshot))
	}
}

func TestRegistryPrunesEmptyRooms(t *testing.T) {
	r := NewRegistry()
	alice := NewClient("a", "alice", 0)

	r.Join("lobby", alice)
	r.Leave("lobby", alice)

	r.mu.RLock()
	_, ok := r.rooms["lobby"]
	r.mu.RUnlock()
	if ok {
		t.Fatal("expected empty room to be pruned from registry")
	}

	// Rejoining after the prune must work.
	r.Join("lobby", alice)
	if got := len(r.Members("lobby")); got != 1 {
		t.Fatalf("expected 1 member after rejoin, got %d", got)
	}
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomName := fmt.Sprintf("room-%d", i%4)
			c := NewClient(fmt.Sprintf("c-%d", i), "", 0)
			for j := 0; j < 100; j++ {
				r.Join(roomName, c)
				r.Members(roomName)
				r.Leave(roomName, c)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		roomName := fmt.Sprintf("room-%d", i)
		if got := len(r.Members(roomName)); got != 0 {
			t.Errorf("expected %s empty after all leaves, got %d members", roomName, got)
		}
	}
}
