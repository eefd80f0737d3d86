package core

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine() (*Registry, *Engine) {
	registry := NewRegistry()
	logger := zerolog.New(nil)
	return registry, NewEngine(registry, &logger)
}

func TestBroadcastReachesAllMembersIncludingSender(t *testing.T) {
	registry, engine := newTestEngine()

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	registry.Join("lobby", alice)
	registry.Join("lobby", bob)

	deliveries := engine.Broadcast("lobby", []byte("msg1"))

	if len(deliveries) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(deliveries))
	}
	for _, d := range deliveries {
		if d.Err != nil {
			t.Errorf("unexpected delivery error for %s: %v", d.Client.ID, d.Err)
		}
	}

	if got := mustReceive(t, alice); !bytes.Equal(got, []byte("msg1")) {
		t.Errorf("sender echo mismatch: %q", got)
	}
	if got := mustReceive(t, bob); !bytes.Equal(got, []byte("msg1")) {
		t.Errorf("member payload mismatch: %q", got)
	}
}

func TestBroadcastExceptSkipsSender(t *testing.T) {
	registry, engine := newTestEngine()

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	registry.Join("lobby", alice)
	registry.Join("lobby", bob)

	deliveries := engine.BroadcastExcept("lobby", []byte("no-echo"), alice)

	if len(deliveries) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(deliveries))
	}
	mustReceive(t, bob)
	mustNotReceive(t, alice)
}

func TestBroadcastSkipsDepartedMembers(t *testing.T) {
	registry, engine := newTestEngine()

	alice := NewClient("a", "alice", 0)
	bob := NewClient("b", "bob", 0)
	registry.Join("lobby", alice)
	registry.Join("lobby", bob)
	registry.Leave("lobby", alice)

	deliveries := engine.Broadcast("lobby", []byte("after-leave"))

	if len(deliveries) != 1 {
		t.Fatalf("expected 1 delivery after leave, got %d", len(deliveries))
	}
	if deliveries[0].Client != bob {
		t.Errorf("expected delivery to bob, got %s", deliveries[0].Client.ID)
	}
	mustNotReceive(t, alice)
}

func TestBroadcastEmptyRoom(t *testing.T) {
	_, engine := newTestEngine()

	deliveries := engine.Broadcast("ghost", []byte("anyone?"))
	if len(deliveries) != 0 {
		t.Fatalf("expected no deliveries for empty room, got %d", len(deliveries))
	}
}

func TestBroadcastSlowConsumerDoesNotAbortFanout(t *testing.T) {
	registry, engine := newTestEngine()

	slow := NewClient("s", "slow", 1)
	bob := NewClient("b", "bob", 0)
	registry.Join("lobby", slow)
	registry.Join("lobby", bob)

	// Fill the slow consumer's buffer, then broadcast again.
	engine.Broadcast("lobby", []byte("fill"))
	deliveries := engine.Broadcast("lobby", []byte("overflow"))

	var slowErr, bobErr error
	for _, d := range deliveries {
		switch d.Client {
		case slow:
			slowErr = d.Err
		case bob:
			bobErr = d.Err
		}
	}

	if slowErr != ErrSlowConsumer {
		t.Errorf("expected ErrSlowConsumer for slow member, got %v", slowErr)
	}
	if bobErr != nil {
		t.Errorf("expected healthy member unaffected, got %v", bobErr)
	}

	// Bob got both payloads despite the failed neighbor.
	mustReceive(t, bob)
	if got := mustReceive(t, bob); !bytes.Equal(got, []byte("overflow")) {
		t.Errorf("expected second payload 'overflow', got %q", got)
	}
}
