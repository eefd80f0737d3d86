package core

import (
	"testing"
	"time"
)

func mustReceive(t *testing.T, c *Client) []byte {
	t.Helper()

	select {
	case payload := <-c.Outbox:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatalf("client %s received no payload", c.ID)
		return nil
	}
}

func mustNotReceive(t *testing.T, c *Client) {
	t.Helper()

	select {
	case payload := <-c.Outbox:
		t.Fatalf("client %s unexpectedly received %q", c.ID, payload)
	case <-time.After(50 * time.Millisecond):
	}
}
