package core

import "errors"

var (
	// ErrSlowConsumer reports that a member's outbound buffer was full at
	// delivery time. The member misses that one message.
	ErrSlowConsumer = errors.New("outbound buffer full")

	// ErrSessionReused reports a second Run on a single-use session.
	ErrSessionReused = errors.New("session already run")
)
