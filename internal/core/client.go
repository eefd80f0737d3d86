package core

// DefaultOutboxSize is used when a client is constructed with no explicit
// outbound buffer size.
const DefaultOutboxSize = 16

// Client is a live connection as seen by the core layer. It is bound to one
// room for its lifetime and identified by an opaque per-connection token.
type Client struct {
	ID   string
	Name string

	// Outbox carries payloads to the connection's write loop. Delivery into
	// a full buffer fails instead of blocking the broadcaster.
	Outbox chan []byte
}

// NewClient constructs a client with an initialized outbound channel.
func NewClient(id, name string, outboxSize int) *Client {
	if name == "" {
		name = id
	}
	if outboxSize <= 0 {
		outboxSize = DefaultOutboxSize
	}
	return &Client{
		ID:     id,
		Name:   name,
		Outbox: make(chan []byte, outboxSize),
	}
}

// deliver hands a payload to the client's write loop.
func (c *Client) deliver(payload []byte) error {
	select {
	case c.Outbox <- payload:
		return nil
	default:
		return ErrSlowConsumer
	}
}
