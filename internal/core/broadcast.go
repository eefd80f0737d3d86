package core

import "github.com/rs/zerolog"

// Delivery records the outcome of one member delivery attempt.
type Delivery struct {
	Client *Client
	Err    error
}

// Engine fans messages out to the current members of a room.
type Engine struct {
	registry *Registry
	log      *zerolog.Logger
}

// NewEngine constructs a broadcast engine over the given registry.
func NewEngine(registry *Registry, logger *zerolog.Logger) *Engine {
	return &Engine{registry: registry, log: logger}
}

// Broadcast delivers the payload verbatim to every current member of the
// room, the sender included. A failed delivery to one member is recorded in
// the returned outcomes and logged; it never aborts delivery to the rest.
func (e *Engine) Broadcast(room string, payload []byte) []Delivery {
	return e.fanOut(room, payload, nil)
}

// BroadcastExcept is Broadcast without echo to skip. Opt-in: the relay's
// default behavior echoes back to the sender.
func (e *Engine) BroadcastExcept(room string, payload []byte, skip *Client) []Delivery {
	return e.fanOut(room, payload, skip)
}

func (e *Engine) fanOut(room string, payload []byte, skip *Client) []Delivery {
	members := e.registry.Members(room)
	deliveries := make([]Delivery, 0, len(members))
	for _, member := range members {
		if member == skip {
			continue
		}
		err := member.deliver(payload)
		if err != nil {
			e.log.Warn().
				Str("room", room).
				Str("client_id", member.ID).
				Err(err).
				Msg("message dropped for member")
		}
		deliveries = append(deliveries, Delivery{Client: member, Err: err})
	}
	return deliveries
}
