package core

import "sync"

// room holds the member set for one room name behind its own lock, so
// traffic in unrelated rooms never serializes on a shared lock.
type room struct {
	mu      sync.RWMutex
	members map[*Client]struct{}

	// pruned is set when the registry removes an empty room from its map.
	// A Join that raced the prune must not resurrect this instance.
	pruned bool
}

func newRoom() *room {
	return &room{members: make(map[*Client]struct{})}
}

func (r *room) add(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pruned {
		return false
	}
	r.members[c] = struct{}{}
	return true
}

func (r *room) remove(c *Client) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, c)
	return len(r.members) == 0
}

func (r *room) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]*Client, 0, len(r.members))
	for c := range r.members {
		members = append(members, c)
	}
	return members
}

// Registry tracks which clients are currently joined to which rooms. The
// registry-level lock only guards the room map; each room's member set has
// its own lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// Join registers the client under the room, creating the room's set on first
// use. Joining a room the client is already in is a no-op.
func (r *Registry) Join(name string, c *Client) {
	for {
		r.mu.Lock()
		rm, ok := r.rooms[name]
		if !ok {
			rm = newRoom()
			r.rooms[name] = rm
		}
		r.mu.Unlock()

		if rm.add(c) {
			return
		}
		// The room was pruned between lookup and add; retry with a fresh one.
	}
}

// Leave removes the client from the room. It never fails: an absent room or
// member is a no-op, so calling it twice is safe. Empty rooms are pruned.
func (r *Registry) Leave(name string, c *Client) {
	r.mu.RLock()
	rm, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return
	}

	if !rm.remove(c) {
		return
	}

	r.mu.Lock()
	if cur, ok := r.rooms[name]; ok && cur == rm {
		cur.mu.Lock()
		if len(cur.members) == 0 {
			cur.pruned = true
			delete(r.rooms, name)
		}
		cur.mu.Unlock()
	}
	r.mu.Unlock()
}

// Members returns a point-in-time snapshot of the room's members. A member
// leaving while the snapshot is iterated may still receive one in-flight
// message; that overlap is accepted.
func (r *Registry) Members(name string) []*Client {
	r.mu.RLock()
	rm, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return rm.snapshot()
}
