package realtime

import "sync"

// Presence owns the live connection-to-room mapping. It is the in-memory
// roster; the persisted roster in the room document is reconciled with it on
// join and disconnect, best effort.
type Presence struct {
	mu     sync.RWMutex
	byConn map[string]string             // connection id -> room id
	rooms  map[string]map[string]*Client // room id -> connection id -> client
}

func NewPresence() *Presence {
	return &Presence{
		byConn: make(map[string]string),
		rooms:  make(map[string]map[string]*Client),
	}
}

// Join records the connection's room. A connection is in at most one room:
// joining while already mapped elsewhere removes the old membership first, so
// the two maps never diverge.
func (p *Presence) Join(c *Client, roomID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.byConn[c.ID]; ok && prev != roomID {
		p.drop(prev, c.ID)
	}
	p.byConn[c.ID] = roomID
	members, ok := p.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		p.rooms[roomID] = members
	}
	members[c.ID] = c
}

// Leave removes the connection and reports which room it was in.
func (p *Presence) Leave(connID string) (roomID string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	roomID, ok = p.byConn[connID]
	if !ok {
		return "", false
	}
	delete(p.byConn, connID)
	p.drop(roomID, connID)
	return roomID, true
}

// drop removes one member from a room's set. Callers hold p.mu.
func (p *Presence) drop(roomID, connID string) {
	members, ok := p.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(p.rooms, roomID)
	}
}

func (p *Presence) RoomOf(connID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	roomID, ok := p.byConn[connID]
	return roomID, ok
}

func (p *Presence) Members(roomID string) []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	members := p.rooms[roomID]
	out := make([]*Client, 0, len(members))
	for _, c := range members {
		out = append(out, c)
	}
	return out
}
