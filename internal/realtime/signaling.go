package realtime

import (
	"sync"

	"github.com/techify/backend/internal/models"
)

// Signaling relays WebRTC negotiation messages between the peers of a room's
// video sub-grouping without inspecting them. Groupings are keyed
// "video-<roomId>" and hold no durable state; membership lives and dies with
// the socket.
type Signaling struct {
	mu     sync.RWMutex
	groups map[string]map[string]*Client // video group key -> connection id -> client
	byConn map[string]map[string]bool    // connection id -> set of joined group keys
}

func NewSignaling() *Signaling {
	return &Signaling{
		groups: make(map[string]map[string]*Client),
		byConn: make(map[string]map[string]bool),
	}
}

func videoGroup(roomID string) string { return "video-" + roomID }

// Join adds the connection to the room's video grouping. The joiner gets the
// ids of peers already present so it knows whether to expect an offer;
// existing peers are told the newcomer's role so the designated initiator can
// start negotiation.
func (s *Signaling) Join(c *Client, roomID string, role models.Role) []VideoPeer {
	key := videoGroup(roomID)

	s.mu.Lock()
	members, ok := s.groups[key]
	if !ok {
		members = make(map[string]*Client)
		s.groups[key] = members
	}
	existing := make([]VideoPeer, 0, len(members))
	peers := make([]*Client, 0, len(members))
	for id, peer := range members {
		existing = append(existing, VideoPeer{ID: id})
		peers = append(peers, peer)
	}
	members[c.ID] = c
	joined, ok := s.byConn[c.ID]
	if !ok {
		joined = make(map[string]bool)
		s.byConn[c.ID] = joined
	}
	joined[key] = true
	s.mu.Unlock()

	ev := Event{
		Type:    EventUserJoinedVideo,
		Payload: UserJoinedVideoPayload{UserID: c.ID, UserRole: role},
	}
	for _, peer := range peers {
		peer.Send(ev)
	}

	return existing
}

// Relay forwards an offer/answer/ice-candidate event verbatim to the other
// members of the grouping. The payload is opaque; a departed target means the
// message is silently undelivered.
func (s *Signaling) Relay(sender *Client, roomID string, ev Event) {
	key := videoGroup(roomID)

	s.mu.RLock()
	peers := make([]*Client, 0, len(s.groups[key]))
	for id, peer := range s.groups[key] {
		if id == sender.ID {
			continue
		}
		peers = append(peers, peer)
	}
	s.mu.RUnlock()

	for _, peer := range peers {
		peer.Send(ev)
	}
}

// Leave removes the connection from one grouping and notifies the remaining
// peer so it can tear down its side.
func (s *Signaling) Leave(c *Client, roomID string) {
	key := videoGroup(roomID)
	s.remove(c, key)
}

// Disconnect removes the connection from every grouping it joined.
func (s *Signaling) Disconnect(c *Client) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.byConn[c.ID]))
	for key := range s.byConn[c.ID] {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	for _, key := range keys {
		s.remove(c, key)
	}
}

// Members reports the connection ids currently in the room's video grouping.
func (s *Signaling) Members(roomID string) []string {
	key := videoGroup(roomID)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.groups[key]))
	for id := range s.groups[key] {
		out = append(out, id)
	}
	return out
}

func (s *Signaling) remove(c *Client, key string) {
	s.mu.Lock()
	members, ok := s.groups[key]
	if !ok || members[c.ID] == nil {
		if joined := s.byConn[c.ID]; joined != nil {
			delete(joined, key)
			if len(joined) == 0 {
				delete(s.byConn, c.ID)
			}
		}
		s.mu.Unlock()
		return
	}
	delete(members, c.ID)
	if len(members) == 0 {
		delete(s.groups, key)
	}
	if joined := s.byConn[c.ID]; joined != nil {
		delete(joined, key)
		if len(joined) == 0 {
			delete(s.byConn, c.ID)
		}
	}
	remaining := make([]*Client, 0, len(members))
	for _, peer := range members {
		remaining = append(remaining, peer)
	}
	s.mu.Unlock()

	ev := Event{
		Type:    EventUserLeftVideo,
		Payload: UserLeftVideoPayload{UserID: c.ID},
	}
	for _, peer := range remaining {
		peer.Send(ev)
	}
}
