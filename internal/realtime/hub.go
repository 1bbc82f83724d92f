package realtime

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/techify/backend/internal/models"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/utils"
)

// PublishOptions controls fan-out. Code edits exclude their sender while
// question changes and interview-ended go to everyone; the asymmetry is an
// explicit parameter, not a quirk of individual call sites.
type PublishOptions struct {
	ExcludeSender *Client
}

// Broadcaster is the room-scoped fan-out as seen by other components (the
// execution relay publishes results through it).
type Broadcaster interface {
	Publish(roomID string, ev Event, opts PublishOptions)
}

// Hub coordinates a room's live state: the presence roster, the durable room
// document, and event fan-out between the two.
type Hub struct {
	presence *Presence
	rooms    mongorepo.RoomRepository
	log      *logrus.Logger
}

func NewHub(presence *Presence, rooms mongorepo.RoomRepository, log *logrus.Logger) *Hub {
	return &Hub{presence: presence, rooms: rooms, log: log}
}

// Publish fans an event out to every connection in the room. Delivery is
// fire-and-forget: no acknowledgement, no retry, no queueing for absent
// peers.
func (h *Hub) Publish(roomID string, ev Event, opts PublishOptions) {
	for _, c := range h.presence.Members(roomID) {
		if opts.ExcludeSender != nil && c.ID == opts.ExcludeSender.ID {
			continue
		}
		c.Send(ev)
	}
}

// Join registers the connection, loads or lazily creates the room document,
// appends the roster entry, and tells the peers. The returned room gives the
// joiner its init snapshot; there is no backlog replay.
func (h *Hub) Join(ctx context.Context, c *Client, p JoinRoomPayload) (*models.Room, error) {
	const op = "Hub.Join"

	c.Role = p.Role
	c.Username = p.Username

	// A connection is in at most one room. A second join moves it: the old
	// room is left first so its peers stop hearing from (and about) the mover.
	if prev, ok := h.presence.Leave(c.ID); ok && prev != p.RoomID {
		h.announceLeave(ctx, c, prev)
	}

	room, err := h.rooms.GetOrCreate(ctx, p.RoomID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to load room", err)
	}

	// The persisted roster is best effort; presence stays authoritative for
	// the live session.
	if err := h.rooms.AddParticipant(ctx, p.RoomID, models.RoomUser{ID: c.ID, Role: c.Role}); err != nil {
		h.log.WithError(err).WithField("room_id", p.RoomID).Warn("failed to persist roster entry")
	}

	h.presence.Join(c, p.RoomID)

	h.Publish(p.RoomID, Event{
		Type: EventUserJoined,
		Payload: UserJoinedPayload{
			Username: c.Username,
			Role:     c.Role,
			UserID:   c.ID,
		},
	}, PublishOptions{ExcludeSender: c})

	return room, nil
}

// CodeChange overwrites the room's code (last writer wins) and broadcasts the
// edit to everyone except the typist.
func (h *Hub) CodeChange(ctx context.Context, sender *Client, code string) {
	roomID, ok := h.presence.RoomOf(sender.ID)
	if !ok {
		return
	}
	if err := h.rooms.SetFields(ctx, roomID, map[string]any{"code": code}); err != nil {
		h.log.WithError(err).WithField("room_id", roomID).Warn("failed to persist code change")
	}
	h.Publish(roomID, Event{
		Type:    EventCodeChange,
		Payload: CodeChangePayload{Code: code},
	}, PublishOptions{ExcludeSender: sender})
}

// QuestionChange overwrites the room's question and broadcasts to the whole
// room, sender included, so every editor converges on the same text.
func (h *Hub) QuestionChange(ctx context.Context, sender *Client, question string) {
	roomID, ok := h.presence.RoomOf(sender.ID)
	if !ok {
		return
	}
	if err := h.rooms.SetFields(ctx, roomID, map[string]any{"question": question}); err != nil {
		h.log.WithError(err).WithField("room_id", roomID).Warn("failed to persist question change")
	}
	h.Publish(roomID, Event{
		Type:    EventQuestionChange,
		Payload: QuestionChangePayload{Question: question},
	}, PublishOptions{})
}

// EndInterview soft-closes the room and tells everyone, sender included. The
// broadcast goes out even if the write fails; live collaboration wins over
// guaranteed durability.
func (h *Hub) EndInterview(ctx context.Context, sender *Client) {
	roomID, ok := h.presence.RoomOf(sender.ID)
	if !ok {
		return
	}
	if err := h.rooms.End(ctx, roomID, time.Now().UTC()); err != nil {
		h.log.WithError(err).WithField("room_id", roomID).Warn("failed to persist interview end")
	}
	h.Publish(roomID, Event{Type: EventInterviewEnded}, PublishOptions{})
}

// Disconnect is the only teardown signal. It prunes the persisted roster and
// notifies the remaining peers.
func (h *Hub) Disconnect(ctx context.Context, c *Client) {
	roomID, ok := h.presence.Leave(c.ID)
	if !ok {
		return
	}
	h.announceLeave(ctx, c, roomID)
}

// announceLeave prunes the persisted roster and tells the room's remaining
// peers. The caller has already removed the connection from presence.
func (h *Hub) announceLeave(ctx context.Context, c *Client, roomID string) {
	if err := h.rooms.RemoveParticipant(ctx, roomID, c.ID); err != nil {
		h.log.WithError(err).WithField("room_id", roomID).Warn("failed to prune roster entry")
	}
	h.Publish(roomID, Event{
		Type:    EventUserLeft,
		Payload: UserLeftPayload{UserID: c.ID},
	}, PublishOptions{})
}
