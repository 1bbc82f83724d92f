package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceJoinLeave(t *testing.T) {
	p := NewPresence()
	c1 := NewClient("conn-1", nil)
	c2 := NewClient("conn-2", nil)

	p.Join(c1, "room-a")
	p.Join(c2, "room-a")

	roomID, ok := p.RoomOf("conn-1")
	require.True(t, ok)
	assert.Equal(t, "room-a", roomID)
	assert.Len(t, p.Members("room-a"), 2)

	roomID, ok = p.Leave("conn-1")
	require.True(t, ok)
	assert.Equal(t, "room-a", roomID)
	assert.Len(t, p.Members("room-a"), 1)

	_, ok = p.RoomOf("conn-1")
	assert.False(t, ok)
}

func TestPresenceLeaveUnknownConn(t *testing.T) {
	p := NewPresence()
	_, ok := p.Leave("never-joined")
	assert.False(t, ok)
}

func TestPresenceRejoinMovesRooms(t *testing.T) {
	p := NewPresence()
	c := NewClient("conn-1", nil)

	p.Join(c, "room-a")
	p.Join(c, "room-b")

	roomID, ok := p.RoomOf("conn-1")
	require.True(t, ok)
	assert.Equal(t, "room-b", roomID)
	assert.Len(t, p.Members("room-b"), 1)
	assert.Empty(t, p.Members("room-a"), "old membership goes with the move")

	// Leaving after a move tears down the only remaining membership.
	roomID, ok = p.Leave("conn-1")
	require.True(t, ok)
	assert.Equal(t, "room-b", roomID)
	assert.Empty(t, p.Members("room-b"))
	assert.Empty(t, p.Members("room-a"))
}

func TestPresenceEmptyRoomPruned(t *testing.T) {
	p := NewPresence()
	c := NewClient("conn-1", nil)

	p.Join(c, "room-a")
	p.Leave("conn-1")

	assert.Empty(t, p.Members("room-a"))
}
