package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/utils"
)

func TestEnvelopeDecodePayload(t *testing.T) {
	var env Envelope
	err := json.Unmarshal([]byte(`{"type":"join-room","payload":{"roomId":"ABC123","role":"interviewer","username":"alice"}}`), &env)
	require.NoError(t, err)
	assert.Equal(t, EventJoinRoom, env.Type)

	var p JoinRoomPayload
	require.NoError(t, env.DecodePayload(&p))
	assert.Equal(t, "ABC123", p.RoomID)
	assert.Equal(t, models.RoleInterviewer, p.Role)
	assert.Equal(t, "alice", p.Username)
}

func TestEnvelopeDecodePayloadMissing(t *testing.T) {
	env := Envelope{Type: EventJoinRoom}
	var p JoinRoomPayload
	err := env.DecodePayload(&p)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestEnvelopeDecodePayloadMalformed(t *testing.T) {
	env := Envelope{Type: EventJoinRoom, Payload: json.RawMessage(`{"roomId":`)}
	var p JoinRoomPayload
	err := env.DecodePayload(&p)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestJoinRoomPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      JoinRoomPayload
		wantErr bool
		want    JoinRoomPayload
	}{
		{
			name: "valid",
			in:   JoinRoomPayload{RoomID: "ABC123", Role: models.RoleInterviewer, Username: "alice"},
			want: JoinRoomPayload{RoomID: "ABC123", Role: models.RoleInterviewer, Username: "alice"},
		},
		{
			name: "defaults applied",
			in:   JoinRoomPayload{RoomID: "ABC123"},
			want: JoinRoomPayload{RoomID: "ABC123", Role: models.RoleCandidate, Username: "Anonymous"},
		},
		{
			name:    "missing room id",
			in:      JoinRoomPayload{Role: models.RoleCandidate},
			wantErr: true,
		},
		{
			name:    "unknown role",
			in:      JoinRoomPayload{RoomID: "ABC123", Role: "observer"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestJoinVideoPayloadValidate(t *testing.T) {
	p := JoinVideoPayload{}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	p.RoomID = "ABC123"
	assert.NoError(t, p.Validate())
}

func TestSignalRoomIDExtraction(t *testing.T) {
	// Only the routing key is parsed; the rest of the payload stays opaque.
	env := Envelope{Type: EventOffer, Payload: json.RawMessage(`{"roomId":"ABC123","sdp":{"type":"offer"}}`)}
	var target SignalRoomID
	require.NoError(t, env.DecodePayload(&target))
	assert.Equal(t, "ABC123", target.RoomID)
}

func TestErrorEvent(t *testing.T) {
	ev := ErrorEvent(utils.CodeInvalidArgument, "roomId is required")
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, ErrorPayload{Code: utils.CodeInvalidArgument, Message: "roomId is required"}, ev.Payload)
}
