package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/techify/backend/internal/realtime"
	"github.com/techify/backend/internal/utils"
)

const readTimeout = 60 * time.Second

type WSHandler struct {
	hub       *realtime.Hub
	signaling *realtime.Signaling
	log       *logrus.Logger
	upgrader  websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, signaling *realtime.Signaling, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		hub:       hub,
		signaling: signaling,
		log:       log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

// Serve upgrades the connection and runs its event loop. Each connection is
// one Participant: the connection id is minted here and dies with the socket.
// Teardown is driven entirely by the read loop ending.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote a response in most cases
		return
	}

	client := realtime.NewClient(uuid.NewString(), conn)

	// The socket outlives the HTTP request, so persistence calls run on a
	// background context.
	ctx := context.Background()

	defer func() {
		h.hub.Disconnect(ctx, client)
		h.signaling.Disconnect(client)
		client.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		var env realtime.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "invalid json"))
			continue
		}

		h.dispatch(ctx, client, env)
	}
}

// dispatch handles one inbound event. Failures are contained to the single
// operation: an error is reported back to the sender and the loop goes on.
func (h *WSHandler) dispatch(ctx context.Context, client *realtime.Client, env realtime.Envelope) {
	switch env.Type {
	case realtime.EventJoinRoom:
		var p realtime.JoinRoomPayload
		if err := env.DecodePayload(&p); err != nil {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "malformed join-room payload"))
			return
		}
		if err := p.Validate(); err != nil {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, err.Error()))
			return
		}
		room, err := h.hub.Join(ctx, client, p)
		if err != nil {
			h.log.WithError(err).WithField("room_id", p.RoomID).Error("join failed")
			client.Send(realtime.ErrorEvent(utils.CodeUnavailable, "failed to join room"))
			return
		}
		client.Send(realtime.Event{
			Type:    realtime.EventInit,
			Payload: realtime.InitPayload{Code: room.Code, Question: room.Question},
		})

	case realtime.EventCodeChange:
		var p realtime.CodeChangePayload
		if err := env.DecodePayload(&p); err != nil {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "malformed code-change payload"))
			return
		}
		h.hub.CodeChange(ctx, client, p.Code)

	case realtime.EventQuestionChange:
		var p realtime.QuestionChangePayload
		if err := env.DecodePayload(&p); err != nil {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "malformed question-change payload"))
			return
		}
		h.hub.QuestionChange(ctx, client, p.Question)

	case realtime.EventEndInterview:
		h.hub.EndInterview(ctx, client)

	case realtime.EventJoinVideoRoom:
		var p realtime.JoinVideoPayload
		if err := env.DecodePayload(&p); err != nil {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "malformed join-video-room payload"))
			return
		}
		if err := p.Validate(); err != nil {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, err.Error()))
			return
		}
		role := p.Role
		if role == "" {
			role = client.Role
		}
		peers := h.signaling.Join(client, p.RoomID, role)
		client.Send(realtime.Event{
			Type:    realtime.EventUsersInRoom,
			Payload: realtime.UsersInRoomPayload{Users: peers},
		})

	case realtime.EventOffer, realtime.EventAnswer, realtime.EventICECandidate:
		var target realtime.SignalRoomID
		if err := env.DecodePayload(&target); err != nil || target.RoomID == "" {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "signaling payload requires roomId"))
			return
		}
		// Relay the payload verbatim; its contents are the peers' business.
		h.signaling.Relay(client, target.RoomID, realtime.Event{
			Type:    env.Type,
			Payload: json.RawMessage(env.Payload),
		})

	case realtime.EventLeaveVideoRoom:
		var p realtime.LeaveVideoPayload
		if err := env.DecodePayload(&p); err != nil || p.RoomID == "" {
			client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "malformed leave-video-room payload"))
			return
		}
		h.signaling.Leave(client, p.RoomID)

	default:
		client.Send(realtime.ErrorEvent(utils.CodeInvalidArgument, "unknown event type"))
	}
}
