package realtime

import (
	"encoding/json"
	"time"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/utils"
)

type EventType string

// Wire event names, shared with the browser client.
const (
	// client -> server
	EventJoinRoom       EventType = "join-room"
	EventCodeChange     EventType = "code-change"
	EventQuestionChange EventType = "question-change"
	EventEndInterview   EventType = "end-interview"
	EventJoinVideoRoom  EventType = "join-video-room"
	EventOffer          EventType = "offer"
	EventAnswer         EventType = "answer"
	EventICECandidate   EventType = "ice-candidate"
	EventLeaveVideoRoom EventType = "leave-video-room"

	// server -> client
	EventInit            EventType = "init"
	EventInterviewEnded  EventType = "interview-ended"
	EventOutputChange    EventType = "output-change"
	EventUserJoined      EventType = "user-joined"
	EventUserLeft        EventType = "user-left"
	EventUsersInRoom     EventType = "users-in-room"
	EventUserJoinedVideo EventType = "user-joined-video"
	EventUserLeftVideo   EventType = "user-left-video"
	EventError           EventType = "error"
)

// Envelope is an inbound frame as read off the wire. Payloads are decoded
// into their typed structs at the channel boundary, never passed through as
// arbitrary maps.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (e Envelope) DecodePayload(dst any) error {
	if len(e.Payload) == 0 {
		return utils.E(utils.CodeInvalidArgument, "realtime.DecodePayload", "missing payload", nil)
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return utils.E(utils.CodeInvalidArgument, "realtime.DecodePayload", "malformed payload", err)
	}
	return nil
}

// Event is an outbound frame.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	RoomID   string      `json:"roomId"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
}

func (p *JoinRoomPayload) Validate() error {
	const op = "realtime.JoinRoomPayload"
	if p.RoomID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "roomId is required", nil)
	}
	if p.Role == "" {
		p.Role = models.RoleCandidate
	}
	if p.Role != models.RoleInterviewer && p.Role != models.RoleCandidate {
		return utils.E(utils.CodeInvalidArgument, op, "role must be interviewer or candidate", nil)
	}
	if p.Username == "" {
		p.Username = "Anonymous"
	}
	return nil
}

type InitPayload struct {
	Code     string `json:"code"`
	Question string `json:"question"`
}

type CodeChangePayload struct {
	Code string `json:"code"`
}

type QuestionChangePayload struct {
	Question string `json:"question"`
}

// OutputPayload carries an execution result to room peers.
type OutputPayload struct {
	Output     string    `json:"output"`
	Error      string    `json:"error"`
	ExecutedBy string    `json:"executedBy"`
	Timestamp  time.Time `json:"timestamp"`
}

type UserJoinedPayload struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	UserID   string      `json:"userId"`
}

type UserLeftPayload struct {
	UserID string `json:"userId"`
}

type JoinVideoPayload struct {
	RoomID string      `json:"roomId"`
	Role   models.Role `json:"role"`
}

func (p *JoinVideoPayload) Validate() error {
	if p.RoomID == "" {
		return utils.E(utils.CodeInvalidArgument, "realtime.JoinVideoPayload", "roomId is required", nil)
	}
	return nil
}

type VideoPeer struct {
	ID string `json:"id"`
}

type UsersInRoomPayload struct {
	Users []VideoPeer `json:"users"`
}

type UserJoinedVideoPayload struct {
	UserID   string      `json:"userId"`
	UserRole models.Role `json:"userRole"`
}

type UserLeftVideoPayload struct {
	UserID string `json:"userId"`
}

// SignalRoomID extracts the target room from an opaque signaling payload.
// Nothing else in the payload is parsed or validated; it is relayed verbatim.
type SignalRoomID struct {
	RoomID string `json:"roomId"`
}

type LeaveVideoPayload struct {
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func ErrorEvent(code utils.Code, msg string) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Code: code, Message: msg}}
}
