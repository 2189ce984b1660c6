package collab

import (
	"encoding/json"

	"github.com/inamate/board/engine-go/internal/document"
)

type Message struct {
	Type         string          `json:"type"`
	RoomID       string          `json:"roomId,omitempty"`
	ClientID     string          `json:"clientId,omitempty"`
	ConnectionID int             `json:"connectionId,omitempty"`
	Seq          int64           `json:"seq,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor    *document.Point `json:"cursor,omitempty"`
	Selection []string        `json:"selection"`
	Color     string          `json:"color,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[int]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ConnectionID int    `json:"connectionId"`
	Color        string `json:"color"`
}

type PresenceLeavePayload struct {
	ConnectionID int `json:"connectionId"`
}

// WelcomePayload tells a new connection who it is.
type WelcomePayload struct {
	ClientID     string `json:"clientId"`
	ConnectionID int    `json:"connectionId"`
	Color        string `json:"color"`
}

// DocSyncPayload carries the full board of a room.
type DocSyncPayload struct {
	Board     *document.Board `json:"board"`
	ServerSeq int64           `json:"serverSeq"`
}

// ErrorPayload reports a message the relay could not process.
type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation types
const (
	OpLayerCreate = "layer.create"
	OpLayerBounds = "layer.bounds"
	OpLayerDelete = "layer.delete"
)

// --- Operation Types ---

// Operation represents a board mutation
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`
	LayerID   string `json:"layerId"`

	// For layer.create
	Layer *document.Layer `json:"layer,omitempty"`
	Index *int            `json:"index,omitempty"`

	// For layer.bounds. Points, when set, replace the path samples as
	// given instead of rescaling them.
	Bounds         *document.XYWH       `json:"bounds,omitempty"`
	Points         []document.PathPoint `json:"points,omitempty"`
	Previous       *document.XYWH       `json:"previous,omitempty"`
	PreviousPoints []document.PathPoint `json:"previousPoints,omitempty"`

	// For layer.delete, filled in when applied
	PreviousLayer *document.Layer `json:"previousLayer,omitempty"`
	PreviousIndex *int            `json:"previousIndex,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation    Operation `json:"operation"`
	ConnectionID int       `json:"connectionId"`
	ServerSeq    int64     `json:"serverSeq"`
}

// NewMessage builds a message with a JSON payload.
func NewMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
