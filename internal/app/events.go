package app

import (
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/goccy/go-json"
)

// Outbound event names.
const (
	EventState          = "state"
	EventDJAuthOK       = "dj_auth_ok"
	EventDJAuthErr      = "dj_auth_err"
	EventRequestAdded   = "request_added"
	EventRequestUpdated = "request_updated"
	EventOrderUpdated   = "order_updated"
	EventRequestDeleted = "request_deleted"
	EventRoomUpdated    = "room_updated"
	EventErrorMsg       = "error_msg"
	EventAck            = "ack"
	EventWhoAmI         = "whoami"
	EventPong           = "pong"
)

// Envelope is the wire shape of every frame in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Ack  string          `json:"ack,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Type string `json:"type"`
	Ack  string `json:"ack,omitempty"`
	Data any    `json:"data,omitempty"`
}

// EncodeFrame builds one outbound frame.
func EncodeFrame(event string, payload any) (core.Frame, error) {
	return json.Marshal(outbound{Type: event, Data: payload})
}

// EncodeAck builds the acknowledgement frame for an inbound message carrying ack.
func EncodeAck(ack string, payload any) (core.Frame, error) {
	return json.Marshal(outbound{Type: EventAck, Ack: ack, Data: payload})
}
