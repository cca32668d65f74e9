package core

import (
	"github.com/dkeye/Jukebox/internal/domain"
)

// RoomService is the core-facing API of a room.
// All queue mutations go through Update, which serializes them per room.
type RoomService interface {
	Code() domain.RoomCode
	Summary() domain.RoomSummary
	// Snapshot returns a consistent copy of the room; withPinHint adds the redacted pin.
	Snapshot(withPinHint bool) domain.RoomState
	CheckPin(pin string) bool
	// Pin is handed out once, to the creator of the room.
	Pin() string
	// PinHint is the redacted pin shown to the room's DJ.
	PinHint() string
	// Update runs fn with exclusive access to the queue. Events emitted from
	// inside fn reach subscribers in mutation order.
	Update(fn func(q *Queue))
}

type RoomInfo struct {
	Code domain.RoomCode `json:"code"`
	Name string          `json:"name"`
}

type RoomStore interface {
	CreateRoom(cfg domain.RoomConfig) RoomService
	GetRoom(code domain.RoomCode) (RoomService, bool)
	List() []RoomInfo
}
