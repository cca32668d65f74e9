package orch

import (
	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
)

// Orchestrator is the room protocol handler: it checks every client intent
// against the session registry and the room store, mutates rooms, and
// decides what is broadcast. Errors it returns are meant for the caller only.
type Orchestrator struct {
	Registry  *app.Registry
	Rooms     core.RoomStore
	Broadcast *app.Broadcaster
	// UserLimit bounds add_request and upvote per logical user.
	UserLimit app.Limiter
}

func (o *Orchestrator) allow(key string) bool {
	if o.UserLimit == nil {
		return true
	}
	return o.UserLimit.Allow(key)
}

// boundRoom returns the room sid is bound to.
func (o *Orchestrator) boundRoom(sid core.SessionID) (core.RoomService, bool) {
	code, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return nil, false
	}
	return o.Rooms.GetRoom(code)
}

// OnDisconnect drops the session; DJ elevation and vote identity go with it.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.Registry.Unbind(sid)
}
