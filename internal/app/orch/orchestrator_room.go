package orch

import (
	"fmt"

	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join binds sid to the room and sends it a snapshot. Bind and snapshot run
// under the room lock, so the caller neither misses nor repeats an event.
func (o *Orchestrator) Join(sid core.SessionID, code domain.RoomCode, user string) error {
	room, ok := o.Rooms.GetRoom(code)
	if !ok {
		return fmt.Errorf("join %q: %w", code, domain.ErrRoomNotFound)
	}
	if err := o.Registry.UpdateUsername(sid, domain.DisplayName(user)); err != nil {
		return err
	}

	room.Update(func(q *core.Queue) {
		o.Registry.Bind(sid, room.Code())
		st := q.Snapshot()
		if o.Registry.IsDJ(sid, room.Code()) {
			st.PinHint = room.PinHint()
		}
		_ = o.Broadcast.EmitTo(sid, app.EventState, st)
	})
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Code())).Msg("join")
	return nil
}

// DJAuth elevates sid on a pin match and sends the DJ view of the room.
func (o *Orchestrator) DJAuth(sid core.SessionID, code domain.RoomCode, pin string) error {
	room, err := o.Registry.AuthorizeDJ(sid, o.Rooms, code, pin)
	if err != nil {
		return fmt.Errorf("dj auth %q: %w", code, err)
	}
	room.Update(func(q *core.Queue) {
		st := q.Snapshot()
		st.PinHint = room.PinHint()
		_ = o.Broadcast.EmitTo(sid, app.EventDJAuthOK, map[string]any{"room": st})
	})
	return nil
}

// Rename changes the display name used for later requests.
func (o *Orchestrator) Rename(sid core.SessionID, name string) error {
	return o.Registry.UpdateUsername(sid, name)
}

// SessionInfo describes the caller's session.
type SessionInfo struct {
	SessionID core.SessionID  `json:"connectionId"`
	User      string          `json:"user"`
	Room      domain.RoomCode `json:"room,omitempty"`
	DJ        bool            `json:"isDJ"`
}

func (o *Orchestrator) WhoAmI(sid core.SessionID) SessionInfo {
	info := SessionInfo{SessionID: sid, User: o.Registry.Username(sid)}
	if code, _, ok := o.Registry.RoomOf(sid); ok {
		info.Room = code
		info.DJ = o.Registry.IsDJ(sid, code)
	}
	return info
}
