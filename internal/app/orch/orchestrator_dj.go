package orch

import (
	"fmt"

	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

// DJ actions.
const (
	ActionSetStatus = "set_status"
	ActionReorder   = "reorder"
	ActionDelete    = "delete"
	ActionRoomMeta  = "room_meta"
)

// DJCommand is one dj_action. Only the fields used by Action are read.
type DJCommand struct {
	Action string
	ID     domain.RequestID
	Status domain.Status
	Order  []domain.RequestID
	Meta   domain.RoomMeta
}

// DJAction runs a privileged mutation on the caller's room.
// Unknown ids and invalid statuses are returned as errors but change nothing.
func (o *Orchestrator) DJAction(sid core.SessionID, cmd DJCommand) error {
	code, _, ok := o.Registry.RoomOf(sid)
	if !ok || !o.Registry.IsDJ(sid, code) {
		return fmt.Errorf("dj_action %s: %w", cmd.Action, domain.ErrUnauthorized)
	}
	room, ok := o.Rooms.GetRoom(code)
	if !ok {
		return fmt.Errorf("dj_action %s: %w", cmd.Action, domain.ErrRoomNotFound)
	}

	var err error
	room.Update(func(q *core.Queue) {
		switch cmd.Action {
		case ActionSetStatus:
			err = o.setStatus(q, cmd)
		case ActionReorder:
			o.Broadcast.EmitToRoom(code, app.EventOrderUpdated, q.Reorder(cmd.Order))
		case ActionDelete:
			err = o.deleteRequest(q, cmd.ID)
		case ActionRoomMeta:
			o.roomMeta(q, cmd.Meta)
		default:
			err = domain.ErrUnknownAction
		}
	})
	if err != nil {
		return fmt.Errorf("dj_action %s: %w", cmd.Action, err)
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Str("action", cmd.Action).Msg("dj action")
	return nil
}

func (o *Orchestrator) setStatus(q *core.Queue, cmd DJCommand) error {
	req, banner, err := q.SetStatus(cmd.ID, cmd.Status)
	if err != nil {
		return err
	}
	o.Broadcast.EmitToRoom(q.Code(), app.EventRequestUpdated, req)
	if banner != nil {
		o.Broadcast.EmitToRoom(q.Code(), app.EventRoomUpdated, domain.RoomMeta{NowPlaying: banner})
	}
	return nil
}

func (o *Orchestrator) deleteRequest(q *core.Queue, id domain.RequestID) error {
	banner, err := q.Delete(id)
	if err != nil {
		return err
	}
	o.Broadcast.EmitToRoom(q.Code(), app.EventRequestDeleted, map[string]domain.RequestID{"id": id})
	if banner != nil {
		o.Broadcast.EmitToRoom(q.Code(), app.EventRoomUpdated, domain.RoomMeta{NowPlaying: banner})
	}
	return nil
}

func (o *Orchestrator) roomMeta(q *core.Queue, m domain.RoomMeta) {
	if m.Empty() {
		return
	}
	o.Broadcast.EmitToRoom(q.Code(), app.EventRoomUpdated, q.UpdateMeta(m))
}
