package app

import (
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats/backpressure.
type PublishResult struct {
	SendTo  int
	Dropped []core.SessionID
}

// Broadcaster delivers frames to sessions found in the registry.
type Broadcaster struct {
	Registry *Registry
	Policy   Policy
}

func NewBroadcaster(reg *Registry, policy Policy) *Broadcaster {
	return &Broadcaster{Registry: reg, Policy: policy}
}

// EmitToRoom sends event to every session bound to code, the sender included.
// Callers emit while holding the room's Update lock so that delivery order
// matches mutation order.
func (b *Broadcaster) EmitToRoom(code domain.RoomCode, event string, payload any) PublishResult {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("event", event).Msg("encode frame")
		return PublishResult{}
	}

	res := PublishResult{}
	for _, snap := range b.Registry.MembersOfRoom(code) {
		if err := snap.Session.Signal().TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, snap.SID)
			b.onDropped(code, snap)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "app.broadcast").Str("room", string(code)).Str("event", event).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// EmitTo sends event to one session only.
func (b *Broadcaster) EmitTo(sid core.SessionID, event string, payload any) error {
	frame, err := EncodeFrame(event, payload)
	if err != nil {
		return err
	}
	return b.send(sid, frame)
}

// Ack answers an inbound message that asked for an acknowledgement.
func (b *Broadcaster) Ack(sid core.SessionID, ack string, payload any) error {
	frame, err := EncodeAck(ack, payload)
	if err != nil {
		return err
	}
	return b.send(sid, frame)
}

func (b *Broadcaster) send(sid core.SessionID, frame core.Frame) error {
	sess, ok := b.Registry.GetSession(sid)
	if !ok {
		return nil
	}
	return sess.Signal().TrySend(frame)
}

func (b *Broadcaster) onDropped(code domain.RoomCode, snap regSnap) {
	if b.Policy == nil {
		return
	}
	switch b.Policy.OnBackPressure(code, snap.Session) {
	case KickMember:
		log.Warn().Str("module", "app.broadcast").Str("sid", string(snap.SID)).Msg("slow member kicked")
		b.Registry.Cancel(snap.SID)
	case DropFrame, NoAction:
	}
}
