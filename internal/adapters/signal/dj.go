package signal

import (
	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/app/orch"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

type djActionPayload struct {
	Action  string         `json:"action" validate:"required,oneof=set_status reorder delete room_meta"`
	Payload djActionFields `json:"payload"`
}

// djActionFields is the union of every action's fields.
type djActionFields struct {
	ID         string   `json:"id" validate:"max=64"`
	Status     string   `json:"status" validate:"max=16"`
	Order      []string `json:"order" validate:"max=1000,dive,max=64"`
	Name       *string  `json:"name" validate:"omitempty,max=1024"`
	TipsURL    *string  `json:"tipsUrl" validate:"omitempty,max=2048"`
	NowPlaying *string  `json:"nowPlaying" validate:"omitempty,max=1024"`
}

func (ctl *SignalWSController) handleDJAction(sid core.SessionID, env app.Envelope) {
	var p djActionPayload
	if !ctl.decode(sid, env, &p) {
		return
	}

	order := make([]domain.RequestID, 0, len(p.Payload.Order))
	for _, id := range p.Payload.Order {
		order = append(order, domain.RequestID(id))
	}
	err := ctl.Orch.DJAction(sid, orch.DJCommand{
		Action: p.Action,
		ID:     domain.RequestID(p.Payload.ID),
		Status: domain.Status(p.Payload.Status),
		Order:  order,
		Meta: domain.RoomMeta{
			Name:       p.Payload.Name,
			TipsURL:    p.Payload.TipsURL,
			NowPlaying: p.Payload.NowPlaying,
		},
	})
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("dj_action rejected")
	}
	if msg := userMessage(err); msg != "" {
		ctl.reject(sid, env, msg)
		return
	}
	if env.Ack != "" {
		ctl.ack(sid, env.Ack, ackPayload{OK: err == nil})
	}
}
