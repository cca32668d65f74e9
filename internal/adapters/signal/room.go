package signal

import (
	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

type joinPayload struct {
	Code string `json:"code" validate:"required,max=16"`
	User string `json:"user" validate:"max=256"`
}

func (ctl *SignalWSController) handleJoin(sid core.SessionID, env app.Envelope) {
	var p joinPayload
	if !ctl.decode(sid, env, &p) {
		return
	}
	if err := ctl.Orch.Join(sid, domain.NormalizeCode(p.Code), p.User); err != nil {
		log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join rejected")
		ctl.sendError(sid, userMessage(err))
	}
}

type djAuthPayload struct {
	Code string `json:"code" validate:"required,max=16"`
	Pin  string `json:"pin" validate:"required,max=32"`
}

func (ctl *SignalWSController) handleDJAuth(sid core.SessionID, env app.Envelope) {
	var p djAuthPayload
	if err := ctl.parse(env, &p); err != nil {
		ctl.send(sid, app.EventDJAuthErr, userMessage(domain.ErrInvalidPin))
		return
	}
	if err := ctl.Orch.DJAuth(sid, domain.NormalizeCode(p.Code), p.Pin); err != nil {
		ctl.send(sid, app.EventDJAuthErr, userMessage(err))
	}
}
