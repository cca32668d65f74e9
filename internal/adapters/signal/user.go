package signal

import (
	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/rs/zerolog/log"
)

type renamePayload struct {
	User string `json:"user" validate:"max=256"`
}

func (ctl *SignalWSController) handleRename(sid core.SessionID, env app.Envelope) {
	var p renamePayload
	if !ctl.decode(sid, env, &p) {
		return
	}
	if err := ctl.Orch.Rename(sid, p.User); err != nil {
		ctl.sendError(sid, userMessage(err))
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("rename")
	ctl.handleWhoAmI(sid)
}

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID) {
	ctl.send(sid, app.EventWhoAmI, ctl.Orch.WhoAmI(sid))
}
