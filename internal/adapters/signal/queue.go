package signal

import (
	"errors"

	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/app/orch"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

type addRequestPayload struct {
	Song      string `json:"song" validate:"max=1024"`
	Artist    string `json:"artist" validate:"max=1024"`
	Note      string `json:"note" validate:"max=2048"`
	User      string `json:"user" validate:"max=256"`
	ClientKey string `json:"clientKey" validate:"max=64"`
}

func (ctl *SignalWSController) handleAddRequest(sid core.SessionID, env app.Envelope) {
	var p addRequestPayload
	if !ctl.decode(sid, env, &p) {
		return
	}
	id, err := ctl.Orch.AddRequest(sid, orch.AddInput{
		Song:      p.Song,
		Artist:    p.Artist,
		Note:      p.Note,
		User:      p.User,
		ClientKey: p.ClientKey,
	})
	if errors.Is(err, domain.ErrRateLimited) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("add_request rate limited")
		return
	}
	if env.Ack == "" {
		if err != nil {
			ctl.sendError(sid, userMessage(err))
		}
		return
	}
	if err != nil {
		ctl.ack(sid, env.Ack, ackPayload{OK: false, Error: userMessage(err)})
		return
	}
	ctl.ack(sid, env.Ack, ackPayload{OK: true, ID: string(id)})
}

type upvotePayload struct {
	ID string `json:"id" validate:"required,max=64"`
}

func (ctl *SignalWSController) handleUpvote(sid core.SessionID, env app.Envelope) {
	var p upvotePayload
	if !ctl.decode(sid, env, &p) {
		return
	}
	err := ctl.Orch.Upvote(sid, domain.RequestID(p.ID))
	if msg := userMessage(err); msg != "" {
		ctl.sendError(sid, msg)
	}
}
