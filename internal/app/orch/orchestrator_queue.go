package orch

import (
	"fmt"
	"strings"

	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

// AddInput is the audience payload of add_request.
type AddInput struct {
	Song      string
	Artist    string
	Note      string
	User      string
	ClientKey string
}

// AddRequest appends a song request to the caller's room and broadcasts it.
// A repeated ClientKey returns the id of the earlier request without a broadcast.
func (o *Orchestrator) AddRequest(sid core.SessionID, in AddInput) (domain.RequestID, error) {
	voter := o.Registry.Identity(sid)
	if !o.allow(string(voter)) {
		return "", domain.ErrRateLimited
	}
	room, ok := o.boundRoom(sid)
	if !ok {
		return "", domain.ErrNotInRoom
	}
	if strings.TrimSpace(in.Song) == "" {
		return "", domain.ErrEmptySong
	}

	user := strings.TrimSpace(in.User)
	if user == "" {
		user = o.Registry.Username(sid)
	}

	var id domain.RequestID
	room.Update(func(q *core.Queue) {
		req, dup := q.AddRequest(domain.NewRequest{
			Song:        strings.TrimSpace(in.Song),
			Artist:      strings.TrimSpace(in.Artist),
			Note:        strings.TrimSpace(in.Note),
			SubmittedBy: user,
			Voter:       voter,
			ClientKey:   in.ClientKey,
		})
		id = req.ID
		if dup {
			log.Debug().Str("module", "orch").Str("room", string(room.Code())).Str("request", string(id)).Msg("duplicate add_request")
			return
		}
		o.Broadcast.EmitToRoom(room.Code(), app.EventRequestAdded, req)
	})
	return id, nil
}

// Upvote records the caller's vote once per voter identity.
func (o *Orchestrator) Upvote(sid core.SessionID, id domain.RequestID) error {
	voter := o.Registry.Identity(sid)
	if !o.allow(string(voter) + ":" + string(id)) {
		return domain.ErrRateLimited
	}
	room, ok := o.boundRoom(sid)
	if !ok {
		return domain.ErrNotInRoom
	}

	var err error
	room.Update(func(q *core.Queue) {
		var req domain.Request
		req, err = q.Upvote(id, voter)
		if err != nil {
			return
		}
		o.Broadcast.EmitToRoom(room.Code(), app.EventRequestUpdated, req)
	})
	if err != nil {
		return fmt.Errorf("upvote %s: %w", id, err)
	}
	return nil
}
