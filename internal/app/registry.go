package app

import (
	"context"
	"sync"

	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

// IdentityMode selects what a vote is keyed by.
type IdentityMode string

const (
	// IdentityConnection keys votes by connection; a reconnect can vote again.
	IdentityConnection IdentityMode = "connection"
	// IdentityClient keys votes by the cookie-session client token.
	IdentityClient IdentityMode = "client"
)

type sessionEntry struct {
	RoomCode domain.RoomCode
	DJ       bool
	Session  core.MemberSession
	Cancel   context.CancelFunc
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	identity IdentityMode
}

func NewRegistry(identity IdentityMode) *Registry {
	if identity != IdentityClient {
		identity = IdentityConnection
	}
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		identity: identity,
	}
}

func (r *Registry) BindSignal(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

// Bind subscribes sid to room broadcasts. Binding to a different room drops
// DJ elevation; binding to the same room again changes nothing.
func (r *Registry) Bind(sid core.SessionID, code domain.RoomCode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return false
	}
	if entry.RoomCode == code {
		return true
	}
	entry.RoomCode = code
	entry.DJ = false
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(code)).Msg("updated room")
	return true
}

// AuthorizeDJ elevates sid to DJ of the room on a pin match and binds it there.
func (r *Registry) AuthorizeDJ(sid core.SessionID, rooms core.RoomStore, code domain.RoomCode, pin string) (core.RoomService, error) {
	room, ok := rooms.GetRoom(code)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if !room.CheckPin(pin) {
		log.Warn().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(code)).Msg("dj pin mismatch")
		return nil, domain.ErrInvalidPin
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	entry.RoomCode = room.Code()
	entry.DJ = true
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(code)).Msg("dj authorized")
	return room, nil
}

// IsDJ reports whether sid is an authenticated DJ bound to code.
func (r *Registry) IsDJ(sid core.SessionID, code domain.RoomCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	return ok && e.DJ && e.RoomCode == code
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomCode, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[sid]
	if !ok || entry.RoomCode == "" {
		return "", nil, false
	}
	return entry.RoomCode, entry.Session, true
}

// Identity returns the vote deduplication key of sid.
func (r *Registry) Identity(sid core.SessionID) domain.VoterID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.identity == IdentityClient {
		if e, ok := r.sessions[sid]; ok && e.Session.Meta().ClientToken != "" {
			return domain.VoterID("client:" + e.Session.Meta().ClientToken)
		}
	}
	return domain.VoterID("conn:" + string(sid))
}

func (r *Registry) UpdateUsername(sid core.SessionID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	if err := e.Session.Meta().User.SetUsername(name); err != nil {
		return err
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", e.Session.Meta().User.Username).Msg("updated username")
	return nil
}

func (r *Registry) Username(sid core.SessionID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session.Meta().User.Username
	}
	return domain.DefaultUsername
}

type regSnap struct {
	SID     core.SessionID
	Session core.MemberSession
}

func (r *Registry) MembersOfRoom(code domain.RoomCode) []regSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]regSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		if e.RoomCode == code {
			out = append(out, regSnap{SID: sid, Session: e.Session})
		}
	}
	return out
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
