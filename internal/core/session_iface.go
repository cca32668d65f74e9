package core

import "github.com/dkeye/Jukebox/internal/domain"

// SessionID identifies one live connection. A reconnect gets a new one.
type SessionID string

// MemberSession binds domain.Member and its transport endpoint.
// This is what the broadcaster fans out to.
type MemberSession interface {
	Meta() *domain.Member
	Signal() SignalConnection
}
