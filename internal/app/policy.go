package app

import (
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a session whose outbound buffer is full.
type Policy interface {
	OnBackPressure(code domain.RoomCode, member core.MemberSession) BackpressureAction
}

// SimplePolicy kicks slow members; they reconnect and resync with a fresh join.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(code domain.RoomCode, member core.MemberSession) BackpressureAction {
	return KickMember
}
