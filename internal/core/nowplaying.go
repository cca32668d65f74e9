package core

import (
	"strings"

	"github.com/dkeye/Jukebox/internal/domain"
)

// NowPlayingPolicy decides whether finishing or deleting req clears the banner.
type NowPlayingPolicy interface {
	Clears(current string, source domain.RequestID, req domain.Request) bool
}

const (
	MatchPrefix = "prefix"
	MatchSource = "source"
)

// PrefixMatch clears when the banner starts with the request's label.
// Two tracks sharing a label prefix can clear each other's banner.
type PrefixMatch struct{}

func (PrefixMatch) Clears(current string, _ domain.RequestID, req domain.Request) bool {
	label := domain.Truncate(req.Label(), domain.MaxNowPlayingLen)
	return current != "" && label != "" && strings.HasPrefix(current, label)
}

// SourceMatch clears only when req is the request that set the banner.
type SourceMatch struct{}

func (SourceMatch) Clears(current string, source domain.RequestID, req domain.Request) bool {
	return current != "" && source != "" && source == req.ID
}

// NowPlayingPolicyFor maps a config value to a policy; unknown values get PrefixMatch.
func NowPlayingPolicyFor(name string) NowPlayingPolicy {
	if name == MatchSource {
		return SourceMatch{}
	}
	return PrefixMatch{}
}
