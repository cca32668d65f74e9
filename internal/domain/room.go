package domain

import "strings"

const (
	RoomCodeLen      = 4
	MaxRoomNameLen   = 64
	MaxTipsURLLen    = 256
	MaxNowPlayingLen = 120
)

type RoomCode string

// NormalizeCode upper-cases a user supplied code so lookups are case-insensitive.
func NormalizeCode(s string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(s)))
}

// RoomConfig describes a room to be created.
type RoomConfig struct {
	Code    string
	Name    string
	Pin     string
	TipsURL string
}

// RoomSummary is the public view of a room: no queue, no pin.
type RoomSummary struct {
	Code       RoomCode `json:"code"`
	Name       string   `json:"name"`
	TipsURL    string   `json:"tipsUrl"`
	NowPlaying string   `json:"nowPlaying"`
}

// RoomState is the full snapshot sent on join and to an authenticated DJ.
type RoomState struct {
	Code       RoomCode  `json:"code"`
	Name       string    `json:"name"`
	TipsURL    string    `json:"tipsUrl"`
	NowPlaying string    `json:"nowPlaying"`
	PinHint    string    `json:"pinHint,omitempty"`
	Queue      []Request `json:"queue"`
}

// RoomMeta is a partial room update; nil fields are left untouched.
type RoomMeta struct {
	Name       *string `json:"name,omitempty"`
	TipsURL    *string `json:"tipsUrl,omitempty"`
	NowPlaying *string `json:"nowPlaying,omitempty"`
}

func (m RoomMeta) Empty() bool {
	return m.Name == nil && m.TipsURL == nil && m.NowPlaying == nil
}

// PinHint reveals the first digit only.
func PinHint(pin string) string {
	for _, r := range pin {
		return string(r) + "***"
	}
	return ""
}
