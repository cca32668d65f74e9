package app

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"

	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	defaultRoomName = "New Room"
)

type RoomManagerImpl struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomCode]core.RoomService
	policy core.NowPlayingPolicy
}

func NewRoomManager(policy core.NowPlayingPolicy) core.RoomStore {
	return &RoomManagerImpl{
		rooms:  make(map[domain.RoomCode]core.RoomService),
		policy: policy,
	}
}

// CreateRoom always produces a room. An override code that is not exactly
// four [A-Z0-9] characters after sanitizing, or that is taken, falls back to
// a random code.
func (f *RoomManagerImpl) CreateRoom(cfg domain.RoomConfig) core.RoomService {
	f.mu.Lock()
	defer f.mu.Unlock()

	code := domain.RoomCode(SanitizeCode(cfg.Code))
	if _, taken := f.rooms[code]; taken || len(code) != domain.RoomCodeLen {
		if cfg.Code != "" {
			log.Warn().Str("module", "app.rooms").Str("code", cfg.Code).Msg("room code override rejected, generating one")
		}
		code = f.randomCodeLocked()
	}

	pin := strings.TrimSpace(cfg.Pin)
	if pin == "" {
		pin = randomPin()
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = defaultRoomName
	}

	room := core.NewRoomService(code, pin, core.NewQueue(name, cfg.TipsURL, f.policy))
	f.rooms[code] = room
	log.Info().Str("module", "app.rooms").Str("code", string(code)).Str("name", name).Msg("room created")
	return room
}

func (f *RoomManagerImpl) GetRoom(code domain.RoomCode) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[domain.NormalizeCode(string(code))]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for code, r := range f.rooms {
		out = append(out, core.RoomInfo{Code: code, Name: r.Summary().Name})
	}
	return out
}

func (f *RoomManagerImpl) randomCodeLocked() domain.RoomCode {
	for {
		code := domain.RoomCode(core.RandomString(codeAlphabet, domain.RoomCodeLen))
		if _, taken := f.rooms[code]; !taken {
			return code
		}
	}
}

// SanitizeCode upper-cases s, keeps [A-Z0-9] and cuts it to four characters.
func SanitizeCode(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == domain.RoomCodeLen {
				break
			}
		}
	}
	return b.String()
}

// randomPin returns a four digit pin in 1000..9999.
func randomPin() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "2468"
	}
	return big.NewInt(0).Add(n, big.NewInt(1000)).String()
}
