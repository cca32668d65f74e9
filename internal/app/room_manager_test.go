package app

import (
	"strconv"
	"testing"

	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCode(t *testing.T) {
	cases := map[string]string{
		"abcd":   "ABCD",
		"a-b c1": "ABC1",
		"ab":     "AB",
		"ÄBCDE":  "BCDE",
		"":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeCode(in), in)
	}
}

func TestCreateRoomCodes(t *testing.T) {
	rooms := NewRoomManager(core.PrefixMatch{})

	r1 := rooms.CreateRoom(domain.RoomConfig{Code: "demo", Pin: "2468"})
	assert.Equal(t, domain.RoomCode("DEMO"), r1.Code())

	r2 := rooms.CreateRoom(domain.RoomConfig{Code: "DEMO"})
	assert.NotEqual(t, r1.Code(), r2.Code(), "taken override falls back to a random code")
	assert.Len(t, string(r2.Code()), domain.RoomCodeLen)

	r3 := rooms.CreateRoom(domain.RoomConfig{Code: "x"})
	assert.Len(t, string(r3.Code()), domain.RoomCodeLen)
	for _, ch := range string(r3.Code()) {
		assert.Contains(t, codeAlphabet, string(ch))
	}

	got, ok := rooms.GetRoom("demo")
	require.True(t, ok)
	assert.Same(t, r1, got)
	assert.Len(t, rooms.List(), 3)

	_, ok = rooms.GetRoom("ZZZZ")
	assert.False(t, ok)
}

func TestCreateRoomDefaults(t *testing.T) {
	rooms := NewRoomManager(nil)
	room := rooms.CreateRoom(domain.RoomConfig{})

	assert.Equal(t, defaultRoomName, room.Summary().Name)
	pin, err := strconv.Atoi(room.Pin())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pin, 1000)
	assert.LessOrEqual(t, pin, 9999)
	assert.Equal(t, room.Pin()[:1]+"***", room.PinHint())
}
