package app

import (
	"testing"

	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIdentityModes(t *testing.T) {
	conn := NewRegistry(IdentityConnection)
	bindConn(conn, "s1", "tok", nil)
	assert.Equal(t, domain.VoterID("conn:s1"), conn.Identity("s1"))

	client := NewRegistry(IdentityClient)
	bindConn(client, "s1", "tok", nil)
	bindConn(client, "s2", "tok", nil)
	bindConn(client, "s3", "", nil)
	assert.Equal(t, domain.VoterID("client:tok"), client.Identity("s1"))
	assert.Equal(t, client.Identity("s1"), client.Identity("s2"))
	assert.Equal(t, domain.VoterID("conn:s3"), client.Identity("s3"), "no token falls back to the connection")

	assert.Equal(t, IdentityConnection, NewRegistry("bogus").identity)
}

func TestRegistryAuthorizeDJ(t *testing.T) {
	rooms := NewRoomManager(nil)
	room := rooms.CreateRoom(domain.RoomConfig{Code: "ABCD", Pin: "2468"})
	other := rooms.CreateRoom(domain.RoomConfig{Code: "WXYZ", Pin: "1111"})
	reg := NewRegistry(IdentityConnection)
	bindConn(reg, "s1", "", nil)

	_, err := reg.AuthorizeDJ("s1", rooms, "ABCD", "9999")
	require.ErrorIs(t, err, domain.ErrInvalidPin)
	assert.False(t, reg.IsDJ("s1", room.Code()))

	_, err = reg.AuthorizeDJ("s1", rooms, "QQQQ", "2468")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = reg.AuthorizeDJ("ghost", rooms, "ABCD", "2468")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	got, err := reg.AuthorizeDJ("s1", rooms, "abcd", "2468")
	require.NoError(t, err)
	assert.Equal(t, room.Code(), got.Code())
	assert.True(t, reg.IsDJ("s1", room.Code()))

	// rebinding to the same room keeps the elevation, another room drops it
	reg.Bind("s1", room.Code())
	assert.True(t, reg.IsDJ("s1", room.Code()))
	reg.Bind("s1", other.Code())
	assert.False(t, reg.IsDJ("s1", other.Code()))
	assert.False(t, reg.IsDJ("s1", room.Code()))
}

func TestRegistryUsernameAndUnbind(t *testing.T) {
	reg := NewRegistry(IdentityConnection)
	bindConn(reg, "s1", "", nil)

	assert.Equal(t, domain.DefaultUsername, reg.Username("s1"))
	require.ErrorIs(t, reg.UpdateUsername("s1", "  "), domain.ErrUsernameEmpty)
	require.NoError(t, reg.UpdateUsername("s1", "Ann"))
	assert.Equal(t, "Ann", reg.Username("s1"))

	require.True(t, reg.Bind("s1", "ABCD"))
	assert.Len(t, reg.MembersOfRoom("ABCD"), 1)

	reg.Unbind("s1")
	_, _, ok := reg.RoomOf("s1")
	assert.False(t, ok)
	assert.Empty(t, reg.MembersOfRoom("ABCD"))
	assert.False(t, reg.Bind("s1", "ABCD"))
	assert.False(t, reg.Cancel(core.SessionID("s1")))
}
