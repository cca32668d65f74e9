package orch

import (
	"testing"

	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDJAuthSendsDJSnapshot(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	a := h.connect("a", "")

	require.NoError(t, h.o.DJAuth("a", "abcd", testPin))

	frames := a.take()
	require.Equal(t, []string{app.EventDJAuthOK}, types(frames))
	payload := decodeData[struct {
		Room domain.RoomState `json:"room"`
	}](t, frames[0])
	assert.Equal(t, "2***", payload.Room.PinHint)
	assert.Equal(t, testCode, payload.Room.Code)
	assert.True(t, h.o.Registry.IsDJ("a", testCode))

	// a DJ's own join snapshot carries the hint too
	require.NoError(t, h.o.Join("a", testCode, "Ann"))
	frames = a.take()
	require.Len(t, frames, 1)
	assert.Equal(t, "2***", decodeData[domain.RoomState](t, frames[0]).PinHint)
}

func TestWrongPinThenUnauthorized(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	a := h.joined(t, "a")
	id, err := h.o.AddRequest("a", AddInput{Song: "Levels"})
	require.NoError(t, err)
	a.take()

	err = h.o.DJAuth("a", testCode, "9999")
	require.ErrorIs(t, err, domain.ErrInvalidPin)
	assert.False(t, h.o.Registry.IsDJ("a", testCode))

	err = h.o.DJAction("a", DJCommand{Action: ActionDelete, ID: id})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Len(t, h.room.Snapshot(false).Queue, 1)
	assert.Empty(t, a.take())
}

func TestNonDJCannotMutate(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	h.joined(t, "a")
	id, err := h.o.AddRequest("a", AddInput{Song: "Levels"})
	require.NoError(t, err)
	before := h.room.Snapshot(false)

	name := "Hijacked"
	cmds := []DJCommand{
		{Action: ActionSetStatus, ID: id, Status: domain.StatusPlaying},
		{Action: ActionReorder, Order: []domain.RequestID{id}},
		{Action: ActionDelete, ID: id},
		{Action: ActionRoomMeta, Meta: domain.RoomMeta{Name: &name}},
	}
	for _, cmd := range cmds {
		require.ErrorIs(t, h.o.DJAction("a", cmd), domain.ErrUnauthorized, cmd.Action)
	}
	assert.Equal(t, before, h.room.Snapshot(false))
}

func TestDJElevationIsPerRoom(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	other := h.o.Rooms.CreateRoom(domain.RoomConfig{Code: "WXYZ", Pin: "1111"})
	h.dj(t, "a")

	require.NoError(t, h.o.Join("a", other.Code(), "Ann"))
	err := h.o.DJAction("a", DJCommand{Action: ActionReorder})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNowPlayingFollowsStatus(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	aud := h.joined(t, "aud")
	dj := h.dj(t, "dj")
	r1, err := h.o.AddRequest("aud", AddInput{Song: "Levels", Artist: "Avicii"})
	require.NoError(t, err)
	aud.take()
	dj.take()

	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionSetStatus, ID: r1, Status: domain.StatusPlaying}))
	assert.Equal(t, "Avicii — Levels", h.room.Summary().NowPlaying)

	frames := aud.take()
	require.Equal(t, []string{app.EventRequestUpdated, app.EventRoomUpdated}, types(frames))
	assert.Equal(t, domain.StatusPlaying, decodeData[domain.Request](t, frames[0]).Status)
	assert.JSONEq(t, `{"nowPlaying":"Avicii — Levels"}`, string(frames[1].Data))
	assert.Len(t, dj.take(), 2)

	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionDelete, ID: r1}))
	assert.Equal(t, "", h.room.Summary().NowPlaying)

	frames = aud.take()
	require.Equal(t, []string{app.EventRequestDeleted, app.EventRoomUpdated}, types(frames))
	assert.JSONEq(t, `{"id":"`+string(r1)+`"}`, string(frames[0].Data))
	assert.JSONEq(t, `{"nowPlaying":""}`, string(frames[1].Data))
	assert.Empty(t, h.room.Snapshot(false).Queue)
}

func TestDoneKeepsRequestAndClearsBanner(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	h.dj(t, "dj")
	r1, err := h.o.AddRequest("dj", AddInput{Song: "Levels", Artist: "Avicii"})
	require.NoError(t, err)
	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionSetStatus, ID: r1, Status: domain.StatusPlaying}))
	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionSetStatus, ID: r1, Status: domain.StatusDone}))

	st := h.room.Snapshot(false)
	require.Len(t, st.Queue, 1)
	assert.Equal(t, domain.StatusDone, st.Queue[0].Status)
	assert.Empty(t, st.NowPlaying)
}

func TestSourceMatchDoesNotCrossClear(t *testing.T) {
	h := newHarness(app.IdentityConnection, core.SourceMatch{})
	h.dj(t, "dj")
	r1, err := h.o.AddRequest("dj", AddInput{Song: "Levels", Artist: "Avicii"})
	require.NoError(t, err)
	r2, err := h.o.AddRequest("dj", AddInput{Song: "Levels (Remix)", Artist: "Avicii"})
	require.NoError(t, err)

	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionSetStatus, ID: r2, Status: domain.StatusPlaying}))
	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionDelete, ID: r1}))
	assert.Equal(t, "Avicii — Levels (Remix)", h.room.Summary().NowPlaying)
}

func TestDJSilentNoOps(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	dj := h.dj(t, "dj")
	r1, err := h.o.AddRequest("dj", AddInput{Song: "Levels"})
	require.NoError(t, err)
	dj.take()

	err = h.o.DJAction("dj", DJCommand{Action: ActionSetStatus, ID: "req_missing", Status: domain.StatusDone})
	require.ErrorIs(t, err, domain.ErrUnknownRequest)
	err = h.o.DJAction("dj", DJCommand{Action: ActionSetStatus, ID: r1, Status: "paused"})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	err = h.o.DJAction("dj", DJCommand{Action: ActionDelete, ID: "req_missing"})
	require.ErrorIs(t, err, domain.ErrUnknownRequest)
	err = h.o.DJAction("dj", DJCommand{Action: "shuffle"})
	require.ErrorIs(t, err, domain.ErrUnknownAction)

	assert.Empty(t, dj.take())
	assert.Equal(t, domain.StatusQueued, h.room.Snapshot(false).Queue[0].Status)
}

func TestReorderBroadcastsSanitizedOrder(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	dj := h.dj(t, "dj")
	r1, _ := h.o.AddRequest("dj", AddInput{Song: "One"})
	r2, _ := h.o.AddRequest("dj", AddInput{Song: "Two"})
	r3, _ := h.o.AddRequest("dj", AddInput{Song: "Three"})
	dj.take()

	require.NoError(t, h.o.DJAction("dj", DJCommand{
		Action: ActionReorder,
		Order:  []domain.RequestID{r3, "nope", r3, r1},
	}))

	frames := dj.take()
	require.Equal(t, []string{app.EventOrderUpdated}, types(frames))
	assert.Equal(t, []domain.RequestID{r3, r1, r2}, decodeData[[]domain.RequestID](t, frames[0]))
}

func TestRoomMetaBroadcastsChangedFieldsOnly(t *testing.T) {
	h := newHarness(app.IdentityConnection, nil)
	dj := h.dj(t, "dj")

	name := "Saturday"
	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionRoomMeta, Meta: domain.RoomMeta{Name: &name}}))
	frames := dj.take()
	require.Equal(t, []string{app.EventRoomUpdated}, types(frames))
	assert.JSONEq(t, `{"name":"Saturday"}`, string(frames[0].Data))

	require.NoError(t, h.o.DJAction("dj", DJCommand{Action: ActionRoomMeta}))
	assert.Empty(t, dj.take())
	assert.Equal(t, "Saturday", h.room.Summary().Name)
}
