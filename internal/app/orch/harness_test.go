package orch

import (
	"sync"
	"testing"

	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type recConn struct {
	mu     sync.Mutex
	frames []frame
}

func (c *recConn) TrySend(f core.Frame) error {
	var fr frame
	if err := json.Unmarshal(f, &fr); err != nil {
		return err
	}
	c.mu.Lock()
	c.frames = append(c.frames, fr)
	c.mu.Unlock()
	return nil
}

func (c *recConn) Close() {}

// take returns and forgets the recorded frames.
func (c *recConn) take() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.frames
	c.frames = nil
	return out
}

func types(frames []frame) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Type)
	}
	return out
}

func decodeData[T any](t *testing.T, f frame) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(f.Data, &v))
	return v
}

type harness struct {
	o    *Orchestrator
	room core.RoomService
}

const (
	testCode = domain.RoomCode("ABCD")
	testPin  = "2468"
)

func newHarness(identity app.IdentityMode, policy core.NowPlayingPolicy) *harness {
	rooms := app.NewRoomManager(policy)
	room := rooms.CreateRoom(domain.RoomConfig{Code: string(testCode), Name: "Friday", Pin: testPin})
	reg := app.NewRegistry(identity)
	return &harness{
		o: &Orchestrator{
			Registry:  reg,
			Rooms:     rooms,
			Broadcast: app.NewBroadcaster(reg, app.SimplePolicy{}),
		},
		room: room,
	}
}

func (h *harness) connect(sid core.SessionID, token string) *recConn {
	conn := &recConn{}
	meta := domain.NewMember(domain.NewUser(domain.UserID(sid)), token)
	h.o.Registry.BindSignal(sid, core.NewMemberSession(meta, conn), func() {})
	return conn
}

// joined connects sid and joins the test room, discarding the snapshot.
func (h *harness) joined(t *testing.T, sid core.SessionID) *recConn {
	t.Helper()
	conn := h.connect(sid, "")
	require.NoError(t, h.o.Join(sid, testCode, string(sid)))
	conn.take()
	return conn
}

func (h *harness) dj(t *testing.T, sid core.SessionID) *recConn {
	t.Helper()
	conn := h.joined(t, sid)
	require.NoError(t, h.o.DJAuth(sid, testCode, testPin))
	conn.take()
	return conn
}
