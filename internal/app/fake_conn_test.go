package app

import (
	"errors"
	"sync"

	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/goccy/go-json"
)

var errFull = errors.New("full")

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errFull
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		var env Envelope
		_ = json.Unmarshal(f, &env)
		out = append(out, env.Type)
	}
	return out
}

func bindConn(reg *Registry, sid core.SessionID, token string, cancel func()) *fakeConn {
	conn := &fakeConn{}
	meta := domain.NewMember(domain.NewUser(domain.UserID(sid)), token)
	if cancel == nil {
		cancel = func() {}
	}
	reg.BindSignal(sid, core.NewMemberSession(meta, conn), cancel)
	return conn
}
