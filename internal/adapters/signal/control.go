package signal

import (
	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
)

func (ctl *SignalWSController) handlePing(sid core.SessionID) {
	ctl.send(sid, app.EventPong, nil)
}
