package signal

import (
	"context"
	"time"

	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// writePump owns every write on the socket. It closes the connection when
// ctx ends, which also unblocks the read pump.
func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		cancel()
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.handleSignal(sid, data)
	}
}

func (ctl *SignalWSController) handleSignal(sid core.SessionID, data []byte) {
	var env app.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		ctl.sendError(sid, errBadPayload)
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(sid, env)
	case "dj_auth":
		ctl.handleDJAuth(sid, env)
	case "add_request":
		ctl.handleAddRequest(sid, env)
	case "upvote":
		ctl.handleUpvote(sid, env)
	case "dj_action":
		ctl.handleDJAction(sid, env)
	case "rename":
		ctl.handleRename(sid, env)
	case "whoami":
		ctl.handleWhoAmI(sid)
	case "ping":
		ctl.handlePing(sid)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendError(sid, errBadPayload)
	}
}

// parse unmarshals env.Data into p and validates it.
func (ctl *SignalWSController) parse(env app.Envelope, p any) error {
	data := env.Data
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, p); err != nil {
		return err
	}
	return ctl.validate.Struct(p)
}

// decode is parse that answers the caller with bad_payload on failure.
func (ctl *SignalWSController) decode(sid core.SessionID, env app.Envelope, p any) bool {
	if err := ctl.parse(env, p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("type", env.Type).Msg("bad payload")
		ctl.reject(sid, env, errBadPayload)
		return false
	}
	return true
}

// reject answers through the ack when the caller asked for one.
func (ctl *SignalWSController) reject(sid core.SessionID, env app.Envelope, msg string) {
	if env.Ack != "" {
		ctl.ack(sid, env.Ack, ackPayload{OK: false, Error: msg})
		return
	}
	ctl.sendError(sid, msg)
}

type ackPayload struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (ctl *SignalWSController) ack(sid core.SessionID, ack string, p ackPayload) {
	if err := ctl.Orch.Broadcast.Ack(sid, ack, p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("ack")
	}
}

func (ctl *SignalWSController) send(sid core.SessionID, event string, v any) {
	if err := ctl.Orch.Broadcast.EmitTo(sid, event, v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("event", event).Msg("send")
	}
}

func (ctl *SignalWSController) sendError(sid core.SessionID, msg string) {
	ctl.send(sid, app.EventErrorMsg, msg)
}
