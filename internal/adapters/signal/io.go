package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *Conn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
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
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sess *session) {
	c := sess.conn
	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * ctl.cfg.PingPeriod))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * ctl.cfg.PingPeriod))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", sess.sid).Msg("readPump closed")
				return
			}
			ctl.dispatch(sess, data)
		}
	}
}

func (ctl *Controller) dispatch(sess *session, data []byte) {
	var env struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "room:create":
		ctl.handleCreate(sess, env.ID, data)
	case "room:join":
		ctl.handleJoin(sess, env.ID, data)
	case "room:leave":
		ctl.handleLeave(sess, env.ID)
	case "room:end":
		ctl.handleEnd(sess, env.ID)
	case "room:get":
		ctl.handleGet(sess, env.ID, data)
	case "room:list":
		ctl.handleList(sess, env.ID, data)
	case "room:find-by-code":
		ctl.handleFindByCode(sess, env.ID, data)
	case "chat:message":
		ctl.handleChat(sess, env.ID, data)
	case "mod:mute":
		ctl.handleSetMuted(sess, data, true)
	case "mod:unmute":
		ctl.handleSetMuted(sess, data, false)
	case "mod:kick":
		ctl.handleKick(sess, data)
	case "mod:mute-all":
		ctl.handleMuteAll(sess, data)
	case "mod:toggle-speakers":
		ctl.handleToggleSpeakers(sess, data)
	case "hand:raise":
		ctl.handleHand(sess, data, true)
	case "hand:lower":
		ctl.handleHand(sess, data, false)
	case "self:toggle-mute":
		ctl.handleSelfMute(sess, data)
	case "peer:register":
		ctl.handleRegisterPeer(sess, data)
	case "peer:get-peers":
		ctl.handleGetPeers(sess, env.ID, data)
	case "ping":
		ctl.sendJSON(sess.conn, Message{Type: msgPong})
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown command")
	}
}

func (ctl *Controller) sendJSON(c *Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) ok(c *Conn, id string, data any) {
	ctl.sendJSON(c, Message{Type: msgResult, Payload: Result{ID: id, OK: true, Data: data}})
}

func (ctl *Controller) fail(c *Conn, id string, err error) {
	ctl.sendJSON(c, Message{Type: msgResult, Payload: Result{ID: id, OK: false, Error: err.Error()}})
}
