package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/voiceroom/server/internal/app"
	"github.com/voiceroom/server/internal/config"
	"github.com/voiceroom/server/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller owns the websocket command surface: it decodes client
// commands, drives the coordinator, and answers explicit-response
// commands. Broadcasts go the other way, coordinator -> hub.
type Controller struct {
	coord *app.Coordinator
	hub   *Hub
	cfg   *config.Config
}

func NewController(coord *app.Coordinator, hub *Hub, cfg *config.Config) *Controller {
	return &Controller{coord: coord, hub: hub, cfg: cfg}
}

// Conn wraps a websocket with a bounded send queue. TrySend never
// blocks; when the queue is full the frame is dropped.
type Conn struct {
	sid    string
	userID domain.UserID
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *Conn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// session is the per-connection record of which room the connection is
// in. It references the room by id only, never by a live pointer into
// the registry, and is touched solely by the connection's read loop.
type session struct {
	sid    string
	user   *domain.User
	conn   *Conn
	roomID domain.RoomID
}

// HandleSignal runs the connection to completion. The read loop stays on
// the request goroutine so cleanup happens exactly once when it exits,
// whether the client left cleanly or the network dropped.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context, user *domain.User) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &Conn{
		sid:    uuid.NewString(),
		userID: user.ID,
		conn:   ws,
		send:   make(chan []byte, 32),
	}
	sess := &session{sid: conn.sid, user: user, conn: conn}
	log.Info().Str("module", "signal").Str("sid", conn.sid).Str("user", string(user.ID)).Msg("new WS connection")

	ctl.hub.Register(conn)
	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, conn)
	ctl.readPump(ctx, sess)

	// A dropped connection is a leave: run the same cleanup path as an
	// explicit room:leave command.
	if sess.roomID != "" {
		if err := ctl.coord.Leave(user.ID, sess.roomID); err != nil {
			log.Debug().Err(err).Str("module", "signal").Str("sid", sess.sid).Msg("leave on disconnect")
		}
	}
	ctl.hub.Unregister(conn)
	cancel()
	conn.Close()
	log.Info().Str("module", "signal").Str("sid", conn.sid).Msg("connection closed")
}
