package signal

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/voiceroom/server/internal/app"
	"github.com/voiceroom/server/internal/domain"
)

// Hub resolves user ids to live connections. Recipient sets are computed
// by the coordinator from authoritative room state; the hub only fans
// out. Delivery is at-most-once: frames to slow or closed connections
// are dropped, never queued for replay.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Conn
	byUser map[domain.UserID]map[string]*Conn
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]*Conn),
		byUser: make(map[domain.UserID]map[string]*Conn),
	}
}

func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.sid] = c
	set, ok := h.byUser[c.userID]
	if !ok {
		set = make(map[string]*Conn)
		h.byUser[c.userID] = set
	}
	set[c.sid] = c
}

func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c.sid)
	if set, ok := h.byUser[c.userID]; ok {
		delete(set, c.sid)
		if len(set) == 0 {
			delete(h.byUser, c.userID)
		}
	}
}

func (h *Hub) ToUsers(ids []domain.UserID, typ app.EventType, payload any) {
	data, ok := encode(typ, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range ids {
		for _, c := range h.byUser[id] {
			h.trySend(c, data)
		}
	}
}

func (h *Hub) ToUser(id domain.UserID, typ app.EventType, payload any) {
	data, ok := encode(typ, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.byUser[id] {
		h.trySend(c, data)
	}
}

func (h *Hub) ToAll(typ app.EventType, payload any) {
	data, ok := encode(typ, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		h.trySend(c, data)
	}
}

func (h *Hub) trySend(c *Conn, data []byte) {
	if err := c.TrySend(data); err != nil {
		log.Debug().Str("module", "signal.hub").Str("sid", c.sid).Err(err).Msg("dropped frame")
	}
}

func encode(typ app.EventType, payload any) ([]byte, bool) {
	data, err := json.Marshal(Message{Type: string(typ), Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "signal.hub").Str("type", string(typ)).Msg("marshal event")
		return nil, false
	}
	return data, true
}
