package app

import (
	"github.com/rs/zerolog/log"

	"github.com/voiceroom/server/internal/domain"
)

// PeerInfo is what a newcomer needs to dial an already-registered peer.
type PeerInfo struct {
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
	PeerID   string        `json:"peerId"`
}

// RegisterPeer stores the caller's transport handle and notifies every
// other participant that already registered one. Registering for a room
// the caller is not a member of is a defensive no-op, not an error.
//
// The mesh stays duplicate-free without any handshake: a participant only
// initiates calls to peers visible in its own Peers snapshot (those
// registered before it); everyone registering later reaches it through
// this peer:new notice instead.
func (c *Coordinator) RegisterPeer(user *domain.User, roomID domain.RoomID, peerID string) {
	if peerID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return
	}
	p, ok := room.Participant(user.ID)
	if !ok {
		return
	}
	p.PeerID = peerID
	log.Info().Str("module", "app.peers").Str("room", string(roomID)).Str("user", string(user.ID)).Msg("peer registered")

	recipients := make([]domain.UserID, 0, len(room.Participants))
	for _, other := range room.Participants {
		if other.ID != user.ID && other.PeerID != "" {
			recipients = append(recipients, other.ID)
		}
	}
	c.b.ToUsers(recipients, EventPeerNew, PeerNewPayload{
		UserID:   user.ID,
		Username: user.Username,
		PeerID:   peerID,
	})
}

// Peers lists the registered peers of everyone else in the room. No
// retry bookkeeping lives here: a failed call simply leaves the pair
// without an edge until the next registration event.
func (c *Coordinator) Peers(userID domain.UserID, roomID domain.RoomID) ([]PeerInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	peers := make([]PeerInfo, 0, len(room.Participants))
	for _, p := range room.Participants {
		if p.ID == userID || p.PeerID == "" {
			continue
		}
		peers = append(peers, PeerInfo{UserID: p.ID, Username: p.Name, PeerID: p.PeerID})
	}
	return peers, nil
}
