package signal

import (
	"encoding/json"

	"github.com/voiceroom/server/internal/domain"
)

func (ctl *Controller) handleRegisterPeer(sess *session, data []byte) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
		PeerID string        `json:"peerId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.coord.RegisterPeer(sess.user, p.RoomID, p.PeerID)
}

func (ctl *Controller) handleGetPeers(sess *session, id string, data []byte) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.fail(sess.conn, id, domain.ErrInvalidInput)
		return
	}
	peers, err := ctl.coord.Peers(sess.user.ID, p.RoomID)
	if err != nil {
		ctl.fail(sess.conn, id, err)
		return
	}
	ctl.ok(sess.conn, id, peers)
}
