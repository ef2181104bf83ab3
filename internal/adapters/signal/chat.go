package signal

import (
	"encoding/json"

	"github.com/voiceroom/server/internal/domain"
)

func (ctl *Controller) handleChat(sess *session, id string, data []byte) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
		Text   string        `json:"text"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.fail(sess.conn, id, domain.ErrInvalidInput)
		return
	}
	roomID := p.RoomID
	if roomID == "" {
		roomID = sess.roomID
	}

	msg, err := ctl.coord.PostMessage(sess.user, roomID, p.Text)
	if err != nil {
		ctl.fail(sess.conn, id, err)
		return
	}
	ctl.ok(sess.conn, id, msg)
}
