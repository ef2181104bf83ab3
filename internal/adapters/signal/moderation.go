package signal

import (
	"encoding/json"

	"github.com/voiceroom/server/internal/domain"
)

// Moderation, hand and self-mute commands are fire-and-forget: the
// coordinator drops them silently when the caller lacks authority or the
// room is gone, and no result frame is ever sent.

func (ctl *Controller) handleSetMuted(sess *session, data []byte, muted bool) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.coord.SetMuted(sess.user.ID, p.RoomID, p.UserID, muted)
}

func (ctl *Controller) handleKick(sess *session, data []byte) {
	var p struct {
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || sess.roomID == "" {
		return
	}
	ctl.coord.Kick(sess.user.ID, sess.roomID, p.UserID)
}

func (ctl *Controller) handleMuteAll(sess *session, data []byte) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.coord.MuteAll(sess.user.ID, p.RoomID)
}

func (ctl *Controller) handleToggleSpeakers(sess *session, data []byte) {
	var p struct {
		Allowed bool `json:"allowed"`
	}
	if err := json.Unmarshal(data, &p); err != nil || sess.roomID == "" {
		return
	}
	ctl.coord.SetSpeakersAllowed(sess.user.ID, sess.roomID, p.Allowed)
}

func (ctl *Controller) handleHand(sess *session, data []byte, raised bool) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if raised {
		ctl.coord.RaiseHand(sess.user.ID, p.RoomID)
	} else {
		ctl.coord.LowerHand(sess.user.ID, p.RoomID)
	}
}

func (ctl *Controller) handleSelfMute(sess *session, data []byte) {
	var p struct {
		RoomID  domain.RoomID `json:"roomId"`
		IsMuted bool          `json:"isMuted"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.coord.ToggleSelfMute(sess.user.ID, p.RoomID, p.IsMuted)
}
