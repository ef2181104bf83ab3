package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/voiceroom/server/internal/app"
	"github.com/voiceroom/server/internal/domain"
)

func (ctl *Controller) handleCreate(sess *session, id string, data []byte) {
	var p app.CreateRoomInput
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.fail(sess.conn, id, domain.ErrInvalidInput)
		return
	}

	// Creating while inside another room moves the session, same as a
	// cross-room join.
	if sess.roomID != "" {
		ctl.leaveCurrent(sess)
	}

	room, err := ctl.coord.CreateRoom(sess.user, p)
	if err != nil {
		ctl.fail(sess.conn, id, err)
		return
	}
	sess.roomID = room.ID
	log.Info().Str("module", "signal").Str("sid", sess.sid).Str("room", string(room.ID)).Msg("create")
	ctl.ok(sess.conn, id, room)
}

func (ctl *Controller) handleJoin(sess *session, id string, data []byte) {
	var p struct {
		RoomID     domain.RoomID `json:"roomId"`
		AccessCode string        `json:"accessCode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.fail(sess.conn, id, domain.ErrInvalidInput)
		return
	}

	if sess.roomID != "" && sess.roomID != p.RoomID {
		ctl.leaveCurrent(sess)
	}

	room, err := ctl.coord.Join(sess.user, p.RoomID, p.AccessCode)
	if err != nil {
		ctl.fail(sess.conn, id, err)
		return
	}
	sess.roomID = room.ID
	log.Info().Str("module", "signal").Str("sid", sess.sid).Str("room", string(room.ID)).Msg("join")
	ctl.ok(sess.conn, id, room)
}

func (ctl *Controller) handleLeave(sess *session, id string) {
	if sess.roomID == "" {
		ctl.fail(sess.conn, id, domain.ErrNotInRoom)
		return
	}
	ctl.leaveCurrent(sess)
	ctl.ok(sess.conn, id, nil)
}

func (ctl *Controller) handleEnd(sess *session, id string) {
	if sess.roomID == "" {
		ctl.fail(sess.conn, id, domain.ErrNotInRoom)
		return
	}
	if err := ctl.coord.End(sess.user.ID, sess.roomID); err != nil {
		ctl.fail(sess.conn, id, err)
		return
	}
	sess.roomID = ""
	ctl.ok(sess.conn, id, nil)
}

func (ctl *Controller) handleGet(sess *session, id string, data []byte) {
	var p struct {
		RoomID domain.RoomID `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.fail(sess.conn, id, domain.ErrInvalidInput)
		return
	}
	room, err := ctl.coord.Get(p.RoomID)
	if err != nil {
		ctl.fail(sess.conn, id, err)
		return
	}
	ctl.ok(sess.conn, id, room)
}

func (ctl *Controller) handleList(sess *session, id string, data []byte) {
	var p struct {
		Tags []string `json:"tags"`
	}
	_ = json.Unmarshal(data, &p)
	ctl.ok(sess.conn, id, ctl.coord.List(p.Tags))
}

func (ctl *Controller) handleFindByCode(sess *session, id string, data []byte) {
	var p struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.Code == "" {
		ctl.fail(sess.conn, id, domain.ErrInvalidInput)
		return
	}
	ref, err := ctl.coord.FindByCode(p.Code)
	if err != nil {
		ctl.fail(sess.conn, id, err)
		return
	}
	ctl.ok(sess.conn, id, ref)
}

// leaveCurrent detaches the session from its room. The room may already
// be gone (ended by the host, or the user was kicked); that is not an
// error here, the session record just catches up.
func (ctl *Controller) leaveCurrent(sess *session) {
	err := ctl.coord.Leave(sess.user.ID, sess.roomID)
	if err != nil && !errors.Is(err, domain.ErrRoomNotFound) && !errors.Is(err, domain.ErrNotInRoom) {
		log.Warn().Err(err).Str("module", "signal").Str("sid", sess.sid).Msg("leave")
	}
	sess.roomID = ""
}
