package app

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voiceroom/server/internal/domain"
)

// Coordinator is the single ownership domain for all room state. Every
// command locks, runs to completion (mutation plus event emission) and
// unlocks; nothing suspends inside the critical section, so commands are
// atomic with respect to each other.
//
// Commands that must report success or failure return values and errors;
// moderation, hand and self-mute commands are fire-and-forget and fail as
// silent no-ops when the caller lacks authority or the room is gone.
// That asymmetry is part of the observable contract.
type Coordinator struct {
	mu  sync.Mutex
	reg *Registry
	b   Broadcaster
}

func NewCoordinator(b Broadcaster) *Coordinator {
	return &Coordinator{
		reg: NewRegistry(),
		b:   b,
	}
}

type CreateRoomInput struct {
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Visibility string   `json:"type"`
	AccessCode string   `json:"accessCode"`
}

// RoomRef is the find-by-code answer: just enough to navigate to a room.
type RoomRef struct {
	RoomID domain.RoomID `json:"roomId"`
	Title  string        `json:"title"`
}

func (c *Coordinator) CreateRoom(user *domain.User, in CreateRoomInput) (*domain.Room, error) {
	tags, err := domain.NormalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	visibility := domain.VisibilityPublic
	accessCode := ""
	if in.Visibility == string(domain.VisibilityPrivate) {
		visibility = domain.VisibilityPrivate
		accessCode = strings.TrimSpace(in.AccessCode)
		if accessCode == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.reg.Create(user, domain.NormalizeTitle(in.Title), tags, visibility, accessCode)
	c.b.ToAll(EventListUpdate, c.reg.List(nil))
	return cloneRoom(room), nil
}

// Join appends the caller at the tail of the participant sequence. For a
// private room, non-host callers must supply the exact access code. A
// second join by the same user is idempotent: current state comes back
// and nothing is broadcast.
func (c *Coordinator) Join(user *domain.User, roomID domain.RoomID, accessCode string) (*domain.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if room.IsPrivate() && !room.IsHost(user.ID) && room.AccessCode != accessCode {
		return nil, domain.ErrUnauthorized
	}

	if _, ok := room.Participant(user.ID); ok {
		return cloneRoom(room), nil
	}

	// Stage mode applies at join time: non-hosts come in muted.
	muted := !room.Settings.SpeakersAllowed && user.ID != room.HostID
	p := domain.NewParticipant(user, muted)
	room.AddParticipant(p)
	log.Info().Str("module", "app.coordinator").Str("room", string(roomID)).Str("user", string(user.ID)).Msg("joined")

	c.b.ToUsers(memberIDs(room), EventUserJoined, UserJoinedPayload{
		Participant:  cloneParticipant(p),
		Participants: cloneParticipants(room),
	})
	c.b.ToAll(EventListUpdate, c.reg.List(nil))
	return cloneRoom(room), nil
}

// Leave removes the caller. Connection drops are normalized into this
// same path by the signal adapter.
func (c *Coordinator) Leave(userID domain.UserID, roomID domain.RoomID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if _, ok := room.Participant(userID); !ok {
		return domain.ErrNotInRoom
	}
	c.removeLocked(room, userID, false)
	c.b.ToAll(EventListUpdate, c.reg.List(nil))
	return nil
}

// End destroys the room unconditionally; host only.
func (c *Coordinator) End(callerID domain.UserID, roomID domain.RoomID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !room.IsHost(callerID) {
		return domain.ErrUnauthorized
	}

	recipients := memberIDs(room)
	c.reg.Delete(roomID)
	log.Info().Str("module", "app.coordinator").Str("room", string(roomID)).Msg("room ended by host")

	c.b.ToUsers(recipients, EventRoomEnded, RoomEndedPayload{RoomID: roomID})
	c.b.ToAll(EventListUpdate, c.reg.List(nil))
	return nil
}

func (c *Coordinator) Get(roomID domain.RoomID) (*domain.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (c *Coordinator) List(tagFilter []string) []RoomSummary {
	filter := make([]string, 0, len(tagFilter))
	for _, t := range tagFilter {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			filter = append(filter, t)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.List(filter)
}

func (c *Coordinator) Tags() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.Tags()
}

// FindByCode tries the value as a room id first, then as an access code.
func (c *Coordinator) FindByCode(code string) (*RoomRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(domain.RoomID(code))
	if !ok {
		room, ok = c.reg.ByCode(code)
	}
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &RoomRef{RoomID: room.ID, Title: room.Title}, nil
}

func (c *Coordinator) PostMessage(user *domain.User, roomID domain.RoomID, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > domain.MaxMessageLen {
		return nil, domain.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	msg := &domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	room.AppendMessage(msg)
	c.b.ToUsers(memberIDs(room), EventNewMessage, msg)
	return msg, nil
}

// ToggleSelfMute is always permitted for one's own state.
func (c *Coordinator) ToggleSelfMute(userID domain.UserID, roomID domain.RoomID, muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return
	}
	p, ok := room.Participant(userID)
	if !ok {
		return
	}
	p.IsMuted = muted
	c.b.ToUsers(memberIDs(room), EventParticipantsUpdate, ParticipantsPayload{Participants: cloneParticipants(room)})
}

// SetMuted mutes or unmutes a target. Non-host callers fall through as a
// silent no-op rather than an error.
func (c *Coordinator) SetMuted(callerID domain.UserID, roomID domain.RoomID, targetID domain.UserID, muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok || !room.IsHost(callerID) {
		return
	}
	p, ok := room.Participant(targetID)
	if !ok {
		return
	}
	p.IsMuted = muted

	typ := EventUserMuted
	if !muted {
		typ = EventUserUnmuted
	}
	c.b.ToUsers(memberIDs(room), typ, ModerationPayload{
		UserID:       targetID,
		Participants: cloneParticipants(room),
	})
}

// MuteAll mutes every participant except the caller and returns the ids
// that actually changed; already-muted participants are skipped so no
// redundant notification goes out.
func (c *Coordinator) MuteAll(callerID domain.UserID, roomID domain.RoomID) []domain.UserID {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok || !room.IsHost(callerID) {
		return nil
	}
	return c.muteAllLocked(room, callerID)
}

func (c *Coordinator) muteAllLocked(room *domain.Room, exceptID domain.UserID) []domain.UserID {
	var muted []domain.UserID
	for _, p := range room.Participants {
		if p.ID != exceptID && !p.IsMuted {
			p.IsMuted = true
			muted = append(muted, p.ID)
		}
	}
	recipients := memberIDs(room)
	for _, id := range muted {
		c.b.ToUsers(recipients, EventUserMuted, ModerationPayload{UserID: id})
	}
	c.b.ToUsers(recipients, EventParticipantsUpdate, ParticipantsPayload{Participants: cloneParticipants(room)})
	return muted
}

// Kick removes the target exactly like Leave, but the target gets an
// explicit kicked notice instead of a generic ended/left event.
func (c *Coordinator) Kick(callerID domain.UserID, roomID domain.RoomID, targetID domain.UserID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok || !room.IsHost(callerID) {
		return
	}
	if _, ok := room.Participant(targetID); !ok {
		return
	}
	c.removeLocked(room, targetID, true)
	c.b.ToAll(EventListUpdate, c.reg.List(nil))
}

// SetSpeakersAllowed toggles stage mode. Turning speakers off immediately
// mutes everyone but the host.
func (c *Coordinator) SetSpeakersAllowed(callerID domain.UserID, roomID domain.RoomID, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok || !room.IsHost(callerID) {
		return
	}
	room.Settings.SpeakersAllowed = allowed
	c.b.ToUsers(memberIDs(room), EventSettingsUpdate, SettingsPayload{SpeakersAllowed: allowed})
	if !allowed {
		c.muteAllLocked(room, callerID)
	}
}

func (c *Coordinator) RaiseHand(userID domain.UserID, roomID domain.RoomID) {
	c.setHand(userID, roomID, true)
}

func (c *Coordinator) LowerHand(userID domain.UserID, roomID domain.RoomID) {
	c.setHand(userID, roomID, false)
}

func (c *Coordinator) setHand(userID domain.UserID, roomID domain.RoomID, raised bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.reg.Get(roomID)
	if !ok {
		return
	}
	p, ok := room.Participant(userID)
	if !ok {
		return
	}
	p.HasRaisedHand = raised

	typ := EventHandRaised
	if !raised {
		typ = EventHandLowered
	}
	c.b.ToUsers(memberIDs(room), typ, HandPayload{
		UserID:       userID,
		Participants: cloneParticipants(room),
	})
}

// removeLocked is the shared removal path for leave and kick: it handles
// room destruction on empty and FIFO host transfer, and emits the
// per-trigger events. Callers hold the lock and have verified membership.
func (c *Coordinator) removeLocked(room *domain.Room, userID domain.UserID, kicked bool) {
	wasHost := room.IsHost(userID)
	recipientsBefore := memberIDs(room)
	room.RemoveParticipant(userID)

	if kicked {
		c.b.ToUser(userID, EventUserKicked, KickedPayload{UserID: userID})
	}

	if room.Empty() {
		c.reg.Delete(room.ID)
		log.Info().Str("module", "app.coordinator").Str("room", string(room.ID)).Msg("room emptied, destroyed")
		c.b.ToUsers(recipientsBefore, EventRoomEnded, RoomEndedPayload{RoomID: room.ID})
		return
	}

	if wasHost {
		room.TransferHost()
		log.Info().Str("module", "app.coordinator").Str("room", string(room.ID)).Str("host", string(room.HostID)).Msg("host transferred")
	}

	remaining := memberIDs(room)
	if kicked {
		c.b.ToUsers(remaining, EventParticipantsUpdate, ParticipantsPayload{Participants: cloneParticipants(room)})
	} else {
		c.b.ToUsers(remaining, EventUserLeft, UserLeftPayload{
			UserID:       userID,
			Participants: cloneParticipants(room),
		})
	}
	if wasHost {
		c.b.ToUsers(remaining, EventHostChanged, HostChangedPayload{
			HostID:   room.HostID,
			HostName: room.HostName,
		})
	}
}

func memberIDs(room *domain.Room) []domain.UserID {
	ids := make([]domain.UserID, 0, len(room.Participants))
	for _, p := range room.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

// cloneRoom returns a snapshot safe to marshal outside the lock.
// Participants are copied by value; messages are immutable, so sharing
// the entries behind a fresh slice header is enough.
func cloneRoom(room *domain.Room) *domain.Room {
	cp := *room
	cp.Tags = slices.Clone(room.Tags)
	cp.Participants = cloneParticipants(room)
	cp.Messages = slices.Clone(room.Messages)
	return &cp
}

func cloneParticipants(room *domain.Room) []*domain.Participant {
	out := make([]*domain.Participant, 0, len(room.Participants))
	for _, p := range room.Participants {
		pc := *p
		out = append(out, &pc)
	}
	return out
}

func cloneParticipant(p *domain.Participant) *domain.Participant {
	pc := *p
	return &pc
}
