package app

import "github.com/voiceroom/server/internal/domain"

// EventType names are the wire values clients subscribe to.
type EventType string

const (
	EventUserJoined         EventType = "room:user-joined"
	EventUserLeft           EventType = "room:user-left"
	EventHostChanged        EventType = "room:host-changed"
	EventRoomEnded          EventType = "room:ended"
	EventListUpdate         EventType = "room:list-update"
	EventParticipantsUpdate EventType = "room:participants-update"
	EventSettingsUpdate     EventType = "room:settings-update"
	EventUserMuted          EventType = "mod:user-muted"
	EventUserUnmuted        EventType = "mod:user-unmuted"
	EventUserKicked         EventType = "mod:user-kicked"
	EventNewMessage         EventType = "chat:new-message"
	EventHandRaised         EventType = "hand:raised"
	EventHandLowered        EventType = "hand:lowered"
	EventPeerNew            EventType = "peer:new"
)

// Broadcaster is the one-way server->client notification channel, kept
// separate from command responses. The coordinator calls it while holding
// its lock, so per-room delivery order matches command acceptance order.
// Implementations must not block.
type Broadcaster interface {
	ToUsers(ids []domain.UserID, typ EventType, payload any)
	ToUser(id domain.UserID, typ EventType, payload any)
	ToAll(typ EventType, payload any)
}

type UserJoinedPayload struct {
	Participant  *domain.Participant   `json:"participant"`
	Participants []*domain.Participant `json:"participants"`
}

type UserLeftPayload struct {
	UserID       domain.UserID         `json:"userId"`
	Participants []*domain.Participant `json:"participants"`
}

type HostChangedPayload struct {
	HostID   domain.UserID `json:"hostId"`
	HostName string        `json:"hostName"`
}

type RoomEndedPayload struct {
	RoomID domain.RoomID `json:"roomId"`
}

type ParticipantsPayload struct {
	Participants []*domain.Participant `json:"participants"`
}

type SettingsPayload struct {
	SpeakersAllowed bool `json:"speakersAllowed"`
}

type ModerationPayload struct {
	UserID       domain.UserID         `json:"userId"`
	Participants []*domain.Participant `json:"participants,omitempty"`
}

type KickedPayload struct {
	UserID domain.UserID `json:"userId"`
}

type HandPayload struct {
	UserID       domain.UserID         `json:"userId"`
	Participants []*domain.Participant `json:"participants"`
}

type PeerNewPayload struct {
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
	PeerID   string        `json:"peerId"`
}
