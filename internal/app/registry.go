package app

import (
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/voiceroom/server/internal/domain"
)

// ParticipantSummary is the feed-safe view of a participant.
type ParticipantSummary struct {
	ID   domain.UserID `json:"id"`
	Name string        `json:"name"`
}

// RoomSummary is what the public feed exposes: no messages, no access
// code, and private rooms never appear at all.
type RoomSummary struct {
	ID               domain.RoomID        `json:"id"`
	Title            string               `json:"title"`
	Tags             []string             `json:"tags"`
	HostID           domain.UserID        `json:"hostId"`
	HostName         string               `json:"hostName"`
	ParticipantCount int                  `json:"participantCount"`
	Participants     []ParticipantSummary `json:"participants"`
	CreatedAt        int64                `json:"createdAt"`
}

// Registry owns every room record. It is deliberately unsynchronized:
// the Coordinator is its single owner and serializes all access.
type Registry struct {
	rooms map[domain.RoomID]*domain.Room

	// seq breaks CreatedAt ties so "newest first" stays deterministic.
	seq   uint64
	seqOf map[domain.RoomID]uint64
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]*domain.Room),
		seqOf: make(map[domain.RoomID]uint64),
	}
}

// Create assigns a fresh id and seeds the participant sequence with the
// creator as unmuted host.
func (r *Registry) Create(host *domain.User, title string, tags []string, visibility domain.Visibility, accessCode string) *domain.Room {
	room := &domain.Room{
		ID:         domain.RoomID(uuid.NewString()),
		Title:      title,
		Tags:       tags,
		Visibility: visibility,
		AccessCode: accessCode,
		HostID:     host.ID,
		HostName:   host.Username,
		Settings:   domain.Settings{SpeakersAllowed: true},
		Participants: []*domain.Participant{
			domain.NewParticipant(host, false),
		},
		CreatedAt: time.Now().UnixMilli(),
	}
	r.seq++
	r.rooms[room.ID] = room
	r.seqOf[room.ID] = r.seq
	log.Info().Str("module", "app.registry").Str("room", string(room.ID)).Str("host", string(host.ID)).Msg("room created")
	return room
}

func (r *Registry) Get(id domain.RoomID) (*domain.Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

// ByCode is a linear scan over active rooms. Room count is expected to
// stay small; at larger scale this needs a secondary index keyed by
// access code, without changing the contract.
func (r *Registry) ByCode(code string) (*domain.Room, bool) {
	if code == "" {
		return nil, false
	}
	for _, room := range r.rooms {
		if room.AccessCode == code {
			return room, true
		}
	}
	return nil, false
}

func (r *Registry) Delete(id domain.RoomID) {
	delete(r.rooms, id)
	delete(r.seqOf, id)
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room deleted")
}

func (r *Registry) Len() int { return len(r.rooms) }

// List returns public room summaries, newest first, optionally filtered
// to rooms sharing at least one of the given tags.
func (r *Registry) List(tagFilter []string) []RoomSummary {
	out := make([]RoomSummary, 0, len(r.rooms))
	for _, room := range r.rooms {
		if room.IsPrivate() {
			continue
		}
		if len(tagFilter) > 0 && !matchesAnyTag(room.Tags, tagFilter) {
			continue
		}
		out = append(out, r.summarize(room))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return r.seqOf[out[i].ID] > r.seqOf[out[j].ID]
	})
	return out
}

// Tags returns every tag currently in use, sorted.
func (r *Registry) Tags() []string {
	seen := make(map[string]struct{})
	for _, room := range r.rooms {
		for _, tag := range room.Tags {
			seen[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) summarize(room *domain.Room) RoomSummary {
	parts := make([]ParticipantSummary, 0, len(room.Participants))
	for _, p := range room.Participants {
		parts = append(parts, ParticipantSummary{ID: p.ID, Name: p.Name})
	}
	return RoomSummary{
		ID:               room.ID,
		Title:            room.Title,
		Tags:             slices.Clone(room.Tags),
		HostID:           room.HostID,
		HostName:         room.HostName,
		ParticipantCount: len(room.Participants),
		Participants:     parts,
		CreatedAt:        room.CreatedAt,
	}
}

func matchesAnyTag(roomTags, filter []string) bool {
	for _, want := range filter {
		if slices.Contains(roomTags, want) {
			return true
		}
	}
	return false
}
