package domain

import "strings"

type RoomID string

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

const (
	MaxTitleLen = 80
	MaxTags     = 5

	DefaultTitle = "Untitled Room"
)

type Settings struct {
	SpeakersAllowed bool `json:"speakersAllowed"`
}

// Room is an ephemeral live-session container. It lives only in the
// coordinator's registry and is destroyed the moment it empties or the
// host ends it; a destroyed id is never resurrected.
type Room struct {
	ID         RoomID     `json:"id"`
	Title      string     `json:"title"`
	Tags       []string   `json:"tags"`
	Visibility Visibility `json:"type"`
	AccessCode string     `json:"accessCode,omitempty"`
	HostID     UserID     `json:"hostId"`
	HostName   string     `json:"hostName"`
	Settings   Settings   `json:"settings"`

	// Participants keeps join order. It drives both host transfer (head
	// of the remaining sequence) and mesh dial direction.
	Participants []*Participant `json:"participants"`

	Messages []*ChatMessage `json:"messages"`

	// CreatedAt is unix milliseconds, immutable.
	CreatedAt int64 `json:"createdAt"`
}

func (r *Room) IsPrivate() bool { return r.Visibility == VisibilityPrivate }

// IsHost is the single moderation authority predicate. Every host-gated
// operation checks it exactly once, inside the coordinator's critical
// section, immediately before mutating.
func (r *Room) IsHost(id UserID) bool { return r.HostID == id }

func (r *Room) Participant(id UserID) (*Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (r *Room) AddParticipant(p *Participant) {
	r.Participants = append(r.Participants, p)
}

// RemoveParticipant drops the participant keeping join order intact and
// reports whether anything was removed.
func (r *Room) RemoveParticipant(id UserID) bool {
	for i, p := range r.Participants {
		if p.ID == id {
			r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) Empty() bool { return len(r.Participants) == 0 }

// TransferHost hands authority to the longest-tenured remaining
// participant (head of the join-order sequence), never the most recent.
func (r *Room) TransferHost() {
	if len(r.Participants) == 0 {
		return
	}
	r.HostID = r.Participants[0].ID
	r.HostName = r.Participants[0].Name
}

func NormalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	if runes := []rune(title); len(runes) > MaxTitleLen {
		return string(runes[:MaxTitleLen])
	}
	return title
}

// NormalizeTags lowercases, trims and deduplicates tags preserving their
// order. A tag with characters outside [a-z0-9], or more than MaxTags
// distinct tags, is ErrInvalidInput.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		for _, r := range tag {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
				return nil, ErrInvalidInput
			}
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > MaxTags {
		return nil, ErrInvalidInput
	}
	return out, nil
}
