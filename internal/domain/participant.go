package domain

// Participant is a user's per-room state, owned by exactly one Room.
// ID and Name are copied from the identity at join time and stay fixed
// for the session.
type Participant struct {
	ID            UserID `json:"id"`
	Name          string `json:"name"`
	IsMuted       bool   `json:"isMuted"`
	HasRaisedHand bool   `json:"hasRaisedHand"`

	// PeerID is the opaque transport handle published once the client's
	// local media stack is ready; empty until then.
	PeerID string `json:"peerId,omitempty"`
}

func NewParticipant(user *User, muted bool) *Participant {
	return &Participant{
		ID:      user.ID,
		Name:    user.Username,
		IsMuted: muted,
	}
}
