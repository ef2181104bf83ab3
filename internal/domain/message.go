package domain

const (
	// MaxMessages bounds a room's chat history; oldest entries are
	// evicted first.
	MaxMessages = 200

	MaxMessageLen = 1000
)

// ChatMessage is immutable once created; the ring buffer only ever
// evicts it.
type ChatMessage struct {
	ID        string `json:"id"`
	UserID    UserID `json:"userId"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// AppendMessage pushes onto the bounded history, evicting from the front
// once capacity is exceeded.
func (r *Room) AppendMessage(m *ChatMessage) {
	r.Messages = append(r.Messages, m)
	if len(r.Messages) > MaxMessages {
		r.Messages = r.Messages[len(r.Messages)-MaxMessages:]
	}
}
