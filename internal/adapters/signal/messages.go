package signal

// Message is the server->client frame: a typed event or a command result.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Result answers an explicit-response command, correlated by the id the
// client sent. Fire-and-forget commands never produce one.
type Result struct {
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	msgResult = "result"
	msgPong   = "pong"
)
