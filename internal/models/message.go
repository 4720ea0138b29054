package models

// Direction tells whether an entry was sent by the user or received.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// Entry is one rendered message of the chat transcript.
type Entry struct {
	ID        string
	Direction Direction
	Text      string

	// Loading is set while the placeholder waits for the service.
	Loading bool
	// Errored marks an incoming entry that shows an error instead of a reply.
	Errored bool
	// Typing is set while the reveal animation is running.
	Typing bool
	// Copied is set briefly after the entry text was copied.
	Copied bool
}

// IsIncoming reports whether the entry came from the chat service.
func (e Entry) IsIncoming() bool {
	return e.Direction == Incoming
}

// ChatRequest is the JSON body posted to the chat service.
type ChatRequest struct {
	Message string `json:"message"`
}
