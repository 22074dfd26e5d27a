package socketio_types

import (
	"encoding/json"
	"errors"
)

// Wire payloads for the collaborative-editing events. Every client->server
// event decodes its first argument into one of these via a JSON round-trip;
// older clients wrap the payload in a singleton array, which DecodePayload
// accepts. Anything that does not decode is dropped by the handler.

// Point is a node position on the construction canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EnvironmentSync is the host's full snapshot of the shared machine state.
// The state blob is relayed verbatim, the server never interprets it.
type EnvironmentSync struct {
	LobbyCode string          `json:"lobby_code"`
	State     json.RawMessage `json:"state"`
}

// NodeProposal proposes adding a state node.
type NodeProposal struct {
	LobbyCode  string `json:"lobby_code"`
	Position   Point  `json:"position"`
	IsFinal    bool   `json:"is_final"`
	ProposedBy string `json:"proposed_by"`
}

// TapeRule is the read/write/move symbol lists of one tape. Machines have
// one or two tapes, so a connection carries one or two of these.
type TapeRule struct {
	Read  []string `json:"read"`
	Write []string `json:"write"`
	Move  []string `json:"move"`
}

// ConnectionProposal proposes a transition edge between two nodes.
type ConnectionProposal struct {
	LobbyCode  string     `json:"lobby_code"`
	From       Point      `json:"from"`
	To         Point      `json:"to"`
	Rules      []TapeRule `json:"rules"`
	ProposedBy string     `json:"proposed_by"`
}

// DeleteTarget discriminates what a delete proposal points at: a node (by
// position) or a connection (by endpoint positions).
type DeleteTarget struct {
	Type     string `json:"type"` // "node" or "connection"
	Position *Point `json:"position,omitempty"`
	From     *Point `json:"from,omitempty"`
	To       *Point `json:"to,omitempty"`
}

// DeleteProposal proposes removing a node or connection.
type DeleteProposal struct {
	LobbyCode  string       `json:"lobby_code"`
	Target     DeleteTarget `json:"target"`
	ProposedBy string       `json:"proposed_by"`
}

// ChatPayload is an inbound chat message.
type ChatPayload struct {
	LobbyCode string `json:"lobby_code"`
	Message   string `json:"message"`
}

var ErrEmptyPayload = errors.New("missing event payload")

// DecodePayload maps the first socket.io argument onto dest. A singleton
// array wrapping the payload is unwrapped first.
func DecodePayload(args []interface{}, dest interface{}) error {
	if len(args) < 1 {
		return ErrEmptyPayload
	}
	value := args[0]
	if wrapped, ok := value.([]interface{}); ok {
		if len(wrapped) < 1 {
			return ErrEmptyPayload
		}
		value = wrapped[0]
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Validate checks the target discriminator carries the fields its type needs.
func (t *DeleteTarget) Validate() bool {
	switch t.Type {
	case "node":
		return t.Position != nil
	case "connection":
		return t.From != nil && t.To != nil
	default:
		return false
	}
}
