package socketio_types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodePayload(t *testing.T) {
	args := []interface{}{
		map[string]interface{}{
			"lobby_code": "12345",
			"position":   map[string]interface{}{"x": 1.5, "y": -2.0},
			"is_final":   true,
		},
	}

	var payload NodeProposal
	err := DecodePayload(args, &payload)
	assert.NoError(t, err)
	assert.Equal(t, "12345", payload.LobbyCode)
	assert.Equal(t, 1.5, payload.Position.X)
	assert.Equal(t, -2.0, payload.Position.Y)
	assert.True(t, payload.IsFinal)
}

func TestDecodePayloadWrappedInArray(t *testing.T) {
	// Some clients send the payload wrapped in a singleton array
	args := []interface{}{
		[]interface{}{
			map[string]interface{}{"lobby_code": "54321", "message": "hi"},
		},
	}

	var payload ChatPayload
	err := DecodePayload(args, &payload)
	assert.NoError(t, err)
	assert.Equal(t, "54321", payload.LobbyCode)
	assert.Equal(t, "hi", payload.Message)
}

func TestDecodePayloadEmpty(t *testing.T) {
	var payload ChatPayload
	assert.ErrorIs(t, DecodePayload([]interface{}{}, &payload), ErrEmptyPayload)
	assert.ErrorIs(t, DecodePayload([]interface{}{[]interface{}{}}, &payload), ErrEmptyPayload)
}

func TestDecodeConnectionProposalRules(t *testing.T) {
	args := []interface{}{
		map[string]interface{}{
			"lobby_code": "12345",
			"from":       map[string]interface{}{"x": 0.0, "y": 0.0},
			"to":         map[string]interface{}{"x": 10.0, "y": 0.0},
			"rules": []interface{}{
				map[string]interface{}{
					"read":  []interface{}{"a"},
					"write": []interface{}{"b"},
					"move":  []interface{}{"R"},
				},
				map[string]interface{}{
					"read":  []interface{}{"0", "1"},
					"write": []interface{}{"1", "0"},
					"move":  []interface{}{"L", "S"},
				},
			},
		},
	}

	var payload ConnectionProposal
	err := DecodePayload(args, &payload)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(payload.Rules))
	assert.Equal(t, []string{"a"}, payload.Rules[0].Read)
	assert.Equal(t, []string{"L", "S"}, payload.Rules[1].Move)
}

func TestDeleteTargetValidate(t *testing.T) {
	point := &Point{X: 1, Y: 2}

	node := DeleteTarget{Type: "node", Position: point}
	assert.True(t, node.Validate())

	nodeMissing := DeleteTarget{Type: "node"}
	assert.False(t, nodeMissing.Validate())

	conn := DeleteTarget{Type: "connection", From: point, To: point}
	assert.True(t, conn.Validate())

	connMissing := DeleteTarget{Type: "connection", From: point}
	assert.False(t, connMissing.Validate())

	unknown := DeleteTarget{Type: "tape", Position: point}
	assert.False(t, unknown.Validate())
}
