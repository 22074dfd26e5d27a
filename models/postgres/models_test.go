package postgres_test

import (
	"Stateforge/models/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLobbyCode(t *testing.T) {
	code := postgres.GenerateLobbyCode(postgres.CodeLength)
	assert.Equal(t, postgres.CodeLength, len(code))

	// Codes are digits only so they can be read out loud
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "unexpected character %q in code %s", c, code)
	}
}

func TestGenerateLobbyCodeLengths(t *testing.T) {
	for _, length := range []int{1, 5, 8} {
		assert.Equal(t, length, len(postgres.GenerateLobbyCode(length)))
	}
}
