package hasher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	stored, err := Hash("secret123")
	assert.NoError(t, err)

	// salt and key, dot separated
	parts := strings.Split(stored, ".")
	assert.Equal(t, 2, len(parts))
	assert.NotEmpty(t, parts[0])
	assert.NotEmpty(t, parts[1])

	assert.True(t, Verify("secret123", stored))
	assert.False(t, Verify("secret124", stored))
	assert.False(t, Verify("", stored))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret123")
	assert.NoError(t, err)
	second, err := Hash("secret123")
	assert.NoError(t, err)

	// Same password, different salt, different stored value
	assert.NotEqual(t, first, second)
	assert.True(t, Verify("secret123", first))
	assert.True(t, Verify("secret123", second))
}

func TestVerifyOpenLobby(t *testing.T) {
	// No stored hash means no password required
	assert.True(t, Verify("", ""))

	// Supplying a password to an open lobby is still a mismatch
	assert.False(t, Verify("whatever", ""))
}

func TestVerifyMalformedStored(t *testing.T) {
	assert.False(t, Verify("secret123", "notdotseparated"))
	assert.False(t, Verify("secret123", "a.b.c"))
	assert.False(t, Verify("secret123", "!!!notbase64!!!.AAAA"))
	assert.False(t, Verify("secret123", "AAAA.!!!notbase64!!!"))
}
