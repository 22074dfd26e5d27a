package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsDisallowedContent(t *testing.T) {
	assert.False(t, ContainsDisallowedContent("My cool lobby"))
	assert.False(t, ContainsDisallowedContent(""))

	// Links
	assert.True(t, ContainsDisallowedContent("join http://spam.example now"))
	assert.True(t, ContainsDisallowedContent("HTTPS://SPAM.EXAMPLE"))
	assert.True(t, ContainsDisallowedContent("visit www.spam.example"))

	// Control characters
	assert.True(t, ContainsDisallowedContent("hello\x00world"))
	assert.True(t, ContainsDisallowedContent("bell\x07"))

	// Blocklist, case-insensitive and inside words
	assert.True(t, ContainsDisallowedContent("well SHIT"))
	assert.True(t, ContainsDisallowedContent("bullshittery"))
}

func TestCensor(t *testing.T) {
	assert.Equal(t, "My cool lobby", Censor("My cool lobby"))

	// Control characters are stripped outright
	assert.Equal(t, "helloworld", Censor("hello\x00world"))

	// Blocked words keep their length as asterisks
	assert.Equal(t, "well ****", Censor("well shit"))
	assert.Equal(t, "well ****", Censor("well ShIt"))

	// Links are fully masked
	censored := Censor("go to http://spam.example ok")
	assert.NotContains(t, censored, "http")
	assert.Contains(t, censored, "go to ")
	assert.Contains(t, censored, " ok")
}
