package filter

import (
	"regexp"
	"strings"
)

// Content-safety filter for player-provided text (lobby names, chat).
// Rejects links, control characters and a small word blocklist.

var (
	linkPattern    = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	controlPattern = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

	blockedWords = []string{
		"fuck", "shit", "bitch", "cunt", "nigger", "faggot",
	}
)

// ContainsDisallowedContent reports whether text must not be shown to other
// players as-is.
func ContainsDisallowedContent(text string) bool {
	if linkPattern.MatchString(text) || controlPattern.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, word := range blockedWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// Censor strips control characters and masks links and blocked words with
// asterisks, keeping the text length roughly intact.
func Censor(text string) string {
	text = controlPattern.ReplaceAllString(text, "")
	text = linkPattern.ReplaceAllStringFunc(text, mask)
	lower := strings.ToLower(text)
	for _, word := range blockedWords {
		for {
			idx := strings.Index(lower, word)
			if idx < 0 {
				break
			}
			text = text[:idx] + mask(word) + text[idx+len(word):]
			lower = strings.ToLower(text)
		}
	}
	return text
}

func mask(s string) string {
	return strings.Repeat("*", len(s))
}
