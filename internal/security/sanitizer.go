package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxMessageRunes  = 2000
	MinUsernameRunes = 2
	MaxUsernameRunes = 32
)

var htmlPolicy = bluemonday.StrictPolicy()

// NormalizeMessage removes NUL bytes and surrounding whitespace. The text is
// otherwise stored exactly as the sender typed it.
func NormalizeMessage(input string) string {
	return strings.TrimSpace(strings.ReplaceAll(input, "\x00", ""))
}

// MessageTooLong reports whether normalized content exceeds MaxMessageRunes.
func MessageTooLong(content string) bool {
	return utf8.RuneCountInString(content) > MaxMessageRunes
}

// NormalizeUsername trims surrounding whitespace and NUL bytes from a handle.
func NormalizeUsername(input string) string {
	return strings.TrimSpace(strings.ReplaceAll(input, "\x00", ""))
}

// UsernameLengthValid checks the rune length of an already normalized handle.
func UsernameLengthValid(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= MinUsernameRunes && n <= MaxUsernameRunes
}

// ContainsMarkup reports whether the strict policy would alter input. Plain
// text survives sanitizing unchanged once bluemonday's entity escaping is undone.
// The input itself is never rewritten.
func ContainsMarkup(input string) bool {
	return html.UnescapeString(htmlPolicy.Sanitize(input)) != input
}
