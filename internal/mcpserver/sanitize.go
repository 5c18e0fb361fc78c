package mcpserver

import (
	"regexp"
	"unicode/utf8"
)

// maxErrorLen bounds the error messages sent to clients, in runes.
const maxErrorLen = 500

// homePathRe matches absolute paths into user home directories, which leak
// local usernames and filesystem layout into client-visible errors.
var homePathRe = regexp.MustCompile(`/(?:home|Users)/[^\s:'"]+|/root/[^\s:'"]+`)

// whitespaceRe collapses newlines, tabs, and runs of spaces so upstream
// tracebacks arrive as a single line.
var whitespaceRe = regexp.MustCompile(`\s+`)

// Sanitize scrubs home-directory paths out of an error message, flattens it
// onto one line, and bounds its length before it crosses the MCP boundary.
func Sanitize(msg string) string {
	msg = homePathRe.ReplaceAllString(msg, "~")
	msg = whitespaceRe.ReplaceAllString(msg, " ")

	if utf8.RuneCountInString(msg) <= maxErrorLen {
		return msg
	}
	kept := 0
	for i := range msg {
		if kept == maxErrorLen {
			return msg[:i] + "...(truncated)"
		}
		kept++
	}
	return msg
}
