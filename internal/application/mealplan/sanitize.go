package mealplan

import (
	"regexp"
	"strings"
)

// jsonPrefixPattern matches the wrapper text language models commonly
// prepend to a JSON payload: a ```json code fence opener or a bare
// "json" label with an optional colon, plus surrounding whitespace.
var jsonPrefixPattern = regexp.MustCompile("(?i)^\\s*(?:```json|json\\s*:?)\\s*")

// Sanitize isolates the JSON payload in a raw model completion.
// A leading fence or "json" label is stripped and anything after the
// last closing brace or bracket is discarded. When no closing
// delimiter exists the input passes through unchanged so the parser
// can surface the malformed payload.
func Sanitize(raw string) string {
	s := jsonPrefixPattern.ReplaceAllString(raw, "")

	lastBrace := strings.LastIndex(s, "}")
	lastBracket := strings.LastIndex(s, "]")
	cut := lastBrace
	if lastBracket > cut {
		cut = lastBracket
	}
	if cut == -1 {
		return raw
	}
	return s[:cut+1]
}
