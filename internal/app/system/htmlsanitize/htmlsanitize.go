// Package htmlsanitize strips markup from user-entered text.
//
// Group and session text is displayed by clients that may render HTML, so
// names, descriptions and locations are reduced to plain text on write.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute. bluemonday policies are safe
// for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// angles removes whatever tag delimiters are left after sanitizing.
var angles = strings.NewReplacer("<", "", ">", "")

// PlainText removes all tags from s and returns the remaining text,
// unescaped so that "Tom & Jerry" round-trips unchanged. Entities are
// decoded before sanitizing so escaped markup is stripped like literal
// markup, and the result never contains '<' or '>'.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(strict.Sanitize(html.UnescapeString(s)))
	if !IsPlainText(out) {
		out = angles.Replace(out)
	}
	return out
}

// IsPlainText reports whether s contains nothing that looks like a tag.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
