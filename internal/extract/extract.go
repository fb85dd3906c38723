// Package extract finds embedded status links in free-form text.
//
// Pure functions, no I/O. The pipeline uses these to split a submission
// into the link to fetch and the text to analyze.
package extract

import (
	"regexp"
	"strings"
)

// statusURLPattern matches a twitter.com or x.com status link: scheme,
// optional www, a 1-15 word-character handle, and a numeric status id.
var statusURLPattern = regexp.MustCompile(`https?://(?:www\.)?(?:twitter|x)\.com/\w{1,15}/status/\d+`)

// StatusURL returns the first status link embedded in text, verbatim.
// The second return is false when text contains no status link.
// Reachability is not checked.
func StatusURL(text string) (string, bool) {
	match := statusURLPattern.FindString(text)
	return match, match != ""
}

// RemoveURL removes the first occurrence of url from text and trims
// surrounding whitespace. When url is empty, text is returned trimmed.
func RemoveURL(text, url string) string {
	if url == "" {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.Replace(text, url, "", 1))
}
