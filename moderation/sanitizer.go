package moderation

import (
	"strings"

	"golang.org/x/net/html"
)

// Sanitizer cleans the strings received from clients before they reach the services.
type Sanitizer struct {
	moderator *Moderator
}

// NewSanitizer accepts a nil moderator, in which case texts are only stripped.
func NewSanitizer(moderator *Moderator) Sanitizer {
	return Sanitizer{moderator: moderator}
}

// Clean strips markup and surrounding spaces. Used for names and recipients.
func (s Sanitizer) Clean(input string) string {
	return strings.TrimSpace(StripMarkup(input))
}

// CleanText is Clean followed by censoring. Used for message bodies.
func (s Sanitizer) CleanText(input string) string {
	content, _ := s.moderator.Censor(s.Clean(input))
	return content
}

// StripMarkup drops HTML tags and comments, keeps text nodes with entities decoded,
// and discards the contents of script and style elements.
func StripMarkup(input string) string {
	if !strings.ContainsAny(input, "<&") {
		return input
	}
	var b strings.Builder
	skipping := ""
	tokenizer := html.NewTokenizer(strings.NewReader(input))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input: keep what was read so far
			return b.String()
		case html.TextToken:
			if skipping == "" {
				b.Write(tokenizer.Text())
			}
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipping = tag
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == skipping {
				skipping = ""
			}
		}
	}
}
