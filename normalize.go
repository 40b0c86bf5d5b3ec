package veracity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	blankLinesRe  = regexp.MustCompile(`\n\s*\n\s*\n`)
	boilerplateRe = regexp.MustCompile(`(?i)\b(Skip to|Jump to|Go to|Click here|Read more|Continue reading|Share|Tweet|Facebook|LinkedIn|Pinterest|Instagram|Subscribe|Newsletter|Advertisement|Sponsored|Cookie|Privacy Policy|Terms of Service)\b`)
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRe       = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// titlePrefixLength is how much of the title must already appear in the text
// for the title not to be prepended.
const titlePrefixLength = 50

// Normalize cleans extracted article text and prepends the title when the
// text does not already contain it. It is deterministic and, for an empty
// title, idempotent.
func Normalize(raw, title string) string {
	text := raw
	// Removals can bring new phrases together ("Click Share here"), so keep
	// cleaning until nothing changes. Each changing pass shortens the text.
	for {
		next := clean(text)
		if next == text {
			break
		}
		text = next
	}

	title = strings.TrimSpace(title)
	if title != "" && !strings.Contains(strings.ToLower(text), titlePrefix(title)) {
		text = title + "\n\n" + text
	}
	return text
}

func clean(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	s = boilerplateRe.ReplaceAllString(s, "")
	s = emailRe.ReplaceAllString(s, "")
	s = phoneRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func titlePrefix(title string) string {
	lower := strings.ToLower(title)
	if utf8.RuneCountInString(lower) <= titlePrefixLength {
		return lower
	}
	return string([]rune(lower)[:titlePrefixLength])
}
