package veracity

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Length limits enforced by the pipeline. All lengths are counted in
// characters, not bytes.
const (
	// MinInputLength is the shortest text, direct or extracted, worth analyzing.
	MinInputLength = 50

	// MinArticleLength is the floor for normalized text extracted from a URL.
	MinArticleLength = 100

	// MinCandidateLength is the length at which an extraction candidate is
	// accepted without trying further strategies.
	MinCandidateLength = 200

	// MaxArticleLength caps the article text passed to the generator.
	MaxArticleLength = 50000
)

// TruncationMarker is appended once to article text cut at MaxArticleLength.
const TruncationMarker = "...\n\n[Article truncated for analysis]"

// InputType records how the article reached the pipeline.
type InputType string

// Input types.
const (
	InputText InputType = "text"
	InputURL  InputType = "url"
)

// Request is a single analysis request. Text takes precedence over URL when
// both are present; the URL is then only used for citation.
type Request struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Validate returns an error if the request carries neither text nor a URL.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" && strings.TrimSpace(r.URL) == "" {
		return Reasonf(EINVALID, ReasonMissingInput, "Either article text or URL must be provided.")
	}
	return nil
}

// InputType reports whether the article comes from the request text or has
// to be fetched from the URL.
func (r *Request) InputType() InputType {
	if strings.TrimSpace(r.Text) != "" {
		return InputText
	}
	return InputURL
}

// IsValidURL reports whether s parses as an absolute http or https URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// CheckArticleLength returns an extraction error if normalized article text
// is too short to be a real article.
func CheckArticleLength(text string) error {
	if utf8.RuneCountInString(text) < MinArticleLength {
		return InsufficientContent(nil)
	}
	return nil
}

// InsufficientContent returns the error reported when no usable article text
// could be extracted from a page. cause may be nil.
func InsufficientContent(cause error) *Error {
	return Reasonf(EEXTRACTION, ReasonInsufficientContent,
		"Could not extract sufficient article content from the URL. The page may be behind a paywall, require JavaScript, or contain mostly non-text content.").Wrap(cause)
}

// CheckInputLength returns an input error if text is too short for
// meaningful analysis. Surrounding whitespace is not counted.
func CheckInputLength(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinInputLength {
		return Reasonf(EINVALID, ReasonTooShort,
			"Article text is too short for meaningful analysis. Please provide a longer article or check the URL.")
	}
	return nil
}

// Truncate cuts text to MaxArticleLength characters and appends
// TruncationMarker. Text within the limit is returned unchanged.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxArticleLength {
		return text
	}
	n := 0
	for i := range text {
		if n == MaxArticleLength {
			return text[:i] + TruncationMarker
		}
		n++
	}
	return text
}
