// Package goquery implements article extraction over a parsed DOM: noise
// removal, JSON-LD structured data, and an ordered cascade of content
// container selectors.
package goquery

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/veracity"
	"golang.org/x/net/html"
)

// noiseSelector matches page chrome removed before any text is read.
// JSON-LD scripts survive until structured data has been read.
const noiseSelector = `script:not([type="application/ld+json"]), style, nav, header, footer, aside, ` +
	`.advertisement, .ads, .social-share, .comments, .sidebar, .menu, .navigation, .breadcrumb, ` +
	`.related-articles, .newsletter, .popup, .modal, ` +
	`[class*="ad-"], [id*="ad-"], [class*="social"], [class*="share"], [class*="comment"]`

// bodyNoiseSelector is the broader denylist applied before the body fallback.
const bodyNoiseSelector = `nav, header, footer, aside, .menu, .navigation, .sidebar, .widget, ` +
	`.advertisement, .social, .share, .comment, .related, .recommended, .newsletter, ` +
	`.subscription, .popup, .modal, .overlay`

const jsonLDSelector = `script[type="application/ld+json"]`

// textSelector lists the descendants whose text makes up a container candidate.
const textSelector = "p, div, span, h1, h2, h3, h4, h5, h6"

// DefaultSelectors lists content containers in priority order: semantic
// article containers, common CMS class names, then generic containers.
var DefaultSelectors = []string{
	"article",
	`[role="main"]`,
	"main article",
	".article-content",
	".post-content",
	".entry-content",
	".article-body",
	".post-body",
	".content-body",
	".story-body",
	".article-text",
	".article__content",
	".story__content",
	".post__content",
	".content__body",
	".content",
	"#content",
	"main",
	".main-content",
	".container .content",
	".wrapper .content",
}

// Strategy attempts to find article text in a document. It reports false
// when it has nothing to offer.
type Strategy func(doc *goquery.Document) (text string, ok bool)

// SelectorStrategy returns a Strategy reading the first element matching
// selector. Text is gathered from block-level descendants, joined by
// newlines; when that yields fewer than veracity.MinArticleLength characters
// the element's full text is used instead.
func SelectorStrategy(selector string) Strategy {
	return func(doc *goquery.Document) (string, bool) {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			return "", false
		}

		var parts []string
		sel.Find(textSelector).Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		text := strings.TrimSpace(strings.Join(parts, "\n"))

		if utf8.RuneCountInString(text) < veracity.MinArticleLength {
			text = strings.TrimSpace(sel.Text())
		}
		return text, true
	}
}

// DefaultStrategies returns one SelectorStrategy per DefaultSelectors entry.
func DefaultStrategies() []Strategy {
	strategies := make([]Strategy, 0, len(DefaultSelectors))
	for _, s := range DefaultSelectors {
		strategies = append(strategies, SelectorStrategy(s))
	}
	return strategies
}

// Ensure Extractor implements veracity.Extractor at compile time.
var _ veracity.Extractor = (*Extractor)(nil)

// Extractor extracts article text using CSS selectors.
type Extractor struct {
	strategies []Strategy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrategies replaces the selector cascade.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// NewExtractor creates a new Extractor using DefaultStrategies.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the best-effort title and body of the document. It never
// judges the body length; short bodies are the caller's concern.
func (e *Extractor) Extract(rawHTML string) (*veracity.Article, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, veracity.Errorf(veracity.EEXTRACTION, "Failed to parse the page content.").Wrap(err)
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find(noiseSelector).Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	best := StructuredBody(doc)
	doc.Find(jsonLDSelector).Remove()

	if runeLen(best) < veracity.MinCandidateLength {
		best = e.cascade(doc, best)
	}

	if runeLen(best) < veracity.MinCandidateLength {
		doc.Find(bodyNoiseSelector).Remove()
		best = strings.TrimSpace(doc.Find("body").Text())
	}

	return &veracity.Article{Title: title, Body: best}, nil
}

// cascade runs the strategies in order, stopping at the first candidate
// longer than veracity.MinCandidateLength. Otherwise the longest candidate,
// including best, wins.
func (e *Extractor) cascade(doc *goquery.Document, best string) string {
	for _, s := range e.strategies {
		text, ok := s(doc)
		if !ok {
			continue
		}
		if runeLen(text) > veracity.MinCandidateLength {
			return text
		}
		if runeLen(text) > runeLen(best) {
			best = text
		}
	}
	return best
}

// StructuredBody returns the articleBody (or text) field of the first
// JSON-LD block, or "" when there is none or it cannot be parsed.
func StructuredBody(doc *goquery.Document) string {
	script := doc.Find(jsonLDSelector).First()
	if script.Length() == 0 {
		return ""
	}
	var data any
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return ""
	}
	return findArticleBody(data)
}

// findArticleBody looks for articleBody or text on an object, on each element
// of an array, and inside an @graph.
func findArticleBody(v any) string {
	switch v := v.(type) {
	case map[string]any:
		for _, key := range []string{"articleBody", "text"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		if graph, ok := v["@graph"]; ok {
			return findArticleBody(graph)
		}
	case []any:
		for _, item := range v {
			if s := findArticleBody(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
