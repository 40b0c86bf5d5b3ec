// Package readability adapts go-readability to the veracity.Extractor
// interface.
package readability

import (
	"fmt"
	"strings"

	"github.com/fwojciec/veracity"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements veracity.Extractor at compile time.
var _ veracity.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the article text of a page.
type Extractor struct {
	parser readability.Parser
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxElements makes pages with more than n elements fail extraction.
// Zero means no limit.
func WithMaxElements(n int) Option {
	return func(e *Extractor) {
		e.parser.MaxElemsToParse = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{parser: readability.NewParser()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the readable text of rawHTML. Empty input yields an empty
// article so the length check downstream reports it; a page readability
// fails on yields an insufficient-content error carrying the library's cause.
func (e *Extractor) Extract(rawHTML string) (*veracity.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return &veracity.Article{}, nil
	}

	parser := e.parser
	article, err := parser.Parse(strings.NewReader(rawHTML), nil)
	if err != nil {
		return &veracity.Article{}, veracity.InsufficientContent(fmt.Errorf("readability: %w", err))
	}

	return &veracity.Article{
		Title: strings.TrimSpace(article.Title),
		Body:  strings.TrimSpace(article.TextContent),
	}, nil
}
