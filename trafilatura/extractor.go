// Package trafilatura adapts go-trafilatura to the veracity.Extractor
// interface.
package trafilatura

import (
	"fmt"
	"strings"

	"github.com/fwojciec/veracity"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements veracity.Extractor at compile time.
var _ veracity.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the article text of a page.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with the readability and
// dom-distiller fallbacks enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract returns the main text of rawHTML. Empty input or an empty result
// yields an empty body so the length check downstream reports it; a
// trafilatura failure yields an insufficient-content error carrying its cause.
func (e *Extractor) Extract(rawHTML string) (*veracity.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return &veracity.Article{}, nil
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return &veracity.Article{}, veracity.InsufficientContent(fmt.Errorf("trafilatura: %w", err))
	}
	if result == nil {
		return &veracity.Article{}, nil
	}

	return &veracity.Article{
		Title: strings.TrimSpace(result.Metadata.Title),
		Body:  strings.TrimSpace(result.ContentText),
	}, nil
}
