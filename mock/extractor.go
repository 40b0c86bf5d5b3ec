package mock

import "github.com/fwojciec/veracity"

var _ veracity.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of veracity.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*veracity.Article, error)
}

func (e *Extractor) Extract(html string) (*veracity.Article, error) {
	return e.ExtractFn(html)
}
