// Package analyze composes the pipeline stages into a veracity.AnalysisService.
package analyze

import (
	"context"
	"strings"

	"github.com/fwojciec/veracity"
)

// Ensure Analyzer implements veracity.AnalysisService at compile time.
var _ veracity.AnalysisService = (*Analyzer)(nil)

// Analyzer runs one request through validation, optional URL extraction,
// length gating, prompt assembly and generation. It holds no per-request
// state and is safe for concurrent use.
type Analyzer struct {
	Fetcher   veracity.Fetcher
	Extractor veracity.Extractor

	// Generator is nil when no backend credential is configured. Every
	// request then fails with ECONFIG.
	Generator veracity.Generator

	// Options are passed to every Generate call.
	Options veracity.GenerateOptions
}

// New creates an Analyzer with the default generation options.
func New(fetcher veracity.Fetcher, extractor veracity.Extractor, generator veracity.Generator) *Analyzer {
	return &Analyzer{
		Fetcher:   fetcher,
		Extractor: extractor,
		Generator: generator,
		Options:   veracity.DefaultGenerateOptions(),
	}
}

// Analyze returns the verdict for req. Article text takes precedence over the
// URL; the URL is only fetched when no text was given.
func (a *Analyzer) Analyze(ctx context.Context, req *veracity.Request) (*veracity.Result, error) {
	if a.Generator == nil {
		return nil, veracity.ErrMissingCredential
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sourceURL := strings.TrimSpace(req.URL)
	text := req.Text
	if req.InputType() == veracity.InputURL {
		var err error
		if text, err = a.articleText(ctx, sourceURL); err != nil {
			return nil, err
		}
	}

	if err := veracity.CheckInputLength(text); err != nil {
		return nil, err
	}

	prompt := veracity.BuildPrompt(veracity.Truncate(text), sourceURL)

	result, err := a.Generator.Generate(ctx, prompt, a.Options)
	if err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// articleText fetches and extracts the article at rawURL and returns its
// normalized text.
func (a *Analyzer) articleText(ctx context.Context, rawURL string) (string, error) {
	if !veracity.IsValidURL(rawURL) {
		return "", veracity.Reasonf(veracity.EINVALID, veracity.ReasonInvalidURL,
			"Invalid URL format. Please provide a valid HTTP or HTTPS URL.")
	}

	html, err := a.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	article, err := a.Extractor.Extract(html)
	if err != nil {
		return "", err
	}

	text := veracity.Normalize(article.Body, article.Title)
	if err := veracity.CheckArticleLength(text); err != nil {
		return "", err
	}
	return text, nil
}
