package slog

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/veracity"
)

// Ensure LoggingExtractor implements veracity.Extractor.
var _ veracity.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   veracity.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next veracity.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the extracted length.
func (e *LoggingExtractor) Extract(html string) (article *veracity.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var length int
		if article != nil {
			title = article.Title
			length = utf8.RuneCountInString(article.Body)
		}
		e.logger.Debug("extract",
			"title", title,
			"length", length,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
