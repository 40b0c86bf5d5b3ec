package slog

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/veracity"
)

// Ensure LoggingGenerator implements veracity.Generator.
var _ veracity.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging.
type LoggingGenerator struct {
	next   veracity.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next veracity.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the verdict.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string, opts veracity.GenerateOptions) (result *veracity.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"prompt_length", utf8.RuneCountInString(prompt),
			"grounding", opts.Grounding,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs,
				"verdict", result.Verdict,
				"confidence", result.Confidence,
				"claims", len(result.Claims),
				"sources", len(result.Sources),
			)
		}
		attrs = append(attrs, "err", err)
		g.logger.Info("generate", attrs...)
	}(time.Now())
	return g.next.Generate(ctx, prompt, opts)
}
