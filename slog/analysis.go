package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/veracity"
)

// Ensure LoggingAnalysisService implements veracity.AnalysisService.
var _ veracity.AnalysisService = (*LoggingAnalysisService)(nil)

// LoggingAnalysisService wraps an AnalysisService with logging.
type LoggingAnalysisService struct {
	next   veracity.AnalysisService
	logger *slog.Logger
}

// NewLoggingAnalysisService creates a new LoggingAnalysisService.
func NewLoggingAnalysisService(next veracity.AnalysisService, logger *slog.Logger) *LoggingAnalysisService {
	return &LoggingAnalysisService{next: next, logger: logger}
}

// Analyze delegates to the wrapped service and logs the outcome. Failures
// are logged with their error code and reason.
func (s *LoggingAnalysisService) Analyze(ctx context.Context, req *veracity.Request) (result *veracity.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"input_type", req.InputType(),
			"url", req.URL,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs, "verdict", result.Verdict, "confidence", result.Confidence)
		}
		if err != nil {
			attrs = append(attrs,
				"code", veracity.ErrorCode(err),
				"reason", veracity.ErrorReason(err),
				"err", err,
			)
			s.logger.Warn("analyze", attrs...)
			return
		}
		s.logger.Info("analyze", attrs...)
	}(time.Now())
	return s.next.Analyze(ctx, req)
}
