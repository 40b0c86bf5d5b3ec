package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/veracity"
)

// Ensure LoggingHistoryService implements veracity.HistoryService.
var _ veracity.HistoryService = (*LoggingHistoryService)(nil)

// LoggingHistoryService wraps a HistoryService with debug logging.
type LoggingHistoryService struct {
	next   veracity.HistoryService
	logger *slog.Logger
}

// NewLoggingHistoryService creates a new LoggingHistoryService.
func NewLoggingHistoryService(next veracity.HistoryService, logger *slog.Logger) *LoggingHistoryService {
	return &LoggingHistoryService{next: next, logger: logger}
}

// SaveAnalysis delegates to the wrapped service and logs the operation.
func (s *LoggingHistoryService) SaveAnalysis(ctx context.Context, a *veracity.Analysis) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save analysis",
			"id", a.ID,
			"input_type", a.InputType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveAnalysis(ctx, a)
}

// FindAnalyses delegates to the wrapped service and logs the operation.
func (s *LoggingHistoryService) FindAnalyses(ctx context.Context, filter veracity.AnalysisFilter) (analyses []*veracity.Analysis, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find analyses",
			"count", len(analyses),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAnalyses(ctx, filter)
}

// DeleteAnalysis delegates to the wrapped service and logs the operation.
func (s *LoggingHistoryService) DeleteAnalysis(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete analysis",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteAnalysis(ctx, id)
}

// DeleteAnalyses delegates to the wrapped service and logs the operation.
func (s *LoggingHistoryService) DeleteAnalyses(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete analyses",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteAnalyses(ctx)
}
