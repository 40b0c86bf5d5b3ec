package mock

import (
	"context"

	"github.com/fwojciec/veracity"
)

var _ veracity.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of veracity.HistoryService.
type HistoryService struct {
	SaveAnalysisFn   func(ctx context.Context, a *veracity.Analysis) error
	FindAnalysesFn   func(ctx context.Context, filter veracity.AnalysisFilter) ([]*veracity.Analysis, error)
	DeleteAnalysisFn func(ctx context.Context, id string) error
	DeleteAnalysesFn func(ctx context.Context) error
}

func (s *HistoryService) SaveAnalysis(ctx context.Context, a *veracity.Analysis) error {
	return s.SaveAnalysisFn(ctx, a)
}

func (s *HistoryService) FindAnalyses(ctx context.Context, filter veracity.AnalysisFilter) ([]*veracity.Analysis, error) {
	return s.FindAnalysesFn(ctx, filter)
}

func (s *HistoryService) DeleteAnalysis(ctx context.Context, id string) error {
	return s.DeleteAnalysisFn(ctx, id)
}

func (s *HistoryService) DeleteAnalyses(ctx context.Context) error {
	return s.DeleteAnalysesFn(ctx)
}
