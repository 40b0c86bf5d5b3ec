package mock

import (
	"context"

	"github.com/fwojciec/veracity"
)

var _ veracity.AnalysisService = (*AnalysisService)(nil)

// AnalysisService is a mock implementation of veracity.AnalysisService.
type AnalysisService struct {
	AnalyzeFn func(ctx context.Context, req *veracity.Request) (*veracity.Result, error)
}

func (s *AnalysisService) Analyze(ctx context.Context, req *veracity.Request) (*veracity.Result, error) {
	return s.AnalyzeFn(ctx, req)
}
