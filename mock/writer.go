package mock

import (
	"context"

	"github.com/fwojciec/veracity"
)

var _ veracity.AnalysisWriter = (*AnalysisWriter)(nil)

// AnalysisWriter is a mock implementation of veracity.AnalysisWriter.
type AnalysisWriter struct {
	SaveAnalysisFn func(ctx context.Context, a *veracity.Analysis) error
}

func (w *AnalysisWriter) SaveAnalysis(ctx context.Context, a *veracity.Analysis) error {
	return w.SaveAnalysisFn(ctx, a)
}
