package veracity

import (
	"context"
	"time"
)

// AnalysisService runs the full pipeline for one request.
type AnalysisService interface {
	// Analyze returns the verdict for req. Every failure is an *Error.
	Analyze(ctx context.Context, req *Request) (*Result, error)
}

// Analysis is a completed analysis as handed to the history collaborator.
type Analysis struct {
	ID        string    `json:"id"`
	Result    *Result   `json:"results"`
	SourceURL string    `json:"sourceUrl,omitempty"`
	InputType InputType `json:"inputType"`
	CreatedAt time.Time `json:"timestamp"`
}

// Validate returns an error if the analysis contains invalid fields.
func (a *Analysis) Validate() error {
	if a.Result == nil {
		return Errorf(EINVALID, "analysis result required")
	}
	if a.InputType != InputText && a.InputType != InputURL {
		return Errorf(EINVALID, "analysis input type %q invalid", a.InputType)
	}
	return nil
}

// AnalysisWriter receives every successful analysis. The pipeline never
// reads it back.
type AnalysisWriter interface {
	SaveAnalysis(ctx context.Context, a *Analysis) error
}

// HistoryService represents a store of past analyses.
type HistoryService interface {
	AnalysisWriter

	// FindAnalyses returns analyses newest first.
	FindAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error)

	// DeleteAnalysis removes one analysis.
	// Returns ENOTFOUND if the analysis does not exist.
	DeleteAnalysis(ctx context.Context, id string) error

	// DeleteAnalyses removes every stored analysis.
	DeleteAnalyses(ctx context.Context) error
}

// AnalysisFilter represents a filter for FindAnalyses.
type AnalysisFilter struct {
	InputType *InputType `json:"inputType"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
