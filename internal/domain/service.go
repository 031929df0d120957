package domain

import "context"

// TaskAnalyzerService turns raw message text into a cleaned task
// description and an optional due date. Implementations may fail with
// ErrAnalysisUnavailable or ErrAnalysisMalformed; callers fall back.
type TaskAnalyzerService interface {
	Analyze(ctx context.Context, content string) (*TaskAnalysis, error)
}
