package analysis

import (
	"context"
)

// NarrativeGenerator turns a numeric report into prose. It receives the
// finished report and must not modify it.
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, report *Report) (string, error)
}

// ConfidenceScorer rates how much weight a report's signal deserves, in [0, 1]
type ConfidenceScorer interface {
	ScoreConfidence(ctx context.Context, report *Report) (float64, error)
}

// NarrativeFunc adapts a function to NarrativeGenerator
type NarrativeFunc func(ctx context.Context, report *Report) (string, error)

// GenerateNarrative implements NarrativeGenerator
func (f NarrativeFunc) GenerateNarrative(ctx context.Context, report *Report) (string, error) {
	return f(ctx, report)
}

// ConfidenceFunc adapts a function to ConfidenceScorer
type ConfidenceFunc func(ctx context.Context, report *Report) (float64, error)

// ScoreConfidence implements ConfidenceScorer
func (f ConfidenceFunc) ScoreConfidence(ctx context.Context, report *Report) (float64, error) {
	return f(ctx, report)
}
