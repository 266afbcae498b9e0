package scoring

import (
	"context"

	"rigor/internal/models"
)

// Strategy scores one research output against one case. A strategy is
// chosen once per batch and passed into the runner; quick and judge
// scoring are mutually exclusive within a batch.
type Strategy interface {
	// Mode identifies the scoring path for reporting.
	Mode() models.ScoringMode

	// Score produces a normalized JudgeResult for the case-run.
	Score(ctx context.Context, c *models.EvaluationCase, out *models.ResearchOutput) (*models.JudgeResult, error)
}

// QuickStrategy adapts [Quick] to the Strategy interface.
type QuickStrategy struct{}

// Mode implements [Strategy].
func (QuickStrategy) Mode() models.ScoringMode { return models.ModeQuick }

// Score implements [Strategy]. It never fails and ignores the context: the
// quick path performs no I/O.
func (QuickStrategy) Score(_ context.Context, c *models.EvaluationCase, out *models.ResearchOutput) (*models.JudgeResult, error) {
	result := Quick(c.ExpectedFindings, out.Content)
	return &result, nil
}
