package execution

import (
	"context"
	"fmt"
	"strings"

	"rigor/internal/models"
)

// ResearchEngine is the interface for executing research tasks
type ResearchEngine interface {
	// Initialize sets up the engine
	Initialize(ctx context.Context) error

	// Execute runs a single research task
	Execute(ctx context.Context, req *ResearchRequest) (*models.ResearchOutput, error)

	// Shutdown cleans up resources
	Shutdown(ctx context.Context) error
}

// ResearchRequest represents a single research task
type ResearchRequest struct {
	CaseID     string
	Hypothesis string
	Context    string
	TimeoutSec int
}

// FormatTaskPrompt builds the instruction handed to the research agent.
func FormatTaskPrompt(req *ResearchRequest) string {
	var sb strings.Builder
	sb.WriteString("/research_experiment\n\n")
	fmt.Fprintf(&sb, "Research the following hypothesis:\n\n%s\n\n", req.Hypothesis)
	fmt.Fprintf(&sb, "Context: %s\n\n", req.Context)
	sb.WriteString("Write your findings as a markdown document in thoughts/shared/research/.")
	return sb.String()
}
