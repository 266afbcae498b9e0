package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rigor/internal/models"
)

// MockEngine is a simple mock implementation for dry runs and testing. It
// echoes the hypothesis back as a small markdown document so downstream
// scoring has realistic input without an agent invocation.
type MockEngine struct {
	// Canned, when set, is returned verbatim instead of the generated
	// document. Tests use this to control scorer input exactly.
	Canned string
}

// NewMockEngine creates a new mock engine
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func (m *MockEngine) Initialize(ctx context.Context) error {
	return nil
}

func (m *MockEngine) Execute(ctx context.Context, req *ResearchRequest) (*models.ResearchOutput, error) {
	start := time.Now()

	content := m.Canned

	if content == "" {
		var sb strings.Builder
		fmt.Fprintf(&sb, "# Research: %s\n\n", req.CaseID)
		fmt.Fprintf(&sb, "## Hypothesis\n\n%s\n\n", req.Hypothesis)
		fmt.Fprintf(&sb, "## Context\n\n%s\n\n", req.Context)
		sb.WriteString("## Findings\n\nDry-run output; no research was performed.\n")
		content = sb.String()
	}

	return &models.ResearchOutput{
		Content:    content,
		DurationMs: time.Since(start).Milliseconds(),
		ExitCode:   0,
	}, nil
}

func (m *MockEngine) Shutdown(ctx context.Context) error {
	return nil
}
