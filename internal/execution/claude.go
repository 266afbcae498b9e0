package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"rigor/internal/models"
)

const defaultTimeoutSec = 300

// ClaudeCLIEngine runs research tasks by shelling out to the claude CLI in
// an isolated workspace per task.
type ClaudeCLIEngine struct {
	// Binary overrides the executable name, mostly for tests.
	Binary string

	// MaxTurns caps the agent's tool-use loop.
	MaxTurns int
}

// NewClaudeCLIEngine creates an engine with the standard CLI settings.
func NewClaudeCLIEngine() *ClaudeCLIEngine {
	return &ClaudeCLIEngine{
		Binary:   "claude",
		MaxTurns: 50,
	}
}

func (e *ClaudeCLIEngine) Initialize(ctx context.Context) error {
	if _, err := exec.LookPath(e.Binary); err != nil {
		return fmt.Errorf("research agent binary %q not found: %w", e.Binary, err)
	}
	return nil
}

// Execute runs one research task. The workspace is removed before
// returning, success or not; the research document is read out first.
func (e *ClaudeCLIEngine) Execute(ctx context.Context, req *ResearchRequest) (*models.ResearchOutput, error) {
	start := time.Now()

	workspace, err := setupWorkspace()
	if err != nil {
		return nil, &models.AgentInvocationError{CaseID: req.CaseID, Err: err}
	}

	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			slog.WarnContext(ctx, "failed to remove workspace", "dir", workspace, "error", err)
		}
	}()

	timeout := time.Duration(req.TimeoutSec) * time.Second
	if req.TimeoutSec <= 0 {
		timeout = defaultTimeoutSec * time.Second
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.Binary,
		"--print",
		"--dangerously-skip-permissions",
		"--max-turns", fmt.Sprintf("%d", e.MaxTurns),
		"-p", FormatTaskPrompt(req),
	)
	cmd.Dir = workspace
	cmd.Env = append(os.Environ(), "CLAUDE_CODE_DISABLE_TELEMETRY=1")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, &models.AgentTimeoutError{CaseID: req.CaseID, Timeout: timeout}
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// The process never ran (bad binary, fork failure).
			return nil, &models.AgentInvocationError{CaseID: req.CaseID, Err: runErr}
		}
		exitCode = exitErr.ExitCode()
		// A nonzero exit still may have produced a document; fall through
		// and let the empty-output check below decide.
		slog.WarnContext(ctx, "research agent exited nonzero",
			"case", req.CaseID, "exitCode", exitCode, "stderr", stderr.String())
	}

	content, docPath, err := newestResearchDoc(workspace)
	if err != nil {
		return nil, &models.AgentInvocationError{CaseID: req.CaseID, Err: err}
	}

	if content == "" {
		// No document written; the agent's printed transcript is the
		// only artifact available to score. Both may be empty, in which
		// case the scorer grades the empty string to zero.
		content = stdout.String()
	}

	return &models.ResearchOutput{
		Content:    content,
		FilePath:   docPath,
		DurationMs: time.Since(start).Milliseconds(),
		ExitCode:   exitCode,
	}, nil
}

func (e *ClaudeCLIEngine) Shutdown(ctx context.Context) error {
	return nil
}
