package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"rigor/internal/cases"
	"rigor/internal/config"
	"rigor/internal/execution"
	"rigor/internal/judge"
	"rigor/internal/metrics"
	"rigor/internal/models"
	"rigor/internal/orchestration"
	"rigor/internal/scoring"
)

var (
	configPath  string
	dryRun      bool
	mockAgent   bool
	filterStr   string
	caseID      string
	workers     int
	timeoutStr  string
	outputPath  string
	sinkPath    string
	agentBinary string
	judgeModel  string
	verbose     bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <cases.json>",
		Short: "Run an evaluation batch",
		Long: `Run an evaluation batch from a case-set file.

Each case spawns the research agent in an isolated workspace, then the
produced document is scored. With --dry-run the quick scorer grades the
documents instead of the LLM judge; the research agent still runs.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Score with the quick scorer instead of the LLM judge")
	cmd.Flags().BoolVar(&mockAgent, "mock-agent", false, "Replace the research agent with a mock (wiring checks only)")
	cmd.Flags().StringVar(&filterStr, "filter", "", "Run only cases whose id has this prefix or whose domain matches")
	cmd.Flags().StringVar(&caseID, "case", "", "Run exactly one case by id")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent cases (default: 2)")
	cmd.Flags().StringVar(&timeoutStr, "timeout", "", "Per-case agent timeout (e.g. 5m)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file for the batch outcome")
	cmd.Flags().StringVar(&sinkPath, "sink", "", "JSONL file receiving per-case measurements")
	cmd.Flags().StringVar(&agentBinary, "agent", "", "Research agent binary (default: claude)")
	cmd.Flags().StringVar(&judgeModel, "judge-model", "", "Model used by the LLM judge")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with detailed progress")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args[0])
	if err != nil {
		return err
	}

	set, err := cases.LoadFile(cfg.CasesPath)
	if err != nil {
		return err
	}

	selected, err := cases.Select(set, cases.Selection{CaseID: cfg.CaseID, Filter: cfg.Filter})
	if err != nil {
		return err
	}

	if len(selected) == 0 {
		fmt.Println("No cases matched the filter.")
		return nil
	}

	engine := buildEngine(cfg)
	strategy := buildStrategy(cfg)

	runnerOpts := []orchestration.RunnerOption{}
	if sinkPath != "" {
		sink, err := metrics.NewJSONLSink(sinkPath)
		if err != nil {
			return err
		}
		defer sink.Close()
		runnerOpts = append(runnerOpts, orchestration.WithMetricsSink(sink))
	}

	runner := orchestration.NewRunner(cfg, engine, strategy, runnerOpts...)

	if verbose {
		runner.OnProgress(verboseProgressListener)
	} else {
		runner.OnProgress(simpleProgressListener)
	}

	fmt.Printf("Running evaluation: %s\n", cfg.CasesPath)
	fmt.Printf("Cases: %d\n", len(selected))
	fmt.Printf("Mode: %s\n", string(cfg.Mode))
	fmt.Printf("Workers: %d\n", cfg.Workers)
	fmt.Println()

	outcome, err := runner.RunBatch(context.Background(), toPointers(selected))
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	printSummary(outcome)

	if outputPath != "" {
		if err := saveOutcome(outcome, outputPath); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Printf("\nResults saved to: %s\n", outputPath)
	}

	if outcome.Digest.Failed > 0 || outcome.Digest.Errors > 0 {
		return &CaseFailureError{
			Message: fmt.Sprintf("batch completed with %d failed and %d error(s)", outcome.Digest.Failed, outcome.Digest.Errors),
		}
	}

	return nil
}

// buildConfig layers defaults, the optional config file, the environment,
// and finally CLI flags.
func buildConfig(casesPath string) (config.Batch, error) {
	cfg := config.Default()

	if err := cfg.ApplyFile(configPath); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	cfg.CasesPath = casesPath

	if dryRun {
		cfg.DryRun = true
	}
	if filterStr != "" {
		cfg.Filter = filterStr
	}
	if caseID != "" {
		cfg.CaseID = caseID
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return cfg, fmt.Errorf("invalid --timeout %q: %w", timeoutStr, err)
		}
		cfg.TimeoutSec = int(d.Seconds())
	}
	if agentBinary != "" {
		cfg.AgentCommand = agentBinary
	}
	if judgeModel != "" {
		cfg.Model = judgeModel
	}

	// Dry runs never call the LLM judge.
	if cfg.DryRun {
		cfg.Mode = models.ModeQuick
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func buildEngine(cfg config.Batch) execution.ResearchEngine {
	if mockAgent {
		return execution.NewMockEngine()
	}

	engine := execution.NewClaudeCLIEngine()
	if cfg.AgentCommand != "" {
		engine.Binary = cfg.AgentCommand
	}
	return engine
}

func buildStrategy(cfg config.Batch) scoring.Strategy {
	if cfg.Mode == models.ModeQuick {
		return &scoring.QuickStrategy{}
	}
	return judge.New(&judge.CopilotClient{Model: cfg.Model})
}

func toPointers(cs []models.EvaluationCase) []*models.EvaluationCase {
	out := make([]*models.EvaluationCase, len(cs))
	for i := range cs {
		out[i] = &cs[i]
	}
	return out
}

func verboseProgressListener(event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventBatchStart:
		fmt.Printf("Starting batch with %d case(s)...\n\n", event.TotalCases)
	case orchestration.EventCaseStart:
		fmt.Printf("[%d/%d] Running case: %s\n", event.CaseNum, event.TotalCases, event.CaseID)
	case orchestration.EventCaseComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("  Case %s: %s score=%.2f (%v)\n", event.CaseID, event.Status, event.Score, duration)
		if event.ErrorMsg != "" {
			fmt.Printf("  [ERROR] %s\n", event.ErrorMsg)
		}
	case orchestration.EventBatchComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("\nBatch completed in %v\n\n", duration)
	}
}

func simpleProgressListener(event orchestration.ProgressEvent) {
	if event.EventType != orchestration.EventCaseComplete {
		return
	}
	status := "✓"
	if event.Status != models.StatusPassed {
		status = "✗"
	}
	fmt.Printf("%s [%d/%d] %s\n", status, event.CaseNum, event.TotalCases, event.CaseID)
}

func saveOutcome(outcome *models.BatchOutcome, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
