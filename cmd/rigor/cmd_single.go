package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rigor/internal/cases"
	"rigor/internal/docstats"
	"rigor/internal/execution"
	"rigor/internal/metrics"
	"rigor/internal/models"
)

var (
	singleCasesPath string
	singleDryRun    bool
	singleMockAgent bool
	singleTimeout   string
	singleAgent     string
	singleJudge     string
	showDocument    bool
)

func newSingleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single <case-id>",
		Short: "Run a single evaluation case",
		Long: `Run one case by id and print the research document plus the full
scoring detail. Useful when iterating on a case definition.`,
		Args: cobra.ExactArgs(1),
		RunE: singleCommandE,
	}

	cmd.Flags().StringVar(&singleCasesPath, "cases", "cases.json", "Case-set file")
	cmd.Flags().BoolVar(&singleDryRun, "dry-run", false, "Score with the quick scorer instead of the LLM judge")
	cmd.Flags().BoolVar(&singleMockAgent, "mock-agent", false, "Replace the research agent with a mock (wiring checks only)")
	cmd.Flags().StringVar(&singleTimeout, "timeout", "", "Agent timeout (e.g. 5m)")
	cmd.Flags().StringVar(&singleAgent, "agent", "", "Research agent binary (default: claude)")
	cmd.Flags().StringVar(&singleJudge, "judge-model", "", "Model used by the LLM judge")
	cmd.Flags().BoolVar(&showDocument, "show-document", true, "Print the produced research document")

	return cmd
}

func singleCommandE(cmd *cobra.Command, args []string) error {
	id := args[0]

	dryRun = singleDryRun
	mockAgent = singleMockAgent
	agentBinary = singleAgent
	judgeModel = singleJudge
	timeoutStr = singleTimeout

	cfg, err := buildConfig(singleCasesPath)
	if err != nil {
		return err
	}
	cfg.CaseID = id

	set, err := cases.LoadFile(cfg.CasesPath)
	if err != nil {
		return err
	}

	selected, err := cases.Select(set, cases.Selection{CaseID: id})
	if err != nil {
		return err
	}
	c := &selected[0]

	engine := buildEngine(cfg)
	strategy := buildStrategy(cfg)

	ctx := context.Background()
	if err := engine.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Shutdown(ctx)

	fmt.Printf("Case:       %s\n", c.ID)
	fmt.Printf("Domain:     %s (%s)\n", c.Domain, c.Difficulty)
	fmt.Printf("Hypothesis: %s\n\n", c.Hypothesis)

	start := time.Now()
	out, err := engine.Execute(ctx, &execution.ResearchRequest{
		CaseID:     c.ID,
		Hypothesis: c.Hypothesis,
		Context:    c.Context,
		TimeoutSec: cfg.TimeoutSec,
	})
	if err != nil {
		return fmt.Errorf("agent run failed: %w", err)
	}

	stats := docstats.Analyze([]byte(out.Content))
	fmt.Printf("Agent finished in %v (exit code %d)\n", time.Since(start).Round(time.Millisecond), out.ExitCode)
	fmt.Printf("Document: %d words, %d headings, %d links, %d code blocks\n\n",
		stats.Words, stats.Headings, stats.Links, stats.CodeBlocks)

	if showDocument {
		fmt.Println("-" + strings.Repeat("-", 50))
		fmt.Println(out.Content)
		fmt.Println("-" + strings.Repeat("-", 50))
		fmt.Println()
	}

	jr, err := strategy.Score(ctx, c, out)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	printJudgeDetail(jr)

	if jr.Score < metrics.PassThreshold {
		return &CaseFailureError{Message: fmt.Sprintf("case %s failed with score %.2f", c.ID, jr.Score)}
	}

	status := models.StatusPassed
	fmt.Printf("\nResult: %s\n", status)
	return nil
}
