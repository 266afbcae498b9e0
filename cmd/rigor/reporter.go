package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"rigor/internal/models"
)

const (
	colCaseID     = 32
	colDomain     = 14
	colDifficulty = 8
	colScore      = 7
)

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

func printSummary(outcome *models.BatchOutcome) {
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println(" EVALUATION RESULTS")
	fmt.Println("=" + strings.Repeat("=", 50))
	fmt.Println()

	digest := outcome.Digest

	fmt.Printf("Run ID:       %s\n", outcome.RunID)
	fmt.Printf("Mode:         %s\n", outcome.Mode)
	fmt.Printf("Total Cases:  %d\n", digest.TotalCases)
	fmt.Printf("Passed:       %d\n", digest.Passed)
	fmt.Printf("Failed:       %d\n", digest.Failed)
	fmt.Printf("Errors:       %d\n", digest.Errors)
	fmt.Printf("Pass Rate:    %.1f%%\n", digest.PassRate*100)
	fmt.Printf("Avg Score:    %.2f\n", digest.AvgScore)
	fmt.Printf("Score Range:  %.2f - %.2f (σ=%.4f)\n", digest.MinScore, digest.MaxScore, digest.StdDev)

	duration := time.Duration(digest.DurationMs) * time.Millisecond
	fmt.Printf("Duration:     %v\n", duration)
	fmt.Println()

	fmt.Println("-" + strings.Repeat("-", 50))
	fmt.Println(" PER-CASE BREAKDOWN")
	fmt.Println("-" + strings.Repeat("-", 50))

	fmt.Printf("%s %s %s %s %s\n",
		padRight("Case", colCaseID),
		padRight("Domain", colDomain),
		padRight("Diff", colDifficulty),
		padRight("Score", colScore),
		"Status")

	for _, cr := range outcome.Results {
		icon := "✓"
		if cr.Status != models.StatusPassed {
			icon = "✗"
		}
		fmt.Printf("%s %s %s %s %s %s\n",
			padRight(truncateName(cr.CaseID, colCaseID-1), colCaseID),
			padRight(cr.Domain, colDomain),
			padRight(string(cr.Difficulty), colDifficulty),
			padRight(fmt.Sprintf("%.2f", cr.Score()), colScore),
			icon,
			cr.Status)
	}
	fmt.Println()

	if digest.Failed > 0 || digest.Errors > 0 {
		fmt.Println("Failed Cases:")
		for _, cr := range outcome.Results {
			if cr.Status == models.StatusPassed {
				continue
			}
			fmt.Printf("  - %s (%s)\n", cr.CaseID, cr.Status)
			if cr.ErrorMsg != "" {
				fmt.Printf("    • %s\n", cr.ErrorMsg)
			} else if cr.Judge != nil && cr.Judge.Reasoning != "" {
				fmt.Printf("    • %s\n", truncateName(cr.Judge.Reasoning, 160))
			}
		}
		fmt.Println()
	}
}

// printJudgeDetail renders the full scoring record for one case.
func printJudgeDetail(jr *models.JudgeResult) {
	fmt.Printf("Score:             %.2f\n", jr.Score)
	fmt.Printf("Keyword Coverage:  %.2f\n", jr.KeywordCoverage)
	fmt.Printf("Must Discover:     %d/%d\n", jr.MustDiscoverHits, jr.MustDiscoverTotal)
	fmt.Printf("Should Discover:   %d/%d\n", jr.ShouldDiscoverHits, jr.ShouldDiscoverTotal)
	fmt.Println()
	fmt.Printf("Reasoning: %s\n", jr.Reasoning)

	if len(jr.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, s := range jr.Strengths {
			fmt.Printf("  + %s\n", s)
		}
	}
	if len(jr.Weaknesses) > 0 {
		fmt.Println("\nWeaknesses:")
		for _, w := range jr.Weaknesses {
			fmt.Printf("  - %s\n", w)
		}
	}
}
