// Package scoring provides the deterministic quick scorer and the
// strategy abstraction that selects between it and the LLM judge.
package scoring

import (
	"strings"

	"rigor/internal/models"
)

// Weights for the blended quick score.
const (
	quickMustWeight    = 0.6
	quickKeywordWeight = 0.4
)

// QuickReasoning is the fixed explanation attached to quick-scored results.
const QuickReasoning = "quick scoring only; should-discover items not evaluated"

// Quick computes the deterministic heuristic score for a research document.
// It is a pure function of its inputs: no I/O, no randomness, identical
// inputs always produce identical results.
//
// Keyword coverage is the fraction of keywords appearing as case-insensitive
// substrings of the content. A must-discover statement counts as a hit when
// at least half of its whitespace-delimited words appear in the content; the
// threshold is len(words)/2 compared as a real number, so a 3-word statement
// needs 2 matches. Should-discover items are not evaluated on this path and
// are reported as 0 hits against the true total.
func Quick(findings models.ExpectedFindings, content string) models.JudgeResult {
	lower := strings.ToLower(content)

	keywordHits := 0
	for _, kw := range findings.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			keywordHits++
		}
	}
	keywordCoverage := 0.0
	if len(findings.Keywords) > 0 {
		keywordCoverage = float64(keywordHits) / float64(len(findings.Keywords))
	}

	mustHits := 0
	for _, item := range findings.MustDiscover {
		words := strings.Fields(strings.ToLower(item))
		if len(words) == 0 {
			continue
		}
		matches := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				matches++
			}
		}
		if float64(matches) >= float64(len(words))/2 {
			mustHits++
		}
	}
	mustCoverage := 0.0
	if len(findings.MustDiscover) > 0 {
		mustCoverage = float64(mustHits) / float64(len(findings.MustDiscover))
	}

	return models.JudgeResult{
		Score:               quickMustWeight*mustCoverage + quickKeywordWeight*keywordCoverage,
		KeywordCoverage:     keywordCoverage,
		MustDiscoverHits:    mustHits,
		MustDiscoverTotal:   len(findings.MustDiscover),
		ShouldDiscoverHits:  0,
		ShouldDiscoverTotal: len(findings.ShouldDiscover),
		Reasoning:           QuickReasoning,
		Strengths:           []string{},
		Weaknesses:          []string{},
	}
}
