// Package models defines the evaluation case schema, scoring records, and
// the error taxonomy shared across the harness.
package models

// Difficulty categorizes how hard a case is expected to be for the
// research agent.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ExpectedFindings is the grading rubric for one case.
type ExpectedFindings struct {
	// MustDiscover lists critical fact statements; missing one is a
	// significant failure.
	MustDiscover []string `json:"must_discover"`
	// ShouldDiscover lists desirable but non-mandatory fact statements.
	ShouldDiscover []string `json:"should_discover"`
	// Keywords are terms expected to appear in a correct answer.
	Keywords []string `json:"keywords"`
}

// EvaluationCase identifies one hypothesis to research and how to grade
// the resulting document.
type EvaluationCase struct {
	ID         string     `json:"id"`
	Domain     string     `json:"domain"`
	Difficulty Difficulty `json:"difficulty"`
	Hypothesis string     `json:"hypothesis"`
	Context    string     `json:"context"`

	ExpectedFindings ExpectedFindings `json:"expected_findings"`

	// KnownAnswerSummary is the reference answer. It is shown only to the
	// judge, never to the research agent.
	KnownAnswerSummary string `json:"known_answer_summary"`
}

// CaseSetMeta describes a case-set file.
type CaseSetMeta struct {
	Version     string   `json:"version"`
	Description string   `json:"description"`
	TotalCases  int      `json:"total_cases"`
	Domains     []string `json:"domains"`
}

// CaseSet is the parsed form of a case-set JSON document.
type CaseSet struct {
	Meta  CaseSetMeta      `json:"meta"`
	Cases []EvaluationCase `json:"cases"`
}

// ResearchOutput is the artifact produced by the research agent for one
// case-run. Created once per run and immutable afterward.
type ResearchOutput struct {
	// Content is the full text of the produced research document. May be
	// empty when the agent produced nothing.
	Content string `json:"content"`
	// FilePath is where the document was found, when it came from a file
	// rather than stdout. Diagnostic only.
	FilePath string `json:"file_path,omitempty"`
	// DurationMs is the wall-clock time of the agent invocation.
	DurationMs int64 `json:"duration_ms"`
	// ExitCode is the agent process exit status.
	ExitCode int `json:"exit_code"`
}

// JudgeResult is the normalized scoring record for one case-run, produced
// by either the quick scorer or the LLM judge.
type JudgeResult struct {
	Score               float64  `json:"score" mapstructure:"score"`
	KeywordCoverage     float64  `json:"keyword_coverage" mapstructure:"keyword_coverage"`
	MustDiscoverHits    int      `json:"must_discover_hits" mapstructure:"must_discover_hits"`
	MustDiscoverTotal   int      `json:"must_discover_total" mapstructure:"must_discover_total"`
	ShouldDiscoverHits  int      `json:"should_discover_hits" mapstructure:"should_discover_hits"`
	ShouldDiscoverTotal int      `json:"should_discover_total" mapstructure:"should_discover_total"`
	Reasoning           string   `json:"reasoning" mapstructure:"reasoning"`
	Strengths           []string `json:"strengths" mapstructure:"strengths"`
	Weaknesses          []string `json:"weaknesses" mapstructure:"weaknesses"`
}

// MustDiscoverRate returns hits/total, or 0 when there are no must-discover
// items.
func (j *JudgeResult) MustDiscoverRate() float64 {
	if j.MustDiscoverTotal == 0 {
		return 0.0
	}
	return float64(j.MustDiscoverHits) / float64(j.MustDiscoverTotal)
}

// ShouldDiscoverRate returns hits/total, or 0 when there are no
// should-discover items.
func (j *JudgeResult) ShouldDiscoverRate() float64 {
	if j.ShouldDiscoverTotal == 0 {
		return 0.0
	}
	return float64(j.ShouldDiscoverHits) / float64(j.ShouldDiscoverTotal)
}
