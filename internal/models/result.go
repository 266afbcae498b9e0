package models

import (
	"math"
	"time"
)

// Status represents the outcome status of a case-run.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	StatusError  Status = "error"
)

// ScoringMode identifies which scorer graded a case-run.
type ScoringMode string

const (
	ModeQuick ScoringMode = "quick"
	ModeJudge ScoringMode = "judge"
)

// CaseResult is the complete result of one case-run.
type CaseResult struct {
	CaseID     string      `json:"case_id"`
	Domain     string      `json:"domain"`
	Difficulty Difficulty  `json:"difficulty"`
	Mode       ScoringMode `json:"mode"`
	// Status contains the overall status of the run.
	// NOTE: if Status == [StatusError], then [ErrorMsg] carries the message
	// from the error that failed the run.
	Status     Status             `json:"status"`
	Judge      *JudgeResult       `json:"judge,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Tags       map[string]string  `json:"tags,omitempty"`
	DurationMs int64              `json:"duration_ms"`
	ExitCode   int                `json:"exit_code"`
	ErrorMsg   string             `json:"error_msg,omitempty"`
}

// Score returns the overall score for the run, 0 when no judge result was
// produced.
func (r *CaseResult) Score() float64 {
	if r.Judge == nil {
		return 0.0
	}
	return r.Judge.Score
}

// BatchDigest summarizes a full batch of case-runs.
type BatchDigest struct {
	TotalCases int     `json:"total_cases"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Errors     int     `json:"errors"`
	PassRate   float64 `json:"pass_rate"`
	AvgScore   float64 `json:"avg_score"`
	MinScore   float64 `json:"min_score"`
	MaxScore   float64 `json:"max_score"`
	StdDev     float64 `json:"std_dev"`
	DurationMs int64   `json:"duration_ms"`
}

// BatchOutcome is the complete result of an evaluation batch.
type BatchOutcome struct {
	RunID     string       `json:"run_id"`
	Timestamp time.Time    `json:"timestamp"`
	Mode      ScoringMode  `json:"mode"`
	Digest    BatchDigest  `json:"digest"`
	Results   []CaseResult `json:"results"`
}

// ComputeStdDev returns the population standard deviation for a slice of
// float64 values.
func ComputeStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(n))
}
