// Package metrics turns judge results into named measurements and routes
// them to sinks.
package metrics

import (
	"rigor/internal/docstats"
	"rigor/internal/models"
)

// Metric names emitted for every scored case.
const (
	MetricOverallScore       = "overall_score"
	MetricKeywordCoverage    = "keyword_coverage"
	MetricMustDiscoverRate   = "must_discover_rate"
	MetricShouldDiscoverRate = "should_discover_rate"
	MetricPass               = "pass"
)

// Document-shape metrics emitted alongside scores.
const (
	MetricDocWords    = "doc_words"
	MetricDocHeadings = "doc_headings"
	MetricDocLinks    = "doc_links"
)

// PassThreshold is the overall score at or above which a case passes.
const PassThreshold = 0.7

// Tag keys attached to every measurement.
const (
	TagCaseID     = "case_id"
	TagDomain     = "domain"
	TagDifficulty = "difficulty"
	TagMode       = "mode"
)

// Measurement is one named value with its identifying tags.
type Measurement struct {
	Name  string            `json:"name"`
	Value float64           `json:"value"`
	Tags  map[string]string `json:"tags"`
}

// CaseTags builds the standard tag set for a case.
func CaseTags(c *models.EvaluationCase, mode models.ScoringMode) map[string]string {
	return map[string]string{
		TagCaseID:     c.ID,
		TagDomain:     c.Domain,
		TagDifficulty: string(c.Difficulty),
		TagMode:       string(mode),
	}
}

// Aggregate derives the full measurement set for one scored case. The
// pass metric is 1 when the overall score meets [PassThreshold].
func Aggregate(c *models.EvaluationCase, mode models.ScoringMode, jr *models.JudgeResult) []Measurement {
	tags := CaseTags(c, mode)

	pass := 0.0
	if jr.Score >= PassThreshold {
		pass = 1.0
	}

	return []Measurement{
		{Name: MetricOverallScore, Value: jr.Score, Tags: tags},
		{Name: MetricKeywordCoverage, Value: jr.KeywordCoverage, Tags: tags},
		{Name: MetricMustDiscoverRate, Value: jr.MustDiscoverRate(), Tags: tags},
		{Name: MetricShouldDiscoverRate, Value: jr.ShouldDiscoverRate(), Tags: tags},
		{Name: MetricPass, Value: pass, Tags: tags},
	}
}

// DocMeasurements reports the shape of the produced document.
func DocMeasurements(c *models.EvaluationCase, mode models.ScoringMode, stats docstats.Stats) []Measurement {
	tags := CaseTags(c, mode)

	return []Measurement{
		{Name: MetricDocWords, Value: float64(stats.Words), Tags: tags},
		{Name: MetricDocHeadings, Value: float64(stats.Headings), Tags: tags},
		{Name: MetricDocLinks, Value: float64(stats.Links), Tags: tags},
	}
}
