// Package judge implements LLM-based grading of research documents.
//
// The Judge builds a single grading request from a case's rubric plus the
// reference answer, sends it through a CompletionClient, and parses the
// reply into a JudgeResult. The protocol layer performs no retries and
// imposes no timeout of its own: the call is idempotent and safe to retry
// at the caller's discretion, and deadlines belong to the transport.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"rigor/internal/models"
)

// CompletionClient is the transport boundary for the judge call: given a
// system instruction and a user message, return the model's raw text reply.
// Transport errors propagate unmodified.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Judge grades research outputs using an LLM as evaluator. The completion
// client is an explicit dependency so tests can substitute a fake.
type Judge struct {
	client CompletionClient
}

// New creates a Judge backed by the given completion client.
func New(client CompletionClient) *Judge {
	return &Judge{client: client}
}

// Mode implements [scoring.Strategy].
func (j *Judge) Mode() models.ScoringMode { return models.ModeJudge }

// Score implements [scoring.Strategy]. It sends exactly one grading request.
// A transport failure is returned as-is; a reply with missing or malformed
// JSON is a [*models.JudgeProtocolError].
func (j *Judge) Score(ctx context.Context, c *models.EvaluationCase, out *models.ResearchOutput) (*models.JudgeResult, error) {
	reply, err := j.client.Complete(ctx, systemPrompt, buildUserPrompt(c, out))
	if err != nil {
		return nil, err
	}
	return parseReply(reply)
}

const systemPrompt = `You are an expert evaluator assessing the quality of technical research documents.

Your job is to evaluate how well a research document answers a given hypothesis by comparing it against expected findings.

You must be:
- STRICT about "must_discover" items - these are critical and missing them is a significant failure
- FAIR about "should_discover" items - these improve quality but aren't mandatory
- THOROUGH in checking keyword coverage - indicates depth of research
- OBJECTIVE in your scoring - use the rubric precisely

Scoring rubric (0-1 scale):
- 0.9-1.0: Exceptional - All must_discover, most should_discover, comprehensive coverage
- 0.7-0.89: Good - All must_discover, some should_discover, solid coverage
- 0.5-0.69: Adequate - Most must_discover, basic coverage
- 0.3-0.49: Poor - Missing critical must_discover items
- 0.0-0.29: Failed - Major gaps, doesn't address hypothesis

Output your evaluation as JSON matching this schema:
{
  "score": <number 0-1>,
  "keyword_coverage": <number 0-1>,
  "must_discover_hits": <number>,
  "must_discover_total": <number>,
  "should_discover_hits": <number>,
  "should_discover_total": <number>,
  "reasoning": "<detailed explanation of score>",
  "strengths": ["<strength 1>", "<strength 2>"],
  "weaknesses": ["<weakness 1>", "<weakness 2>"]
}`

// buildUserPrompt assembles the per-case grading request. Section order is
// part of the external contract: hypothesis, context, must list, should
// list, keywords, known answer, document, final instruction.
func buildUserPrompt(c *models.EvaluationCase, out *models.ResearchOutput) string {
	var sb strings.Builder

	sb.WriteString("## Evaluation Task\n\n")
	sb.WriteString("Evaluate the following research document against the expected findings.\n\n")

	sb.WriteString("### Hypothesis Being Researched\n")
	sb.WriteString(c.Hypothesis)
	sb.WriteString("\n\n### Context\n")
	sb.WriteString(c.Context)

	sb.WriteString("\n\n### Expected Findings\n\n")
	sb.WriteString("**Must Discover (Critical):**\n")
	writeNumbered(&sb, c.ExpectedFindings.MustDiscover)
	sb.WriteString("\n**Should Discover (Important):**\n")
	writeNumbered(&sb, c.ExpectedFindings.ShouldDiscover)
	sb.WriteString("\n**Keywords to Check For:**\n")
	sb.WriteString(strings.Join(c.ExpectedFindings.Keywords, ", "))

	sb.WriteString("\n\n### Known Correct Answer Summary\n")
	sb.WriteString(c.KnownAnswerSummary)

	sb.WriteString("\n\n---\n\n### Research Document to Evaluate\n\n")
	sb.WriteString(out.Content)

	sb.WriteString("\n\n---\n\n")
	sb.WriteString("Now evaluate this research document. Check each must_discover and should_discover item.\n")
	sb.WriteString("Count how many keywords appear in the document.\n")
	sb.WriteString("Compare the depth and accuracy against the known answer summary.\n\n")
	sb.WriteString("Provide your evaluation as JSON.")

	return sb.String()
}

func writeNumbered(sb *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
}

// requiredFields are the keys the extracted JSON object must carry.
var requiredFields = []string{
	"score",
	"keyword_coverage",
	"must_discover_hits",
	"must_discover_total",
	"should_discover_hits",
	"should_discover_total",
	"reasoning",
	"strengths",
	"weaknesses",
}

// parseReply extracts the grading object from free-form model text. The
// object is located as the span from the first '{' through the last '}',
// then validated against the full JudgeResult shape; a partially-populated
// result is never returned.
func parseReply(reply string) (*models.JudgeResult, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, &models.JudgeProtocolError{Reason: "no JSON object in judge reply"}
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, &models.JudgeProtocolError{Reason: "unparsable JSON in judge reply", Err: err}
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := raw[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &models.JudgeProtocolError{
			Reason: "judge reply missing fields: " + strings.Join(missing, ", "),
		}
	}

	var result models.JudgeResult
	if err := mapstructure.Decode(raw, &result); err != nil {
		return nil, &models.JudgeProtocolError{Reason: "judge reply does not match result schema", Err: err}
	}

	if err := checkRanges(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func checkRanges(r *models.JudgeResult) error {
	if r.Score < 0 || r.Score > 1 {
		return &models.JudgeProtocolError{Reason: fmt.Sprintf("score %v outside [0,1]", r.Score)}
	}
	if r.KeywordCoverage < 0 || r.KeywordCoverage > 1 {
		return &models.JudgeProtocolError{Reason: fmt.Sprintf("keyword_coverage %v outside [0,1]", r.KeywordCoverage)}
	}
	if r.MustDiscoverHits < 0 || r.MustDiscoverTotal < 0 || r.MustDiscoverHits > r.MustDiscoverTotal {
		return &models.JudgeProtocolError{
			Reason: fmt.Sprintf("must_discover hits/total out of range: %d/%d", r.MustDiscoverHits, r.MustDiscoverTotal),
		}
	}
	if r.ShouldDiscoverHits < 0 || r.ShouldDiscoverTotal < 0 || r.ShouldDiscoverHits > r.ShouldDiscoverTotal {
		return &models.JudgeProtocolError{
			Reason: fmt.Sprintf("should_discover hits/total out of range: %d/%d", r.ShouldDiscoverHits, r.ShouldDiscoverTotal),
		}
	}
	return nil
}
