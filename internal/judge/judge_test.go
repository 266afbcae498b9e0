package judge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rigor/internal/models"
)

// fakeClient records calls and returns a canned reply.
type fakeClient struct {
	reply string
	err   error

	calls   int
	lastSys string
	lastUsr string
}

func (f *fakeClient) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSys = system
	f.lastUsr = user
	return f.reply, f.err
}

func testCase() *models.EvaluationCase {
	return &models.EvaluationCase{
		ID:         "cache-invalidation",
		Domain:     "storage",
		Difficulty: models.DifficultyMedium,
		Hypothesis: "The cache serves stale entries after invalidation.",
		Context:    "A read-through cache in front of a relational store.",
		ExpectedFindings: models.ExpectedFindings{
			MustDiscover:   []string{"invalidation messages are dropped under load"},
			ShouldDiscover: []string{"ttl acts as a backstop"},
			Keywords:       []string{"invalidation", "ttl", "write-through"},
		},
		KnownAnswerSummary: "Invalidation messages are fire-and-forget.",
	}
}

const goodReply = `Here is my evaluation of the document.

{
  "score": 0.85,
  "keyword_coverage": 0.67,
  "must_discover_hits": 1,
  "must_discover_total": 1,
  "should_discover_hits": 0,
  "should_discover_total": 1,
  "reasoning": "Solid coverage of the critical finding.",
  "strengths": ["identifies the dropped messages"],
  "weaknesses": ["does not mention the ttl backstop"]
}

I hope this helps.`

func TestJudge_Score(t *testing.T) {
	client := &fakeClient{reply: goodReply}
	j := New(client)

	result, err := j.Score(context.Background(), testCase(), &models.ResearchOutput{Content: "doc body"})
	require.NoError(t, err)

	require.Equal(t, 0.85, result.Score)
	require.Equal(t, 0.67, result.KeywordCoverage)
	require.Equal(t, 1, result.MustDiscoverHits)
	require.Equal(t, 1, result.MustDiscoverTotal)
	require.Equal(t, "Solid coverage of the critical finding.", result.Reasoning)
	require.Equal(t, []string{"identifies the dropped messages"}, result.Strengths)
	require.Equal(t, 1, client.calls)
}

func TestJudge_Mode(t *testing.T) {
	require.Equal(t, models.ModeJudge, New(&fakeClient{}).Mode())
}

func TestJudge_PromptContents(t *testing.T) {
	client := &fakeClient{reply: goodReply}
	j := New(client)

	_, err := j.Score(context.Background(), testCase(), &models.ResearchOutput{Content: "THE DOCUMENT BODY"})
	require.NoError(t, err)

	require.Contains(t, client.lastSys, "Scoring rubric")
	require.Contains(t, client.lastSys, "0.9-1.0: Exceptional")
	require.Contains(t, client.lastSys, "0.0-0.29: Failed")

	usr := client.lastUsr
	require.Contains(t, usr, "The cache serves stale entries after invalidation.")
	require.Contains(t, usr, "1. invalidation messages are dropped under load")
	require.Contains(t, usr, "1. ttl acts as a backstop")
	require.Contains(t, usr, "invalidation, ttl, write-through")
	require.Contains(t, usr, "Invalidation messages are fire-and-forget.")
	require.Contains(t, usr, "THE DOCUMENT BODY")

	// The reference answer section precedes the document under evaluation.
	require.Less(t,
		strings.Index(usr, "Known Correct Answer Summary"),
		strings.Index(usr, "Research Document to Evaluate"))
}

func TestJudge_TransportErrorPropagates(t *testing.T) {
	boom := errors.New("session failed")
	j := New(&fakeClient{err: boom})

	_, err := j.Score(context.Background(), testCase(), &models.ResearchOutput{})
	require.ErrorIs(t, err, boom)
}

func TestJudge_NoRetry(t *testing.T) {
	client := &fakeClient{reply: "no json here at all"}
	j := New(client)

	_, err := j.Score(context.Background(), testCase(), &models.ResearchOutput{})
	require.Error(t, err)
	require.Equal(t, 1, client.calls)
}

func TestParseReply(t *testing.T) {
	t.Run("no JSON object", func(t *testing.T) {
		_, err := parseReply("sorry, I cannot evaluate this")
		var jpe *models.JudgeProtocolError
		require.ErrorAs(t, err, &jpe)
		require.Contains(t, jpe.Reason, "no JSON object")
	})

	t.Run("unbalanced braces", func(t *testing.T) {
		_, err := parseReply("prefix } then { suffix")
		var jpe *models.JudgeProtocolError
		require.ErrorAs(t, err, &jpe)
	})

	t.Run("unparsable JSON", func(t *testing.T) {
		_, err := parseReply(`{"score": }`)
		var jpe *models.JudgeProtocolError
		require.ErrorAs(t, err, &jpe)
		require.Contains(t, jpe.Reason, "unparsable")
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := parseReply(`{"score": 0.5, "reasoning": "r"}`)
		var jpe *models.JudgeProtocolError
		require.ErrorAs(t, err, &jpe)
		require.Contains(t, jpe.Reason, "missing fields")
		require.Contains(t, jpe.Reason, "keyword_coverage")
	})

	t.Run("score out of range", func(t *testing.T) {
		_, err := parseReply(`{
  "score": 1.5,
  "keyword_coverage": 0.5,
  "must_discover_hits": 0,
  "must_discover_total": 1,
  "should_discover_hits": 0,
  "should_discover_total": 0,
  "reasoning": "r",
  "strengths": [],
  "weaknesses": []
}`)
		var jpe *models.JudgeProtocolError
		require.ErrorAs(t, err, &jpe)
		require.Contains(t, jpe.Reason, "outside [0,1]")
	})

	t.Run("hits exceed total", func(t *testing.T) {
		_, err := parseReply(`{
  "score": 0.5,
  "keyword_coverage": 0.5,
  "must_discover_hits": 3,
  "must_discover_total": 1,
  "should_discover_hits": 0,
  "should_discover_total": 0,
  "reasoning": "r",
  "strengths": [],
  "weaknesses": []
}`)
		var jpe *models.JudgeProtocolError
		require.ErrorAs(t, err, &jpe)
	})

	t.Run("surrounding prose is ignored", func(t *testing.T) {
		result, err := parseReply(goodReply)
		require.NoError(t, err)
		require.Equal(t, 0.85, result.Score)
	})
}
