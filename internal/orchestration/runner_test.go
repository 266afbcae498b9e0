package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rigor/internal/config"
	"rigor/internal/execution"
	"rigor/internal/metrics"
	"rigor/internal/models"
	"rigor/internal/scoring"
)

// stubEngine returns canned documents per case id, and a canned error for
// ids listed in fail.
type stubEngine struct {
	docs map[string]string
	fail map[string]error

	mu       sync.Mutex
	executed []string
}

func (s *stubEngine) Initialize(ctx context.Context) error { return nil }
func (s *stubEngine) Shutdown(ctx context.Context) error   { return nil }

func (s *stubEngine) Execute(_ context.Context, req *execution.ResearchRequest) (*models.ResearchOutput, error) {
	s.mu.Lock()
	s.executed = append(s.executed, req.CaseID)
	s.mu.Unlock()

	if err, ok := s.fail[req.CaseID]; ok {
		return nil, err
	}
	return &models.ResearchOutput{Content: s.docs[req.CaseID], DurationMs: 5}, nil
}

func makeCase(id string) *models.EvaluationCase {
	return &models.EvaluationCase{
		ID:         id,
		Domain:     "storage",
		Difficulty: models.DifficultyEasy,
		Hypothesis: "h",
		ExpectedFindings: models.ExpectedFindings{
			MustDiscover: []string{"alpha beta"},
			Keywords:     []string{"alpha", "beta"},
		},
	}
}

func testConfig() config.Batch {
	cfg := config.Default()
	cfg.CasesPath = "cases.json"
	cfg.Mode = models.ModeQuick
	return cfg
}

func TestRunBatch_AllPass(t *testing.T) {
	engine := &stubEngine{docs: map[string]string{
		"case-a": "alpha beta everywhere",
		"case-b": "alpha beta again",
	}}

	runner := NewRunner(testConfig(), engine, scoring.QuickStrategy{})

	outcome, err := runner.RunBatch(context.Background(), []*models.EvaluationCase{
		makeCase("case-a"),
		makeCase("case-b"),
	})
	require.NoError(t, err)

	require.Equal(t, 2, outcome.Digest.TotalCases)
	require.Equal(t, 2, outcome.Digest.Passed)
	require.Equal(t, 0, outcome.Digest.Failed)
	require.Equal(t, 1.0, outcome.Digest.PassRate)
	require.Equal(t, models.ModeQuick, outcome.Mode)
	require.NotEmpty(t, outcome.RunID)

	for _, cr := range outcome.Results {
		require.Equal(t, models.StatusPassed, cr.Status)
		require.Equal(t, 1.0, cr.Score())
		require.Equal(t, 1.0, cr.Metrics[metrics.MetricPass])
	}
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	// One case times out; the other two still get scored.
	engine := &stubEngine{
		docs: map[string]string{
			"case-a": "alpha beta everywhere",
			"case-c": "nothing relevant here",
		},
		fail: map[string]error{
			"case-b": &models.AgentTimeoutError{CaseID: "case-b", Timeout: time.Minute},
		},
	}

	runner := NewRunner(testConfig(), engine, scoring.QuickStrategy{})

	outcome, err := runner.RunBatch(context.Background(), []*models.EvaluationCase{
		makeCase("case-a"),
		makeCase("case-b"),
		makeCase("case-c"),
	})
	require.NoError(t, err)

	require.Equal(t, 3, outcome.Digest.TotalCases)
	require.Equal(t, 1, outcome.Digest.Passed)
	require.Equal(t, 1, outcome.Digest.Failed)
	require.Equal(t, 1, outcome.Digest.Errors)

	require.Len(t, engine.executed, 3)

	byID := make(map[string]models.CaseResult)
	for _, cr := range outcome.Results {
		byID[cr.CaseID] = cr
	}

	require.Equal(t, models.StatusPassed, byID["case-a"].Status)

	errored := byID["case-b"]
	require.Equal(t, models.StatusError, errored.Status)
	require.Equal(t, 0.0, errored.Score())
	require.Contains(t, errored.ErrorMsg, "timed out")
	require.NotNil(t, errored.Judge)
	require.Contains(t, errored.Judge.Reasoning, "timed out")

	// "nothing relevant here" misses the must item and both keywords.
	require.Equal(t, models.StatusFailed, byID["case-c"].Status)
}

func TestRunBatch_ResultsKeepInputOrder(t *testing.T) {
	engine := &stubEngine{docs: map[string]string{
		"case-a": "alpha beta",
		"case-b": "alpha beta",
		"case-c": "alpha beta",
	}}

	cfg := testConfig()
	cfg.Workers = 3

	runner := NewRunner(cfg, engine, scoring.QuickStrategy{})

	outcome, err := runner.RunBatch(context.Background(), []*models.EvaluationCase{
		makeCase("case-a"),
		makeCase("case-b"),
		makeCase("case-c"),
	})
	require.NoError(t, err)

	require.Equal(t, "case-a", outcome.Results[0].CaseID)
	require.Equal(t, "case-b", outcome.Results[1].CaseID)
	require.Equal(t, "case-c", outcome.Results[2].CaseID)
}

func TestRunBatch_EmptyInput(t *testing.T) {
	runner := NewRunner(testConfig(), &stubEngine{}, scoring.QuickStrategy{})

	_, err := runner.RunBatch(context.Background(), nil)
	require.Error(t, err)
}

func TestRunBatch_ProgressEvents(t *testing.T) {
	engine := &stubEngine{docs: map[string]string{"case-a": "alpha beta"}}
	runner := NewRunner(testConfig(), engine, scoring.QuickStrategy{})

	var mu sync.Mutex
	var events []EventType
	runner.OnProgress(func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e.EventType)
	})

	_, err := runner.RunBatch(context.Background(), []*models.EvaluationCase{makeCase("case-a")})
	require.NoError(t, err)

	require.Equal(t, []EventType{
		EventBatchStart,
		EventCaseStart,
		EventCaseComplete,
		EventBatchComplete,
	}, events)
}

func TestRunBatch_MetricsSink(t *testing.T) {
	engine := &stubEngine{docs: map[string]string{"case-a": "alpha beta"}}

	var sink metrics.MemorySink
	runner := NewRunner(testConfig(), engine, scoring.QuickStrategy{}, WithMetricsSink(&sink))

	_, err := runner.RunBatch(context.Background(), []*models.EvaluationCase{makeCase("case-a")})
	require.NoError(t, err)

	// Five score measurements plus three document-shape measurements.
	require.Len(t, sink.Measurements(), 8)
}

func TestRunBatch_ErroredCaseStillEmitsMetrics(t *testing.T) {
	engine := &stubEngine{
		fail: map[string]error{
			"case-a": &models.AgentTimeoutError{CaseID: "case-a", Timeout: time.Minute},
		},
	}

	var sink metrics.MemorySink
	runner := NewRunner(testConfig(), engine, scoring.QuickStrategy{}, WithMetricsSink(&sink))

	outcome, err := runner.RunBatch(context.Background(), []*models.EvaluationCase{makeCase("case-a")})
	require.NoError(t, err)
	require.Equal(t, models.StatusError, outcome.Results[0].Status)

	ms := sink.Measurements()
	require.NotEmpty(t, ms)

	byName := make(map[string]metrics.Measurement)
	for _, m := range ms {
		byName[m.Name] = m
	}

	require.Equal(t, 0.0, byName[metrics.MetricOverallScore].Value)
	require.Equal(t, 0.0, byName[metrics.MetricPass].Value)
	require.Equal(t, "case-a", byName[metrics.MetricOverallScore].Tags[metrics.TagCaseID])
	require.Equal(t, outcome.Results[0].Metrics[metrics.MetricOverallScore], 0.0)
}

func TestRunBatch_PassBoundary(t *testing.T) {
	// Keywords missing, must item hit: score is exactly the must weight 0.6,
	// which is below the 0.7 pass threshold.
	c := &models.EvaluationCase{
		ID:         "boundary",
		Domain:     "storage",
		Difficulty: models.DifficultyEasy,
		ExpectedFindings: models.ExpectedFindings{
			MustDiscover: []string{"alpha beta"},
			Keywords:     []string{"zzzz"},
		},
	}

	engine := &stubEngine{docs: map[string]string{"boundary": "alpha beta"}}
	runner := NewRunner(testConfig(), engine, scoring.QuickStrategy{})

	outcome, err := runner.RunBatch(context.Background(), []*models.EvaluationCase{c})
	require.NoError(t, err)

	require.Equal(t, models.StatusFailed, outcome.Results[0].Status)
	require.InDelta(t, 0.6, outcome.Results[0].Score(), 1e-9)
}
