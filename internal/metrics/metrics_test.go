package metrics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rigor/internal/docstats"
	"rigor/internal/models"
)

func sampleCase() *models.EvaluationCase {
	return &models.EvaluationCase{
		ID:         "retry-storms",
		Domain:     "networking",
		Difficulty: models.DifficultyHard,
	}
}

func TestAggregate(t *testing.T) {
	jr := &models.JudgeResult{
		Score:               0.85,
		KeywordCoverage:     0.5,
		MustDiscoverHits:    2,
		MustDiscoverTotal:   4,
		ShouldDiscoverHits:  1,
		ShouldDiscoverTotal: 2,
	}

	ms := Aggregate(sampleCase(), models.ModeJudge, jr)
	require.Len(t, ms, 5)

	byName := make(map[string]Measurement)
	for _, m := range ms {
		byName[m.Name] = m
	}

	require.Equal(t, 0.85, byName[MetricOverallScore].Value)
	require.Equal(t, 0.5, byName[MetricKeywordCoverage].Value)
	require.Equal(t, 0.5, byName[MetricMustDiscoverRate].Value)
	require.Equal(t, 0.5, byName[MetricShouldDiscoverRate].Value)
	require.Equal(t, 1.0, byName[MetricPass].Value)

	require.Equal(t, "retry-storms", byName[MetricOverallScore].Tags[TagCaseID])
	require.Equal(t, "networking", byName[MetricOverallScore].Tags[TagDomain])
	require.Equal(t, "hard", byName[MetricOverallScore].Tags[TagDifficulty])
	require.Equal(t, "judge", byName[MetricOverallScore].Tags[TagMode])
}

func TestAggregate_PassBoundary(t *testing.T) {
	tests := []struct {
		score float64
		pass  float64
	}{
		{0.699999, 0.0},
		{0.7, 1.0},
		{0.70001, 1.0},
	}

	for _, tt := range tests {
		ms := Aggregate(sampleCase(), models.ModeJudge, &models.JudgeResult{Score: tt.score})
		byName := make(map[string]Measurement)
		for _, m := range ms {
			byName[m.Name] = m
		}
		require.Equal(t, tt.pass, byName[MetricPass].Value, "score %v", tt.score)
	}
}

func TestAggregate_ZeroTotalsGuard(t *testing.T) {
	ms := Aggregate(sampleCase(), models.ModeQuick, &models.JudgeResult{Score: 0.9})

	byName := make(map[string]Measurement)
	for _, m := range ms {
		byName[m.Name] = m
	}

	require.Equal(t, 0.0, byName[MetricMustDiscoverRate].Value)
	require.Equal(t, 0.0, byName[MetricShouldDiscoverRate].Value)
}

func TestDocMeasurements(t *testing.T) {
	ms := DocMeasurements(sampleCase(), models.ModeQuick, docstats.Stats{
		Words:    412,
		Headings: 6,
		Links:    3,
	})
	require.Len(t, ms, 3)

	byName := make(map[string]Measurement)
	for _, m := range ms {
		byName[m.Name] = m
	}

	require.Equal(t, 412.0, byName[MetricDocWords].Value)
	require.Equal(t, 6.0, byName[MetricDocHeadings].Value)
	require.Equal(t, 3.0, byName[MetricDocLinks].Value)
	require.Equal(t, "quick", byName[MetricDocWords].Tags[TagMode])
}

func TestMemorySink(t *testing.T) {
	var sink MemorySink

	require.NoError(t, sink.Emit([]Measurement{{Name: "a", Value: 1}}))
	require.NoError(t, sink.Emit([]Measurement{{Name: "b", Value: 2}}))

	ms := sink.Measurements()
	require.Len(t, ms, 2)
	require.Equal(t, "a", ms[0].Name)
}

func TestJSONLSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.jsonl")

	sink, err := NewJSONLSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Emit(Aggregate(sampleCase(), models.ModeJudge, &models.JudgeResult{Score: 0.8})))
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m Measurement
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		require.NotEmpty(t, m.Name)
		require.Equal(t, "retry-storms", m.Tags[TagCaseID])
		lines++
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, 5, lines)
}

func TestMultiSink(t *testing.T) {
	var a, b MemorySink
	multi := MultiSink{&a, &b}

	require.NoError(t, multi.Emit([]Measurement{{Name: "x"}}))
	require.NoError(t, multi.Close())

	require.Len(t, a.Measurements(), 1)
	require.Len(t, b.Measurements(), 1)
}
