package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCaseSetBytes_Valid(t *testing.T) {
	doc := `{
  "meta": {"version": "1.0", "description": "d", "total_cases": 1, "domains": ["a"]},
  "cases": [
    {
      "id": "x",
      "domain": "a",
      "difficulty": "easy",
      "hypothesis": "h",
      "context": "c",
      "expected_findings": {"must_discover": ["m"], "should_discover": [], "keywords": ["k"]},
      "known_answer_summary": "s"
    }
  ]
}`

	require.Empty(t, ValidateCaseSetBytes([]byte(doc)))
}

func TestValidateCaseSetBytes_MissingMeta(t *testing.T) {
	issues := ValidateCaseSetBytes([]byte(`{"cases": []}`))
	require.NotEmpty(t, issues)
}

func TestValidateCaseSetBytes_IssueCarriesLocation(t *testing.T) {
	doc := `{
  "meta": {"version": "1.0", "description": "d", "total_cases": 1, "domains": ["a"]},
  "cases": [
    {
      "id": "x",
      "domain": "a",
      "difficulty": "brutal",
      "hypothesis": "h",
      "context": "c",
      "expected_findings": {"must_discover": ["m"], "should_discover": [], "keywords": ["k"]},
      "known_answer_summary": "s"
    }
  ]
}`

	issues := ValidateCaseSetBytes([]byte(doc))
	require.NotEmpty(t, issues)

	found := false
	for _, issue := range issues {
		if len(issue) > 0 && issue[0] == '/' {
			found = true
		}
	}
	require.True(t, found, "expected at least one issue with an instance location, got %v", issues)
}

func TestValidateCaseSetBytes_ParseError(t *testing.T) {
	issues := ValidateCaseSetBytes([]byte("not json"))
	require.Len(t, issues, 1)
	require.Contains(t, issues[0], "JSON parse error")
}
