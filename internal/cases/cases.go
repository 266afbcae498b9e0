// Package cases loads, validates, and selects evaluation cases.
//
// A case-set file is a JSON document with a meta block and a cases array.
// Loading validates the whole document against the embedded schema before
// decoding: a malformed file rejects the entire load so that grading metrics
// are never computed over a silently-filtered set.
package cases

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"rigor/internal/models"
	"rigor/internal/validation"
)

// LoadFile reads and parses a case-set file.
func LoadFile(path string) (*models.CaseSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case set: %w", err)
	}

	set, err := Load(data)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
		}
		return nil, err
	}
	return set, nil
}

// Load parses a case-set document from raw JSON bytes. It returns
// [*models.ValidationError] when the document does not match the required
// shape, without returning any partial case list.
func Load(data []byte) (*models.CaseSet, error) {
	if issues := validation.ValidateCaseSetBytes(data); len(issues) > 0 {
		return nil, &models.ValidationError{Issues: issues}
	}

	var set models.CaseSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, &models.ValidationError{Issues: []string{err.Error()}}
	}

	if issues := checkIDs(set.Cases); len(issues) > 0 {
		return nil, &models.ValidationError{Issues: issues}
	}

	return &set, nil
}

// checkIDs enforces id uniqueness across the loaded set.
func checkIDs(cs []models.EvaluationCase) []string {
	seen := make(map[string]bool, len(cs))
	var issues []string
	for _, c := range cs {
		if seen[c.ID] {
			issues = append(issues, fmt.Sprintf("duplicate case id: %s", c.ID))
		}
		seen[c.ID] = true
	}
	return issues
}

// Selection narrows a loaded case set for one batch run.
type Selection struct {
	// CaseID selects exactly one case by id. Zero matches is an error.
	CaseID string
	// Filter keeps cases whose id starts with the filter string or whose
	// domain equals it. Zero matches yields an empty run, not an error.
	Filter string
}

// Select applies a Selection to the loaded set. With a zero Selection all
// cases are returned unchanged.
func Select(set *models.CaseSet, sel Selection) ([]models.EvaluationCase, error) {
	selected := set.Cases

	if sel.CaseID != "" {
		var matched []models.EvaluationCase
		for _, c := range selected {
			if c.ID == sel.CaseID {
				matched = append(matched, c)
			}
		}
		if len(matched) == 0 {
			return nil, &models.NotFoundError{CaseID: sel.CaseID}
		}
		selected = matched
	}

	if sel.Filter != "" {
		var matched []models.EvaluationCase
		for _, c := range selected {
			if strings.HasPrefix(c.ID, sel.Filter) || c.Domain == sel.Filter {
				matched = append(matched, c)
			}
		}
		selected = matched
	}

	return selected, nil
}
