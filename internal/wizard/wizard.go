// Package wizard collects new evaluation cases interactively.
package wizard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"rigor/internal/cases"
	"rigor/internal/models"
)

var caseIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateCaseID checks the kebab-case id convention.
func ValidateCaseID(id string) error {
	if id == "" {
		return fmt.Errorf("case id is required")
	}
	if !caseIDPattern.MatchString(id) {
		return fmt.Errorf("case id must be kebab-case (lowercase letters, digits, hyphens)")
	}
	return nil
}

// RunCaseWizard runs an interactive huh form to collect a new evaluation
// case. If initialID is non-empty, it pre-populates the id field.
func RunCaseWizard(in io.Reader, out io.Writer, initialID string) (*models.EvaluationCase, error) {
	var (
		id              = initialID
		domain          string
		difficulty      string
		hypothesis      string
		caseContext     string
		mustRaw         string
		shouldRaw       string
		keywordsRaw     string
		knownAnswerText string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Case id").
				Description("A kebab-case identifier for this case").
				Placeholder("cache-invalidation-races").
				Value(&id).
				Validate(func(s string) error {
					return ValidateCaseID(strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("Domain").
				Description("Subject area the case belongs to").
				Placeholder("storage").
				Value(&domain).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("domain is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Difficulty").
				Options(
					huh.NewOption("easy", "easy"),
					huh.NewOption("medium", "medium"),
					huh.NewOption("hard", "hard"),
				).
				Value(&difficulty),
			huh.NewText().
				Title("Hypothesis").
				Description("The claim the agent must research").
				Value(&hypothesis).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("hypothesis is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Context").
				Description("Background handed to the agent alongside the hypothesis").
				Value(&caseContext),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Must discover").
				Description("One critical finding per line").
				Value(&mustRaw).
				Validate(func(s string) error {
					if len(splitLines(s)) == 0 {
						return fmt.Errorf("at least one must-discover finding is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Should discover").
				Description("One nice-to-have finding per line").
				Value(&shouldRaw),
			huh.NewInput().
				Title("Keywords").
				Description("Comma-separated terms a thorough document mentions").
				Placeholder("invalidation, ttl, write-through").
				Value(&keywordsRaw).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) == 0 {
						return fmt.Errorf("at least one keyword is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Known answer summary").
				Description("Reference answer the judge compares against").
				Value(&knownAnswerText).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("known answer summary is required")
					}
					return nil
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &models.EvaluationCase{
		ID:         strings.TrimSpace(id),
		Domain:     strings.TrimSpace(domain),
		Difficulty: models.Difficulty(difficulty),
		Hypothesis: strings.TrimSpace(hypothesis),
		Context:    strings.TrimSpace(caseContext),
		ExpectedFindings: models.ExpectedFindings{
			MustDiscover:   splitLines(mustRaw),
			ShouldDiscover: splitLines(shouldRaw),
			Keywords:       splitAndTrim(keywordsRaw),
		},
		KnownAnswerSummary: strings.TrimSpace(knownAnswerText),
	}, nil
}

// AppendCase adds a case to an existing case set file, updating the meta
// counts, and writes the result back.
func AppendCase(path string, c *models.EvaluationCase) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading case set: %w", err)
	}

	set, err := cases.Load(data)
	if err != nil {
		return err
	}

	for _, existing := range set.Cases {
		if existing.ID == c.ID {
			return &models.ValidationError{
				Path:   path,
				Issues: []string{fmt.Sprintf("case id %q already exists", c.ID)},
			}
		}
	}

	set.Cases = append(set.Cases, *c)
	set.Meta.TotalCases = len(set.Cases)
	set.Meta.Domains = collectDomains(set.Cases)

	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding case set: %w", err)
	}
	out = append(out, '\n')

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing case set: %w", err)
	}

	return nil
}

func collectDomains(cs []models.EvaluationCase) []string {
	seen := make(map[string]bool)
	var domains []string
	for _, c := range cs {
		if !seen[c.Domain] {
			seen[c.Domain] = true
			domains = append(domains, c.Domain)
		}
	}
	return domains
}

func splitLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
