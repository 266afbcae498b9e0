// Package config holds batch run settings, layered from defaults, an
// optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"rigor/internal/models"
)

// Batch configures one evaluation run.
type Batch struct {
	// CasesPath is the evaluation case set file.
	CasesPath string `yaml:"cases_path"`

	// Workers is the number of cases evaluated concurrently.
	Workers int `yaml:"workers"`

	// TimeoutSec bounds a single agent invocation.
	TimeoutSec int `yaml:"timeout_sec"`

	// Mode selects quick or judge scoring.
	Mode models.ScoringMode `yaml:"mode"`

	// Model is the judge model identifier.
	Model string `yaml:"model"`

	// AgentCommand overrides the research agent binary.
	AgentCommand string `yaml:"agent_command"`

	// OutputDir receives batch result JSON files.
	OutputDir string `yaml:"output_dir"`

	// MetricsPath, when set, receives per-case measurements as JSONL.
	MetricsPath string `yaml:"metrics_path"`

	// DryRun selects the quick scorer for the whole batch. The research
	// agent still runs; only the LLM judge is skipped.
	DryRun bool `yaml:"dry_run"`

	// Filter restricts the run to cases whose id has this prefix or
	// whose domain matches it exactly.
	Filter string `yaml:"filter"`

	// CaseID restricts the run to exactly one case.
	CaseID string `yaml:"case_id"`
}

// Default returns the baseline configuration.
func Default() Batch {
	return Batch{
		Workers:    2,
		TimeoutSec: 300,
		Mode:       models.ModeJudge,
		OutputDir:  "results",
	}
}

// ApplyFile overlays settings from a YAML file. A missing file is an error;
// pass "" to skip.
func (b *Batch) ApplyFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, b); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}

	return nil
}

// ApplyEnv overlays settings from the environment. Recognized variables:
// DRY_RUN, FILTER, CASE_ID, RIGOR_WORKERS, RIGOR_TIMEOUT.
func (b *Batch) ApplyEnv() error {
	if v := os.Getenv("DRY_RUN"); v != "" && v != "0" && v != "false" {
		b.DryRun = true
	}

	if v := os.Getenv("FILTER"); v != "" {
		b.Filter = v
	}

	if v := os.Getenv("CASE_ID"); v != "" {
		b.CaseID = v
	}

	if v := os.Getenv("RIGOR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RIGOR_WORKERS %q: %w", v, err)
		}
		b.Workers = n
	}

	if v := os.Getenv("RIGOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RIGOR_TIMEOUT %q: %w", v, err)
		}
		b.TimeoutSec = int(d.Seconds())
	}

	return nil
}

// Validate checks the assembled configuration.
func (b *Batch) Validate() error {
	if b.CasesPath == "" {
		return &models.ValidationError{Path: b.CasesPath, Issues: []string{"cases path is required"}}
	}

	if b.Workers < 1 {
		return &models.ValidationError{Path: b.CasesPath, Issues: []string{fmt.Sprintf("workers must be at least 1, got %d", b.Workers)}}
	}

	if b.TimeoutSec < 1 {
		return &models.ValidationError{Path: b.CasesPath, Issues: []string{fmt.Sprintf("timeout must be at least 1 second, got %d", b.TimeoutSec)}}
	}

	switch b.Mode {
	case models.ModeQuick, models.ModeJudge:
	default:
		return &models.ValidationError{Path: b.CasesPath, Issues: []string{fmt.Sprintf("unknown scoring mode %q", b.Mode)}}
	}

	return nil
}
