package execution

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// researchDir is where the agent is instructed to write its findings,
// relative to the workspace root.
const researchDir = "thoughts/shared/research"

// commandMarker is the slash-command definition the agent expects to find;
// its presence makes the workspace look like a real research checkout.
const commandMarker = ".claude/commands/research_experiment.md"

const commandMarkerContent = `# Research Experiment

Research the given hypothesis thoroughly. Investigate the codebase, gather
evidence, and write your findings as a markdown document under
thoughts/shared/research/.
`

// setupWorkspace creates an isolated scratch directory with the layout the
// research agent expects. The caller owns cleanup.
func setupWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "research-eval-*")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, researchDir), 0755); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to create research directory: %w", err)
	}

	markerPath := filepath.Join(dir, commandMarker)

	if err := os.MkdirAll(filepath.Dir(markerPath), 0755); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to create command directory: %w", err)
	}

	if err := os.WriteFile(markerPath, []byte(commandMarkerContent), 0644); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to write command marker: %w", err)
	}

	return dir, nil
}

// newestResearchDoc returns the content and path of the most recently
// modified .md file under the workspace's research directory. Both are
// empty when the agent produced nothing.
func newestResearchDoc(workspaceDir string) (content string, path string, err error) {
	dir := filepath.Join(workspaceDir, researchDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("reading research directory: %w", err)
	}

	var newestPath string
	var newestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if newestPath == "" || info.ModTime().After(newestTime) {
			newestPath = filepath.Join(dir, entry.Name())
			newestTime = info.ModTime()
		}
	}

	if newestPath == "" {
		return "", "", nil
	}

	data, err := os.ReadFile(newestPath)
	if err != nil {
		return "", "", fmt.Errorf("reading research document %q: %w", newestPath, err)
	}

	return string(data), newestPath, nil
}
