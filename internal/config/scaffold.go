package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScriptFile is the sample action script written by ScaffoldProject.
const ScriptFile = "actions.yaml"

// journalIgnore is the .gitignore entry for the default journal directory.
const journalIgnore = ".flow/"

// ScaffoldProject creates flow.toml, a sample action script and a .gitignore
// entry for the journal directory in dir. Files that already exist are left
// untouched. Returns the list of created or modified paths.
func ScaffoldProject(dir string) ([]string, error) {
	var touched []string

	tomlPath := filepath.Join(dir, FileName)
	if !exists(tomlPath) {
		if _, err := InitFile(dir); err != nil {
			return touched, err
		}
		touched = append(touched, tomlPath)
	}

	scriptPath := filepath.Join(dir, ScriptFile)
	if !exists(scriptPath) {
		if err := os.WriteFile(scriptPath, []byte(scriptTemplate), 0o644); err != nil {
			return touched, fmt.Errorf("scaffold: write %s: %w", scriptPath, err)
		}
		touched = append(touched, scriptPath)
	}

	ignorePath := filepath.Join(dir, ".gitignore")
	changed, err := ensureLine(ignorePath, journalIgnore)
	if err != nil {
		return touched, fmt.Errorf("scaffold: %w", err)
	}
	if changed {
		touched = append(touched, ignorePath)
	}
	return touched, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// ensureLine appends line to the file at path unless a line with the same
// trimmed text is already present. The file is created when missing.
func ensureLine(path, line string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) == line {
			return false, nil
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	prefix := ""
	if len(data) > 0 && data[len(data)-1] != '\n' {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		f.Close()
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, f.Close()
}

// scriptTemplate replays the stock counter demo. Run it with
// "flow counter --actions actions.yaml".
const scriptTemplate = `# Actions dispatched in order by "flow counter --actions actions.yaml".
actions:
  - type: "[Counter] Increment"
    payload: 10
  - type: "[Counter] Decrement"
    payload: 3
`
