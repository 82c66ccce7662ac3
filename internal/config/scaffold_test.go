package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
)

func TestScaffoldProject(t *testing.T) {
	t.Run("creates all files in empty directory", func(t *testing.T) {
		dir := t.TempDir()

		created, err := ScaffoldProject(dir)
		if err != nil {
			t.Fatal(err)
		}

		expected := []string{
			filepath.Join(dir, FileName),
			filepath.Join(dir, ScriptFile),
			filepath.Join(dir, ".gitignore"),
		}
		if len(created) != len(expected) {
			t.Fatalf("created %d files, want %d: %v", len(created), len(expected), created)
		}
		for i, want := range expected {
			if created[i] != want {
				t.Errorf("created[%d] = %q, want %q", i, created[i], want)
			}
		}

		content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
		if err != nil {
			t.Fatalf(".gitignore: %v", err)
		}
		if !strings.Contains(string(content), ".flow/") {
			t.Error(".gitignore should contain .flow/")
		}
	})

	t.Run("sample script replays the stock demo", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := ScaffoldProject(dir); err != nil {
			t.Fatal(err)
		}

		actions, err := counter.LoadScript(filepath.Join(dir, ScriptFile))
		if err != nil {
			t.Fatalf("LoadScript: %v", err)
		}
		state := 0
		for _, a := range actions {
			state = counter.Reduce(state, a)
		}
		if state != 7 {
			t.Errorf("script ends at %d, want 7", state)
		}
	})

	t.Run("skips existing files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "existing")
		writeFile(t, filepath.Join(dir, ScriptFile), "actions: []\n")

		created, err := ScaffoldProject(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(created) != 1 || created[0] != filepath.Join(dir, ".gitignore") {
			t.Errorf("created = %v, want only .gitignore", created)
		}

		data, _ := os.ReadFile(filepath.Join(dir, FileName))
		if string(data) != "existing" {
			t.Error("existing flow.toml was overwritten")
		}
	})

	t.Run("appends to existing gitignore", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".gitignore"), "bin/")

		if _, err := ScaffoldProject(dir); err != nil {
			t.Fatal(err)
		}
		data, _ := os.ReadFile(filepath.Join(dir, ".gitignore"))
		if got := string(data); got != "bin/\n.flow/\n" {
			t.Errorf(".gitignore = %q, want %q", got, "bin/\n.flow/\n")
		}
	})

	t.Run("gitignore entry not duplicated", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".gitignore"), ".flow/\n")

		created, err := ScaffoldProject(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range created {
			if filepath.Base(p) == ".gitignore" {
				t.Error(".gitignore should not be modified when the entry exists")
			}
		}
	})
}
