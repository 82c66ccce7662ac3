package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"counter.initial", cfg.Counter.Initial, 0},
		{"counter.step", cfg.Counter.Step, 1},
		{"counter.journal", cfg.Counter.Journal, false},
		{"counter.journal_dir", cfg.Counter.JournalDir, filepath.Join(".flow", "journal")},
		{"counter.journal_retention", cfg.Counter.JournalRetention, 20},
		{"interval.period_ms", cfg.Interval.PeriodMS, 1000},
		{"interval.duration_ms", cfg.Interval.DurationMS, 0},
		{"news.endpoint", cfg.News.Endpoint, "https://hacker-news.firebaseio.com/v0/topstories.json"},
		{"news.timeout_seconds", cfg.News.TimeoutSeconds, 10},
		{"news.create_delay_ms", cfg.News.CreateDelayMS, 1000},
		{"news.max_id", cfg.News.MaxID, 100000},
		{"tui.accent_color", cfg.TUI.AccentColor, DefaultAccentColor},
		{"notifications.on_dispatch", cfg.Notifications.OnDispatch, false},
		{"notifications.on_error", cfg.Notifications.OnError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDurations(t *testing.T) {
	cfg := Defaults()
	cfg.Interval.PeriodMS = 250
	cfg.Interval.DurationMS = 3000
	cfg.News.TimeoutSeconds = 5
	cfg.News.CreateDelayMS = 40

	if got := cfg.Interval.Period(); got != 250*time.Millisecond {
		t.Errorf("Period = %v", got)
	}
	if got := cfg.Interval.Duration(); got != 3*time.Second {
		t.Errorf("Duration = %v", got)
	}
	if got := cfg.News.Timeout(); got != 5*time.Second {
		t.Errorf("Timeout = %v", got)
	}
	if got := cfg.News.CreateDelay(); got != 40*time.Millisecond {
		t.Errorf("CreateDelay = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero step", func(c *Config) { c.Counter.Step = 0 }, "counter.step"},
		{"journal without dir", func(c *Config) { c.Counter.Journal = true; c.Counter.JournalDir = "" }, "counter.journal_dir"},
		{"negative retention", func(c *Config) { c.Counter.JournalRetention = -1 }, "counter.journal_retention"},
		{"zero period", func(c *Config) { c.Interval.PeriodMS = 0 }, "interval.period_ms"},
		{"negative duration", func(c *Config) { c.Interval.DurationMS = -5 }, "interval.duration_ms"},
		{"bad endpoint", func(c *Config) { c.News.Endpoint = "ftp://example.com" }, "news.endpoint"},
		{"empty endpoint", func(c *Config) { c.News.Endpoint = "" }, "news.endpoint"},
		{"zero timeout", func(c *Config) { c.News.TimeoutSeconds = 0 }, "news.timeout_seconds"},
		{"negative delay", func(c *Config) { c.News.CreateDelayMS = -1 }, "news.create_delay_ms"},
		{"zero max id", func(c *Config) { c.News.MaxID = 0 }, "news.max_id"},
		{"bad accent", func(c *Config) { c.TUI.AccentColor = "indigo" }, "tui.accent_color"},
		{"bad webhook", func(c *Config) { c.Notifications.URL = "not a url" }, "notifications.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("all problems reported", func(t *testing.T) {
		cfg := Defaults()
		cfg.Counter.Step = 0
		cfg.News.MaxID = 0
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"counter.step", "news.max_id"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("joined error %q missing %q", err, want)
			}
		}
	})

	t.Run("empty accent allowed", func(t *testing.T) {
		cfg := Defaults()
		cfg.TUI.AccentColor = ""
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		dir := t.TempDir()
		content := `
[project]
name = "TestProject"

[counter]
initial = 5
step = 2
journal = true
journal_dir = "runs"
journal_retention = 3

[interval]
period_ms = 100
duration_ms = 350

[news]
endpoint = "http://localhost:8080/top.json"
timeout_seconds = 3
create_delay_ms = 10
max_id = 50

[tui]
accent_color = "#FF0000"

[notifications]
url = "https://ntfy.sh/flow"
on_dispatch = true
on_error = false
`
		path := filepath.Join(dir, FileName)
		writeFile(t, path, content)

		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}

		tests := []struct {
			name string
			got  any
			want any
		}{
			{"project.name", cfg.Project.Name, "TestProject"},
			{"counter.initial", cfg.Counter.Initial, 5},
			{"counter.step", cfg.Counter.Step, 2},
			{"counter.journal", cfg.Counter.Journal, true},
			{"counter.journal_dir", cfg.Counter.JournalDir, "runs"},
			{"counter.journal_retention", cfg.Counter.JournalRetention, 3},
			{"interval.period_ms", cfg.Interval.PeriodMS, 100},
			{"interval.duration_ms", cfg.Interval.DurationMS, 350},
			{"news.endpoint", cfg.News.Endpoint, "http://localhost:8080/top.json"},
			{"news.timeout_seconds", cfg.News.TimeoutSeconds, 3},
			{"news.create_delay_ms", cfg.News.CreateDelayMS, 10},
			{"news.max_id", cfg.News.MaxID, 50},
			{"tui.accent_color", cfg.TUI.AccentColor, "#FF0000"},
			{"notifications.url", cfg.Notifications.URL, "https://ntfy.sh/flow"},
			{"notifications.on_dispatch", cfg.Notifications.OnDispatch, true},
			{"notifications.on_error", cfg.Notifications.OnError, false},
			{"path", cfg.Path, path},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.got != tt.want {
					t.Errorf("got %v, want %v", tt.got, tt.want)
				}
			})
		}
	})

	t.Run("partial config uses defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		writeFile(t, path, "[counter]\ninitial = 42\n")

		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}

		if cfg.Counter.Initial != 42 {
			t.Errorf("counter.initial: got %d, want 42", cfg.Counter.Initial)
		}
		if cfg.Counter.Step != 1 {
			t.Errorf("counter.step: got %d, want 1 (default)", cfg.Counter.Step)
		}
		if cfg.Interval.PeriodMS != 1000 {
			t.Errorf("interval.period_ms: got %d, want 1000 (default)", cfg.Interval.PeriodMS)
		}
	})

	t.Run("unknown keys rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		writeFile(t, path, "[counter]\nintial = 1\n")

		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for unknown key")
		}
		if !strings.Contains(err.Error(), "counter.intial") {
			t.Errorf("error %q should name the unknown key", err)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		_, err := Load("/nonexistent/flow.toml")
		if err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid toml returns error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		writeFile(t, path, "not valid [[[ toml")

		_, err := Load(path)
		if err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAutoDiscovery(t *testing.T) {
	t.Run("finds flow.toml in parent directory", func(t *testing.T) {
		root := t.TempDir()
		child := filepath.Join(root, "sub", "dir")
		if err := os.MkdirAll(child, 0755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, filepath.Join(root, FileName), "[project]\nname = \"FoundIt\"\n")
		chdir(t, child)

		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Project.Name != "FoundIt" {
			t.Errorf("project.name: got %q, want %q", cfg.Project.Name, "FoundIt")
		}
		if filepath.Base(cfg.Path) != FileName {
			t.Errorf("Path = %q, want a flow.toml", cfg.Path)
		}
	})

	t.Run("falls back to defaults when flow.toml not found", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("expected defaults, got error: %v", err)
		}
		if cfg.Path != "" {
			t.Errorf("Path = %q, want empty", cfg.Path)
		}
		if cfg.Counter.Step != Defaults().Counter.Step {
			t.Errorf("counter.step = %d, want default", cfg.Counter.Step)
		}
		if cfg.Project.Name == "" {
			t.Error("project name should be detected from the working directory")
		}
	})
}

func TestInitFile(t *testing.T) {
	t.Run("creates flow.toml", func(t *testing.T) {
		dir := t.TempDir()
		path, err := InitFile(dir)
		if err != nil {
			t.Fatal(err)
		}

		if filepath.Base(path) != FileName {
			t.Errorf("expected %s, got %s", FileName, filepath.Base(path))
		}

		// The template must decode without unknown keys and validate.
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("generated file is not valid: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("generated file does not validate: %v", err)
		}
		if cfg.News.Endpoint != Defaults().News.Endpoint {
			t.Errorf("news.endpoint: got %q, want default", cfg.News.Endpoint)
		}
	})

	t.Run("refuses to overwrite existing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "existing")

		_, err := InitFile(dir)
		if err == nil {
			t.Error("expected error when flow.toml already exists")
		}
	})
}
