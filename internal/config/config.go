// Package config parses flow.toml configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file searched for by Load.
const FileName = "flow.toml"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level flow.toml configuration.
type Config struct {
	Project       ProjectConfig       `toml:"project"`
	Counter       CounterConfig       `toml:"counter"`
	Interval      IntervalConfig      `toml:"interval"`
	News          NewsConfig          `toml:"news"`
	TUI           TUIConfig           `toml:"tui"`
	Notifications NotificationsConfig `toml:"notifications"`

	// Path is the file the configuration was read from; empty when no file
	// was found and defaults are in use.
	Path string `toml:"-"`
}

// ProjectConfig identifies the project in notifications and the TUI header.
type ProjectConfig struct {
	Name string `toml:"name"`
}

// CounterConfig controls the counter store and its journal.
type CounterConfig struct {
	Initial          int    `toml:"initial"`
	Step             int    `toml:"step"`
	Journal          bool   `toml:"journal"`
	JournalDir       string `toml:"journal_dir"`
	JournalRetention int    `toml:"journal_retention"` // number of sessions to keep; 0 = unlimited
}

// IntervalConfig controls the interval demo.
type IntervalConfig struct {
	PeriodMS   int `toml:"period_ms"`
	DurationMS int `toml:"duration_ms"` // 0 = run until interrupted
}

// NewsConfig controls the Hacker News service.
type NewsConfig struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CreateDelayMS  int    `toml:"create_delay_ms"`
	MaxID          int    `toml:"max_id"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL        string `toml:"url"`
	OnDispatch bool   `toml:"on_dispatch"`
	OnError    bool   `toml:"on_error"`
}

// Period returns the tick interval.
func (c IntervalConfig) Period() time.Duration {
	return time.Duration(c.PeriodMS) * time.Millisecond
}

// Duration returns how long the interval demo runs; zero means no limit.
func (c IntervalConfig) Duration() time.Duration {
	return time.Duration(c.DurationMS) * time.Millisecond
}

// Timeout returns the request timeout.
func (c NewsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CreateDelay returns the simulated create latency.
func (c NewsConfig) CreateDelay() time.Duration {
	return time.Duration(c.CreateDelayMS) * time.Millisecond
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Counter.Step <= 0 {
		errs = append(errs, fmt.Errorf("counter.step must be > 0"))
	}
	if c.Counter.Journal && c.Counter.JournalDir == "" {
		errs = append(errs, fmt.Errorf("counter.journal_dir must be set when counter.journal is true"))
	}
	if c.Counter.JournalRetention < 0 {
		errs = append(errs, fmt.Errorf("counter.journal_retention must be >= 0 (0 = unlimited)"))
	}

	if c.Interval.PeriodMS <= 0 {
		errs = append(errs, fmt.Errorf("interval.period_ms must be > 0"))
	}
	if c.Interval.DurationMS < 0 {
		errs = append(errs, fmt.Errorf("interval.duration_ms must be >= 0 (0 = until interrupted)"))
	}

	if u, err := url.ParseRequestURI(c.News.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("news.endpoint must be a valid http or https URL"))
	}
	if c.News.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("news.timeout_seconds must be > 0"))
	}
	if c.News.CreateDelayMS < 0 {
		errs = append(errs, fmt.Errorf("news.create_delay_ms must be >= 0"))
	}
	if c.News.MaxID <= 0 {
		errs = append(errs, fmt.Errorf("news.max_id must be > 0"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config that reproduces the stock demos.
func Defaults() Config {
	return Config{
		Counter: CounterConfig{
			Initial:          0,
			Step:             1,
			JournalDir:       filepath.Join(".flow", "journal"),
			JournalRetention: 20,
		},
		Interval: IntervalConfig{
			PeriodMS:   1000,
			DurationMS: 0,
		},
		News: NewsConfig{
			Endpoint:       "https://hacker-news.firebaseio.com/v0/topstories.json",
			TimeoutSeconds: 10,
			CreateDelayMS:  1000,
			MaxID:          100000,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
		Notifications: NotificationsConfig{
			OnDispatch: false,
			OnError:    true,
		},
	}
}

// Load reads flow.toml from the given path. If path is empty, it walks up
// from the current working directory looking for flow.toml and falls back to
// Defaults when none is found. An explicit path must exist. Returns an error
// if the file contains unknown keys (likely typos).
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		if found == "" {
			cfg := Defaults()
			if wd, err := os.Getwd(); err == nil {
				cfg.Project.Name = DetectProjectName(wd)
			}
			return &cfg, nil
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	if cfg.Project.Name == "" {
		cfg.Project.Name = DetectProjectName(filepath.Dir(path))
	}
	return &cfg, nil
}

// findConfig walks up from the current directory looking for flow.toml. It
// returns "" without error when the filesystem root is reached.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// InitFile writes a default flow.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	if err := os.WriteFile(path, []byte(template), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

const template = `# flow.toml: unidirectional data flow demo configuration

[project]
name = ""  # empty = detect from go.mod, package.json or the directory name

[counter]
initial = 0
step = 1                      # payload used by the dashboard +/- keys
journal = false               # record every dispatched action
journal_dir = ".flow/journal"
journal_retention = 20        # number of journal sessions to keep; 0 = unlimited

[interval]
period_ms = 1000
duration_ms = 0  # 0 = run until interrupted

[news]
endpoint = "https://hacker-news.firebaseio.com/v0/topstories.json"
timeout_seconds = 10
create_delay_ms = 1000
max_id = 100000

[tui]
accent_color = "#7D56F4"  # hex color for header/accent elements

[notifications]
url = ""            # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_dispatch = false # notify on every dispatched action
on_error = true     # notify when a source reports an error
`
