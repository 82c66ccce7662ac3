package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Flow/internal/config"
	"github.com/LISSConsulting/LISSTech.Flow/internal/counter"
	"github.com/LISSConsulting/LISSTech.Flow/internal/journal"
)

func counterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counter [type:payload...]",
		Short: "Dispatch actions to the counter store, printing state after each",
		Example: `  flow counter
  flow counter increment:10 decrement:3
  flow counter --actions actions.yaml --journal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			script, _ := cmd.Flags().GetString("actions")
			actions, err := resolveActions(args, script)
			if err != nil {
				return err
			}

			run := counterRun{
				Initial: cfg.Counter.Initial,
				Actions: actions,
				Journal: cfg.Counter.Journal,
			}
			if cmd.Flags().Changed("initial") {
				run.Initial, _ = cmd.Flags().GetInt("initial")
			}
			if cmd.Flags().Changed("journal") {
				run.Journal, _ = cmd.Flags().GetBool("journal")
			}
			return executeCounter(cmd.OutOrStdout(), cfg, run)
		},
	}
	cmd.Flags().String("actions", "", "YAML file with an \"actions\" list")
	cmd.Flags().Bool("journal", false, "record dispatched actions (default from counter.journal)")
	cmd.Flags().Int("initial", 0, "initial counter state (default from counter.initial)")
	return cmd
}

func intervalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Subscribe to an interval source and print its ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			every := cfg.Interval.Period()
			if cmd.Flags().Changed("every") {
				every, _ = cmd.Flags().GetDuration("every")
			}
			limit := cfg.Interval.Duration()
			if cmd.Flags().Changed("for") {
				limit, _ = cmd.Flags().GetDuration("for")
			}
			if every <= 0 {
				return fmt.Errorf("--every must be > 0")
			}

			ctx, cancel := signalContext()
			defer cancel()
			return executeInterval(ctx, cmd.OutOrStdout(), every, limit)
		},
	}
	cmd.Flags().Duration("every", time.Second, "tick period (default from interval.period_ms)")
	cmd.Flags().Duration("for", 0, "cancel the subscription after this long; 0 runs until interrupted")
	return cmd
}

func newsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Fetch Hacker News top story ids and optionally create items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			create, _ := cmd.Flags().GetInt("create")
			if create < 0 {
				return fmt.Errorf("--create must be >= 0")
			}
			noTUI, _ := cmd.Flags().GetBool("no-tui")

			ctx, cancel := signalContext()
			defer cancel()
			if noTUI {
				return executeNews(ctx, cmd.OutOrStdout(), cfg, create)
			}
			return runDashboard(ctx, cfg, dashboardRun{Focus: "news", Create: create})
		},
	}
	cmd.Flags().Int("create", 0, "number of items to create after loading")
	cmd.Flags().Bool("no-tui", false, "print events instead of opening the dashboard")
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard for both demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return runDashboard(ctx, cfg, dashboardRun{})
		},
	}
}

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded counter sessions",
	}
	cmd.AddCommand(journalShowCmd(), journalTailCmd())
	return cmd
}

func journalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print a session's records and its replayed state (default: latest session)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := sessionPath(cfg, args)
			if err != nil {
				return err
			}
			return showJournal(cmd.OutOrStdout(), path, cfg.Counter.Initial)
		},
	}
}

func journalTailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tail [file]",
		Short: "Follow a session file as records are appended (default: latest session)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := sessionPath(cfg, args)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return tailJournal(ctx, cmd.OutOrStdout(), path)
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold flow.toml, an example action script and .gitignore entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			created, err := config.ScaffoldProject(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "All files already exist, nothing to create.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}
}

// defaultScript is dispatched when no actions are given.
var defaultScript = []counter.Action{{Type: counter.Increment, Payload: 10}}

// resolveActions picks the actions to dispatch: a script file, command-line
// tokens, or the default script. Giving both a file and tokens is an error.
func resolveActions(args []string, script string) ([]counter.Action, error) {
	switch {
	case script != "" && len(args) > 0:
		return nil, fmt.Errorf("use either --actions or action arguments, not both")
	case script != "":
		return counter.LoadScript(script)
	case len(args) > 0:
		return counter.ParseActions(args)
	default:
		return defaultScript, nil
	}
}

// sessionPath returns the explicit session file, or the latest session in the
// configured journal directory.
func sessionPath(cfg *config.Config, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	path, err := journal.Latest(cfg.Counter.JournalDir)
	if err != nil {
		return "", fmt.Errorf("%w (run 'flow counter --journal' first)", err)
	}
	return path, nil
}
