package poolctl

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tensorpool/internal/planner"
	"tensorpool/internal/runner"
)

// Config carries the persistent flags shared by every subcommand.
type Config struct {
	Planner       string
	MaxArenaBytes int
	Output        string
	LogLvl        string

	// Logger is rebuilt from LogLvl before each command runs.
	Logger zerolog.Logger
}

func defaultConfig() *Config {
	return &Config{
		Planner:       envStr("POOLCTL_PLANNER", planner.Default),
		MaxArenaBytes: envInt("POOLCTL_MAX_ARENA_BYTES", runner.DefaultMaxArenaBytes),
		Output:        envStr("POOLCTL_OUTPUT", outputJSON),
		LogLvl:        envStr("POOLCTL_LOG_LEVEL", "warn"),
		Logger:        zerolog.Nop(),
	}
}

// buildRootCmdWith constructs the command tree. Reports go to out, logs to
// errOut.
func buildRootCmdWith(cfg *Config, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "poolctl",
		Short:         "Plan tensor memory layouts from graph manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	// Persistent flags -> Config
	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Planner, "planner", cfg.Planner, "Default planner when the manifest names none (defaults POOLCTL_PLANNER)")
	pf.IntVar(&cfg.MaxArenaBytes, "max-arena-bytes", cfg.MaxArenaBytes, "Refuse arenas larger than this many bytes, negative=unlimited (defaults POOLCTL_MAX_ARENA_BYTES or 1GiB)")
	pf.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: json|yaml|table")
	pf.StringVar(&cfg.LogLvl, "log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults POOLCTL_LOG_LEVEL or warn)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch cfg.Output {
		case outputJSON, outputYAML, outputTable:
		default:
			return fmt.Errorf("unknown output format %q: want json|yaml|table", cfg.Output)
		}
		cfg.Logger = NewLogger(errOut, cfg.LogLvl)
		return nil
	}

	planCmd := &cobra.Command{
		Use:     "plan <manifest>",
		Short:   "Plan one manifest and print where every tensor lands",
		Example: "  poolctl plan graph.yaml\n  poolctl plan gs://bucket/graphs/mnist.json -o table",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnPlan(cmd.Context(), cfg, args[0], out)
		},
	}
	compareCmd := &cobra.Command{
		Use:     "compare <manifest>",
		Short:   "Plan one manifest with every planner",
		Example: "  poolctl compare graph.toml -o table",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnCompare(cmd.Context(), cfg, args[0], out)
		},
	}
	plannersCmd := &cobra.Command{
		Use:   "planners",
		Short: "List the available planners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnPlanners(cfg, out)
		},
	}
	root.AddCommand(planCmd, compareCmd, plannersCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(out) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(out) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(out, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(out) }})
	root.AddCommand(completionCmd)

	return root
}
