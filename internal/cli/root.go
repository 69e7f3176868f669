// Package cli provides the command-line interface for catload.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/catload/internal/cli/commands"
	"github.com/leapstack-labs/catload/internal/cli/config"
	"github.com/leapstack-labs/catload/internal/engine"
	"github.com/spf13/cobra"

	// Register the target adapters.
	_ "github.com/leapstack-labs/catload/pkg/adapters/mysql"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catload",
		Short: "catload - astronomical catalogue loader",
		Long: `catload reads the byte-by-byte description in a catalogue ReadMe,
creates a matching MySQL table and bulk-loads the fixed-width data file
into it, turning blank fields into NULL.

Without --update the generated SQL is only printed.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg)
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))

			if cfg.Verbose && !cfg.Hidden {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./catload.yaml)")
	pf.String("catalogue-dir", "", "Directory holding the ReadMe and data file")
	pf.String("readme", "", "Catalogue documentation file")
	pf.String("data", "", "Catalogue data file (also selects the ReadMe table)")
	pf.String("table", "", "Destination table")
	pf.Int("expected-fields", 0, "Number of fields the ReadMe table must describe")
	pf.String("unique", "", "Uniqueness clause appended to CREATE TABLE")
	pf.String("encoding", "", "ReadMe text encoding (utf-8, latin1, windows-1252)")
	pf.Int("record-length", 0, "Bytes per data record; fields ending beyond it are reported")
	pf.StringP("database", "D", "", "Database connection (database=...;server=...;uid=...;pwd=...;port=...)")
	pf.BoolP("update", "U", false, "Update database data (default is a dry run)")
	pf.BoolP("hidden", "H", false, "Prevent arguments and secrets being echoed to the terminal")
	pf.String("staging-dir", "", "Directory the data file is staged into")
	pf.String("state", "", "Path to the run history database")
	pf.Duration("heartbeat", 0, "Interval between progress reports during a load")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|json|yaml)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("encoding", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"utf-8", "latin1", "iso-8859-15", "windows-1252"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger builds the process logger. Verbose raises the default level
// to info.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	if cfg.Verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Execute runs the root command with ctx and reports failures on stderr.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(os.Stderr, err)
	}
	return err
}

// reportError prints err the way the loader always has: SQL failures show
// the statement, interruptions a short notice.
func reportError(w io.Writer, err error) {
	var sqlErr *engine.SQLError
	switch {
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(w, "Interrupted!")
	case errors.As(err, &sqlErr):
		_, _ = fmt.Fprintf(w, "Problem with SQL:\n%s\n", sqlErr.SQL)
		_, _ = fmt.Fprintf(w, "Error: %v\n", sqlErr.Err)
	default:
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for catload.

To load completions:

Bash:
  $ source <(catload completion bash)

Zsh:
  $ catload completion zsh > "${fpath[1]}/_catload"

Fish:
  $ catload completion fish | source

PowerShell:
  PS> catload completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
