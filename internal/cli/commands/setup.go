package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/catload/internal/cli/config"
	"github.com/leapstack-labs/catload/internal/cli/output"
	"github.com/leapstack-labs/catload/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// EngineOptions selects what the engine is wired with.
type EngineOptions struct {
	// Target connects the engine to the configured database.
	Target bool
	// History opens the run history store.
	History bool
	// Echo receives recognized column lines while parsing.
	Echo bool
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, opts EngineOptions) (*CommandContext, func(), error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	eng, err := createEngine(cmd, cfg, logger, opts)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// getConfig returns the configuration loaded by the root command, loading
// it from the command's flags when the command runs on its own (tests).
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Root().PersistentFlags())
}

func createEngine(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts EngineOptions) (*engine.Engine, error) {
	engCfg := engine.Config{
		StagingDir: cfg.StagingDir,
		Heartbeat:  cfg.Heartbeat,
		Logger:     logger,
	}

	if opts.Echo {
		engCfg.Echo = cmd.OutOrStdout()
	}

	if opts.History {
		if err := ensureStateDir(cfg.StatePath); err != nil {
			return nil, err
		}
		engCfg.StatePath = cfg.StatePath
	}

	if opts.Target && cfg.Target != nil {
		prompt := config.TerminalPrompt(os.Stdin, cmd.ErrOrStderr())
		if err := config.ResolvePassword(cfg.Target, os.Getenv, prompt); err != nil {
			return nil, err
		}
		ac := cfg.Target.AdapterConfig()
		engCfg.AdapterConfig = &ac
		engCfg.TargetName = cfg.Target.Redacted()
		engCfg.OnHeartbeat = func(table string, elapsed time.Duration) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Loading %s... %s elapsed\n", table, elapsed)
		}
	}

	return engine.New(engCfg)
}

func ensureStateDir(statePath string) error {
	stateDir := filepath.Dir(statePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return nil
}

// targetDescription is printed before connecting; --hidden suppresses it.
func targetDescription(cfg *config.Config) string {
	if cfg.Hidden {
		return "hidden"
	}
	return cfg.Target.Redacted()
}

// parameterSummary mirrors the run parameters for the audit trail printed
// at the top of every load.
func parameterSummary(cfg *config.Config) string {
	if cfg.Hidden {
		return "hidden"
	}
	cat := cfg.Catalogue
	return fmt.Sprintf("catalogue=%s table=%s readme=%s data=%s expected_fields=%d update=%t target=%s",
		cat.Name, cat.Table, cat.ReadMePath(), cat.DataPath(), cat.ExpectedFields, cfg.Update, cfg.Target.Redacted())
}
