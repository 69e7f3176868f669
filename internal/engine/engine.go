// Package engine drives a catalogue load: it reads the ReadMe, renders the
// load plan, stages the data file and executes the plan against the target
// while recording the run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/leapstack-labs/catload/internal/state"
	"github.com/leapstack-labs/catload/pkg/adapter"
)

// HeartbeatFunc is called periodically while statements execute.
type HeartbeatFunc func(table string, elapsed time.Duration)

// Engine orchestrates planning, staging and execution of catalogue loads.
type Engine struct {
	// Database adapter (lazy initialized)
	db          adapter.Adapter
	dbConfig    *adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	logger *slog.Logger

	store       state.Store
	ownsStore   bool
	stagingDir  string
	heartbeat   time.Duration
	onHeartbeat HeartbeatFunc
	echo        io.Writer
	targetName  string
}

// Config holds engine configuration.
type Config struct {
	// AdapterConfig is the target connection. Nil is fine for plan-only use.
	AdapterConfig *adapter.Config
	// Adapter overrides adapter creation from AdapterConfig.
	Adapter adapter.Adapter
	// TargetName is a secret-free description of the target stored with runs.
	TargetName string

	// StatePath is the path to the SQLite run history. Empty disables history
	// unless Store is set.
	StatePath string
	// Store overrides opening a store at StatePath.
	Store state.Store

	// StagingDir receives the staged data file (default: os.TempDir()).
	StagingDir string
	// Heartbeat is the interval between progress reports; zero disables them.
	Heartbeat time.Duration
	// OnHeartbeat receives progress reports in addition to the logger.
	OnHeartbeat HeartbeatFunc

	// Echo receives every recognized column line while parsing.
	Echo io.Writer
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. The database is only connected by Execute.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	stagingDir := cfg.StagingDir
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}

	e := &Engine{
		db:          cfg.Adapter,
		dbConfig:    cfg.AdapterConfig,
		logger:      logger,
		store:       cfg.Store,
		stagingDir:  stagingDir,
		heartbeat:   cfg.Heartbeat,
		onHeartbeat: cfg.OnHeartbeat,
		echo:        cfg.Echo,
		targetName:  cfg.TargetName,
	}

	if e.store == nil && cfg.StatePath != "" {
		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := store.InitSchema(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to initialize state schema: %w", err)
		}
		e.store = store
		e.ownsStore = true
	}

	logger.Debug("initialized engine", "staging_dir", stagingDir, "history", e.store != nil)
	return e, nil
}

// ensureDBConnected lazily connects to the database.
func (e *Engine) ensureDBConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	if e.db == nil {
		if e.dbConfig == nil {
			return fmt.Errorf("no database target configured")
		}
		db, err := adapter.NewAdapter(*e.dbConfig, e.logger)
		if err != nil {
			return fmt.Errorf("failed to create database adapter: %w", err)
		}
		e.db = db
	}

	var cfg adapter.Config
	if e.dbConfig != nil {
		cfg = *e.dbConfig
	}
	e.logger.Debug("connecting to database", "adapter_type", cfg.Type, "target", e.targetName)
	if err := e.db.Connect(ctx, cfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	e.dbConnected = true
	return nil
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	var errs []error
	if e.db != nil && e.dbConnected {
		if err := e.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.store != nil && e.ownsStore {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing engine: %w", errors.Join(errs...))
	}
	return nil
}

// GetStateStore returns the run history store, or nil when disabled.
func (e *Engine) GetStateStore() state.Store {
	return e.store
}

// StagingDir returns the directory data files are staged into.
func (e *Engine) StagingDir() string {
	return e.stagingDir
}
