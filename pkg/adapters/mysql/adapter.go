// Package mysql provides a MySQL/MariaDB database adapter for catload.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/catload/pkg/adapter"
	"github.com/leapstack-labs/catload/pkg/loadsql"
)

// DefaultPort is used when the config leaves Port unset.
const DefaultPort = 3306

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	mcfg, err := buildMySQLConfig(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to mysql", slog.String("addr", mcfg.Addr), slog.String("database", mcfg.DBName))

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return fmt.Errorf("failed to create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildMySQLConfig maps the adapter config onto the driver config.
// Recognised options: socket, tls, charset, timeout.
func buildMySQLConfig(cfg adapter.Config) (*mysql.Config, error) {
	mcfg := mysql.NewConfig()
	mcfg.User = cfg.Username
	mcfg.Passwd = cfg.Password
	mcfg.DBName = cfg.Database
	mcfg.ParseTime = true
	mcfg.AllowNativePasswords = true

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	if socket := cfg.Options["socket"]; socket != "" {
		mcfg.Net = "unix"
		mcfg.Addr = socket
	} else {
		mcfg.Net = "tcp"
		mcfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	}

	if tls := cfg.Options["tls"]; tls != "" {
		mcfg.TLSConfig = tls
	}

	charset := cfg.Options["charset"]
	if charset == "" {
		charset = "utf8mb4"
	}
	mcfg.Params = map[string]string{"charset": charset}

	if timeout := cfg.Options["timeout"]; timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql timeout %q: %w", timeout, err)
		}
		mcfg.Timeout = d
	}

	return mcfg, nil
}

// GetTableMetadata retrieves metadata for a table in the connected schema.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return a.GetTableMetadataCommon(ctx, table, a.Cfg.Database, loadsql.QuoteIdent)
}

// AllowLocalFile registers path with the driver so LOAD DATA LOCAL INFILE
// may read it. The server must also have local_infile enabled.
func (a *Adapter) AllowLocalFile(path string) func() {
	mysql.RegisterLocalFile(path)
	a.Logger.Debug("registered local infile", slog.String("path", path))
	return func() {
		mysql.DeregisterLocalFile(path)
	}
}
