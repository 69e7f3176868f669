package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	intconfig "github.com/leapstack-labs/catload/internal/config"
	"golang.org/x/term"
)

// ErrNoPassword is returned when no password is configured and none can be
// prompted for.
var ErrNoPassword = errors.New("no database password available")

// PasswordPrompt asks the user for a password.
type PasswordPrompt func(prompt string) (string, error)

// ResolvePassword fills t.Password when it is empty.
// Order: connection string or config file, then $MYSQLPASSWORD, then prompt.
// A nil prompt means no interactive input is available.
func ResolvePassword(t *TargetConfig, getenv func(string) string, prompt PasswordPrompt) error {
	if t.Password != "" {
		return nil
	}
	if getenv != nil {
		if pwd := getenv(intconfig.PasswordEnv); pwd != "" {
			t.Password = pwd
			return nil
		}
	}
	if prompt == nil {
		return fmt.Errorf("%w: set %s or add pwd= to the connection string", ErrNoPassword, intconfig.PasswordEnv)
	}
	pwd, err := prompt("Database password:")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	t.Password = pwd
	return nil
}

// TerminalPrompt returns a prompt that reads a password from in without
// echo, or nil when in is not a terminal.
func TerminalPrompt(in *os.File, out io.Writer) PasswordPrompt {
	fd := int(in.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return nil
	}
	return func(prompt string) (string, error) {
		_, _ = fmt.Fprint(out, prompt)
		b, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
