// Package paths provides centralized path handling for agentsync.
// It implements XDG Base Directory specification compliance and
// resolves the user-facing `~` shorthand used in the tool path table.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/agentsync/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for agentsync
	EnvConfigDir = "AGENTSYNC_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for agentsync
	EnvStateDir = "AGENTSYNC_STATE_DIR"

	// EnvConfigFile points at an explicit configuration file
	EnvConfigFile = "AGENTSYNC_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for agentsync-specific files
	AppDirName = "agentsync"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "agentsync.log"
)

// Paths provides the locations agentsync reads and writes outside of the
// directories it reconciles
type Paths interface {
	HomeDir() string
	ConfigDir() string
	ConfigFilePath() string
	StateDir() string
	LogFilePath() string
	Expand(path string) (string, error)
}

type paths struct {
	home      string
	xdgConfig string
	xdgState  string
}

// New creates a new Paths instance from the current environment
func New() (Paths, error) {
	home, err := homeDir()
	if err != nil {
		return nil, err
	}

	// xdg caches the environment at init; tests and callers may have changed it
	xdg.Reload()

	p := &paths{home: home}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.xdgConfig = ExpandHome(dir, home)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.xdgState = ExpandHome(dir, home)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p, nil
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return home, nil
	}
	if home = os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	return "", errors.Wrap(err, errors.ErrInternal, "cannot determine home directory")
}

// HomeDir returns the user's home directory
func (p *paths) HomeDir() string {
	return p.home
}

// ConfigDir returns the XDG config directory for agentsync
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// ConfigFilePath returns the user configuration file, honoring AGENTSYNC_CONFIG
func (p *paths) ConfigFilePath() string {
	if file := os.Getenv(EnvConfigFile); file != "" {
		return ExpandHome(file, p.home)
	}
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// StateDir returns the XDG state directory for agentsync
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path of the rotating log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// Expand resolves `~` and makes the path absolute
func (p *paths) Expand(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}
	abs, err := filepath.Abs(ExpandHome(path, p.home))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot make %s absolute", path)
	}
	return abs, nil
}

// ExpandHome expands a leading ~ to home. Paths of the form ~user are
// returned unchanged.
func ExpandHome(path, home string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) == 1 {
		return home
	}

	// Handle both ~/ and ~
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}

	return path
}
