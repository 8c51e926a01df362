package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/errors"
)

// Kinds of source content a tool can receive, in build order
const (
	KindCommands = "commands"
	KindSkills   = "skills"
)

// Kinds lists every supported kind in build order
var Kinds = []string{KindCommands, KindSkills}

// Output formats accepted by output.format
var formats = []string{"auto", "term", "text", "json"}

// Config is the effective agentsync configuration
type Config struct {
	Source SourceConfig `koanf:"source" toml:"source"`
	Output OutputConfig `koanf:"output" toml:"output"`
	Sync   SyncConfig   `koanf:"sync" toml:"sync"`
	// Tools maps a tool name to its kind -> target directory table
	Tools map[string]map[string]string `koanf:"tools" toml:"tools"`
}

// SourceConfig locates the shared source tree
type SourceConfig struct {
	Root string `koanf:"root" toml:"root"`
}

// OutputConfig selects the renderer
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"`
}

// SyncConfig tunes the runner
type SyncConfig struct {
	Jobs int `koanf:"jobs" toml:"jobs"`
}

// ToolNames returns the configured tool names, sorted
func (c *Config) ToolNames() []string {
	names := make([]string, 0, len(c.Tools))
	for name := range c.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the configuration for values no job could be built from
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Root) == "" {
		return errors.New(errors.ErrConfigValid, "source.root must be set")
	}
	if c.Sync.Jobs < 1 {
		return errors.Newf(errors.ErrConfigValid, "sync.jobs must be at least 1, got %d", c.Sync.Jobs).
			WithDetail("key", "sync.jobs")
	}
	if !contains(formats, c.Output.Format) {
		return errors.Newf(errors.ErrConfigValid, "output.format must be one of %s, got %q",
			strings.Join(formats, ", "), c.Output.Format).
			WithDetail("key", "output.format")
	}
	if len(c.Tools) == 0 {
		return errors.New(errors.ErrConfigValid, "no tools configured")
	}

	for _, name := range c.ToolNames() {
		kinds := c.Tools[name]
		if len(kinds) == 0 {
			return errors.Newf(errors.ErrConfigValid, "tool %q has no target directories", name).
				WithDetail("tool", name)
		}
		for kind, dir := range kinds {
			if !contains(Kinds, kind) {
				return errors.Newf(errors.ErrConfigValid, "tool %q: unknown kind %q (want %s)",
					name, kind, strings.Join(Kinds, " or ")).
					WithDetail("tool", name)
			}
			if strings.TrimSpace(dir) == "" {
				return errors.Newf(errors.ErrConfigValid, "tool %q: empty %s directory", name, kind).
					WithDetail("tool", name)
			}
		}
	}
	return nil
}

// String renders a one-line description for logs
func (c *Config) String() string {
	return fmt.Sprintf("source=%s tools=%s format=%s jobs=%d",
		c.Source.Root, strings.Join(c.ToolNames(), ","), c.Output.Format, c.Sync.Jobs)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
