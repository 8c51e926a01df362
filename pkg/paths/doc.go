// Package paths provides centralized path handling for agentsync.
//
// # Environment Variables
//
// The package respects the following environment variables:
//
//   - AGENTSYNC_CONFIG: explicit configuration file
//   - AGENTSYNC_CONFIG_DIR: override of $XDG_CONFIG_HOME/agentsync
//   - AGENTSYNC_STATE_DIR: override of $XDG_STATE_HOME/agentsync (log file)
//
// # Usage
//
//	p, err := paths.New()
//	if err != nil {
//	    return err
//	}
//	skills, err := p.Expand("~/.claude/skills") // /home/user/.claude/skills
package paths
