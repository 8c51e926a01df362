package agentsync

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep AI tool commands and skills linked to one source tree"
	MsgSyncShort       = "Link source entries into tool directories"
	MsgStatusShort     = "Show what a sync would do"
	MsgToolsShort      = "List the configured tools and their directories"
	MsgConfigShort     = "Inspect or create the configuration file"
	MsgConfigShowShort = "Print the effective configuration"
	MsgConfigInitShort = "Write a commented configuration template"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat = "agentsync version %s\n"
	MsgConfigWritten = "Wrote configuration template to %s"

	// Error messages
	MsgErrInitPaths    = "failed to initialize paths"
	MsgErrSyncFailed   = "%d operation(s) failed"
	MsgErrInspect      = "failed to inspect %s"
	MsgErrConfigExists = "%s already exists (use --force to overwrite)"
	MsgErrConfigWrite  = "failed to write %s"
	MsgErrInvalidJobs  = "--jobs must be at least 1, got %d"
	MsgErrNoCommand    = "no command specified"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Configuration file (default $XDG_CONFIG_HOME/agentsync/config.toml)"
	MsgFlagFormat  = "Output format: auto, term, text or json"
	MsgFlagTarget  = "Comma-separated tool names (e.g. claude,codebuddy)"
	MsgFlagType    = "What to sync: commands, skills or both"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagJobs    = "Number of jobs reconciled at once (default from config)"
	MsgFlagForce   = "Overwrite an existing configuration file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/sync-example.txt
	msgSyncExampleRaw string
	MsgSyncExample    = strings.TrimRight(msgSyncExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
