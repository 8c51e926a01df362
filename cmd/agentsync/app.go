package agentsync

import (
	"io"
	"os"

	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/arthur-debert/agentsync/pkg/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configPath string
	format     string
	runID      string

	// resolved is the output format once flags and config are known
	resolved ui.Format
}

// app is everything a command needs after flags are parsed
type app struct {
	paths    paths.Paths
	cfg      *config.Config
	table    *tools.Table
	renderer ui.Renderer
	runID    string
	logger   zerolog.Logger
}

// configOptions selects the configuration file. A path given with
// --config or AGENTSYNC_CONFIG must exist; the XDG default may not.
func (o *globalOptions) configOptions(p paths.Paths) config.LoadOptions {
	if o.configPath != "" {
		return config.LoadOptions{Path: paths.ExpandHome(o.configPath, p.HomeDir()), Required: true}
	}
	return config.LoadOptions{
		Path:     p.ConfigFilePath(),
		Required: os.Getenv(paths.EnvConfigFile) != "",
	}
}

func (o *globalOptions) loadConfig() (paths.Paths, *config.Config, error) {
	p, err := paths.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrInternal, MsgErrInitPaths)
	}
	cfg, err := config.Load(o.configOptions(p))
	if err != nil {
		return p, nil, err
	}
	return p, cfg, nil
}

// load resolves paths, configuration, the tool table and the renderer
func (o *globalOptions) load(cmd *cobra.Command) (*app, error) {
	p, cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	formatName := cfg.Output.Format
	if o.format != "" {
		formatName = o.format
	}
	format, err := ui.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	o.resolved = format

	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("cli").With().Str("command", cmd.Name()).Logger()
	logger.Debug().
		Str("source", cfg.Source.Root).
		Stringer("format", format).
		Strs("tools", cfg.ToolNames()).
		Msg("configuration resolved")

	return &app{
		paths:    p,
		cfg:      cfg,
		table:    tools.FromConfig(cfg),
		renderer: renderer,
		runID:    o.runID,
		logger:   logger,
	}, nil
}

// renderError prints err on w in the selected format. Errors raised
// before the format was resolved fall back to the --format flag, then
// to auto detection.
func renderError(opts *globalOptions, w io.Writer, err error) {
	format := opts.resolved
	if format == ui.FormatAuto && opts.format != "" {
		if parsed, parseErr := ui.ParseFormat(opts.format); parseErr == nil {
			format = parsed
		}
	}
	renderer, rerr := ui.NewRenderer(format, w)
	if rerr != nil {
		renderer, _ = ui.NewRenderer(ui.FormatText, w)
	}
	_ = renderer.RenderError(err)
}
