package agentsync

import (
	"strings"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/filesystem"
	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newSyncCmd(opts *globalOptions) *cobra.Command {
	var (
		target  string
		kind    string
		dryRun  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Example: MsgSyncExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}

			sel, err := tools.ParseSelection(kind)
			if err != nil {
				return err
			}
			names := tools.ParseTargets(target)
			jobs, err := tools.BuildJobs(a.table, a.cfg.Source.Root, names, sel, a.paths.Expand)
			if err != nil {
				return err
			}

			n := a.cfg.Sync.Jobs
			if cmd.Flags().Changed("jobs") {
				if workers < 1 {
					return errors.Newf(errors.ErrInvalidInput, MsgErrInvalidJobs, workers)
				}
				n = workers
			}

			// Dry runs see the filesystem read-only
			fsys := filesystem.NewOS()
			if dryRun {
				fsys = filesystem.NewAferoFS(afero.NewReadOnlyFs(afero.NewOsFs()))
			}

			a.logger.Info().
				Strs("targets", names).
				Str("type", string(sel)).
				Bool("dryRun", dryRun).
				Int("workers", n).
				Int("jobs", len(jobs)).
				Msg("starting sync")

			rec := reconcile.New(fsys, reconcile.Options{
				DryRun:   dryRun,
				Observer: a.renderer.Event,
			})
			summary, runErr := reconcile.NewRunner(rec, n).Run(cmd.Context(), jobs)
			summary.RunID = a.runID

			if err := a.renderer.RenderSummary(summary); err != nil {
				return err
			}
			if runErr != nil {
				return errors.Wrap(runErr, errors.ErrInternal, "sync interrupted")
			}
			if summary.HasFailures() {
				return errors.Newf(errors.ErrSyncFailed, MsgErrSyncFailed, summary.Total.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", MsgFlagTarget)
	cmd.Flags().StringVar(&kind, "type", string(tools.SelectBoth), MsgFlagType)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().IntVarP(&workers, "jobs", "j", 0, MsgFlagJobs)
	_ = cmd.MarkFlagRequired("target")

	_ = cmd.RegisterFlagCompletionFunc("target", toolNamesCompletion(opts))
	_ = cmd.RegisterFlagCompletionFunc("type", selectionCompletion)

	return cmd
}

// toolNamesCompletion completes the comma-separated --target list with
// configured tool names not already given
func toolNamesCompletion(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		_, cfg, err := opts.loadConfig()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		prefix := ""
		given := map[string]bool{}
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix = toComplete[:i+1]
			for _, name := range tools.ParseTargets(toComplete[:i]) {
				given[name] = true
			}
		}

		var completions []string
		for _, name := range cfg.ToolNames() {
			if !given[name] {
				completions = append(completions, prefix+name)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

func selectionCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions := make([]string, 0, len(tools.Selections))
	for _, sel := range tools.Selections {
		completions = append(completions, string(sel))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// jobsFor builds the jobs a read-only command looks at: the given targets,
// or every configured tool when none were given
func jobsFor(a *app, target, kind string) ([]types.Job, error) {
	sel, err := tools.ParseSelection(kind)
	if err != nil {
		return nil, err
	}
	names := tools.ParseTargets(target)
	if target == "" {
		names = a.table.Names()
	}
	return tools.BuildJobs(a.table, a.cfg.Source.Root, names, sel, a.paths.Expand)
}
