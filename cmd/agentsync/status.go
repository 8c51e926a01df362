package agentsync

import (
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/filesystem"
	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	var (
		target string
		kind   string
	)

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}

			jobs, err := jobsFor(a, target, kind)
			if err != nil {
				return err
			}

			// Inspection only reads; the OS filesystem resolves every hop of
			// a link so targets outside the source tree are reported
			rec := reconcile.New(filesystem.NewOS(), reconcile.Options{DryRun: true})
			inspections := make([]reconcile.Inspection, 0, len(jobs))
			for _, job := range jobs {
				inspection, err := rec.Inspect(job)
				if err != nil {
					return errors.Wrapf(err, errors.ErrReadDir, MsgErrInspect, job.String())
				}
				inspections = append(inspections, inspection)
			}

			a.logger.Debug().Int("jobs", len(inspections)).Msg("status collected")
			return a.renderer.RenderStatus(inspections)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", MsgFlagTarget)
	cmd.Flags().StringVar(&kind, "type", string(tools.SelectBoth), MsgFlagType)
	_ = cmd.RegisterFlagCompletionFunc("target", toolNamesCompletion(opts))
	_ = cmd.RegisterFlagCompletionFunc("type", selectionCompletion)

	return cmd
}

func newToolsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "tools",
		Short:   MsgToolsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return a.renderer.RenderTools(a.table)
		},
	}
}
