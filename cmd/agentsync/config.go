package agentsync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigInitCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, MsgErrInitPaths)
			}
			path := opts.configOptions(p).Path

			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, path).
					WithDetail("path", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrConfigLoad, MsgErrConfigWrite, path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateConfigContent()), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrConfigLoad, MsgErrConfigWrite, path)
			}

			log.Info().Str("path", path).Bool("force", force).Msg("configuration template written")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}
