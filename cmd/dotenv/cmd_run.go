package main

import (
	"os"

	"github.com/gandalfthegui/dotenv/internal/environ"
	"github.com/gandalfthegui/dotenv/internal/loader"
	"github.com/gandalfthegui/dotenv/internal/runner"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		files    []string
		override bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command with the loaded variables in its environment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := loader.New(environ.OS{}, loader.WithLogger(a.log))
			if err := a.load(l, files, override); err != nil {
				return err
			}

			r := &runner.Runner{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
				Log:    a.log,
			}
			code, err := r.Run(cmd.Context(), os.Environ(), args[0], args[1:]...)
			if err != nil {
				return err
			}
			if code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}

	// Everything after the command name belongs to the command.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "load these files instead of the hierarchy (repeatable)")
	cmd.Flags().BoolVar(&override, "override", false, "overwrite variables that are already set")
	return cmd
}
