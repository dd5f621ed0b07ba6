package main

import (
	"os"

	"github.com/gandalfthegui/dotenv/internal/environ"
	"github.com/gandalfthegui/dotenv/internal/loader"
	"github.com/spf13/cobra"
)

// newPrintCmd loads into a copy of the process environment and prints the
// variables that would be set, leaving the real environment alone.
func newPrintCmd(a *app) *cobra.Command {
	var (
		format   string
		envName  string
		files    []string
		override bool
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Show the variables a load would set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sink := environ.FromEnviron(os.Environ())
			if envName != "" {
				if err := sink.Set(a.cfg.EnvKey, envName); err != nil {
					return err
				}
			}

			rec := environ.Record(sink)
			l := loader.New(rec, loader.WithLogger(a.log))
			if err := a.load(l, files, override); err != nil {
				return err
			}

			values := make(map[string]string)
			for _, name := range rec.Written() {
				values[name], _ = sink.Lookup(name)
			}
			return encode(cmd.OutOrStdout(), format, values)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatEnv, "output format: env, json, yaml")
	cmd.Flags().StringVar(&envName, "env", "", "environment to select, overriding the selector variable")
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "load these files instead of the hierarchy (repeatable)")
	cmd.Flags().BoolVar(&override, "override", false, "overwrite variables that are already set")
	return cmd
}
