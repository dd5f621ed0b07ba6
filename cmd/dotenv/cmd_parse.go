package main

import (
	"github.com/gandalfthegui/dotenv/internal/envfile"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a dotenv file and print its variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := envfile.ParseFile(args[0])
			if err != nil {
				return err
			}
			a.log.WithField("path", args[0]).Debugf("parsed %s", plural(len(values), "variable"))
			return encode(cmd.OutOrStdout(), format, values)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatEnv, "output format: env, json, yaml")
	return cmd
}
