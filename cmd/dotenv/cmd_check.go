package main

import (
	"errors"
	"fmt"

	"github.com/gandalfthegui/dotenv/internal/envfile"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate dotenv files and report the first error in each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := newPalette(out)
			parser := envfile.NewParser()

			failed := 0
			for _, path := range args {
				values, err := checkFile(parser, path)
				if err == nil {
					fmt.Fprintf(out, "%s✓%s %s %s(%s)%s\n",
						p.color(colorGreen), p.reset(), path,
						p.color(colorDim), plural(len(values), "variable"), p.reset())
					continue
				}

				failed++
				a.log.WithField("path", path).WithError(err).Debug("check failed")

				var fe *envfile.FormatError
				if errors.As(err, &fe) {
					fmt.Fprintf(out, "%s✗%s %s%s:%d%s: %s\n",
						p.color(colorRed), p.reset(),
						p.color(colorBold), fe.Path, fe.Line, p.reset(), fe.Message)
				} else {
					fmt.Fprintf(out, "%s✗%s %s: %v\n", p.color(colorRed), p.reset(), path, err)
				}
			}

			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s%s of %d failed%s\n",
					p.color(colorYellow), plural(failed, "file"), len(args), p.reset())
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func checkFile(parser *envfile.Parser, path string) (map[string]string, error) {
	data, err := envfile.Read(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(data, path)
}
