// dotenv – load .env files into the environment.
//
// Usage:
//
//	dotenv parse <file> [-o env|json|yaml]   – print the variables of one file
//	dotenv check <file>...                   – validate files, report the failing line
//	dotenv print [--env <name>] [-f <file>]  – show what would be loaded
//	dotenv run [-f <file>] -- <cmd> [args]   – run a command with the loaded variables
//
// Without -f, print and run load the hierarchy .env, .env.local,
// .env.<env>, .env.<env>.local where <env> comes from APP_ENV (see
// .dotenv.yaml to change the base path, the selector or its default).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gandalfthegui/dotenv/internal/config"
	"github.com/gandalfthegui/dotenv/internal/loader"
	"github.com/gandalfthegui/dotenv/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "dotenv: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	configFile string
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dotenv",
		Short:         "Load .env files into the environment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default "+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newParseCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newPrintCmd(a))
	root.AddCommand(newRunCmd(a))

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.log = logger.Setup(cfg.LogLevel, cmd.ErrOrStderr())
	return nil
}

// load applies files to l, or the configured hierarchy when files is empty.
func (a *app) load(l *loader.Loader, files []string, override bool) error {
	if len(files) == 0 {
		a.log.WithFields(logrus.Fields{
			"path":    a.cfg.Path,
			"env_key": a.cfg.EnvKey,
		}).Debug("loading env hierarchy")
		return l.LoadEnv(a.cfg.Path, a.cfg.EnvKey, a.cfg.DefaultEnv)
	}
	if override || a.cfg.Override {
		return l.Overload(files...)
	}
	return l.Load(files...)
}

// exitError makes main exit with code without printing anything.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
