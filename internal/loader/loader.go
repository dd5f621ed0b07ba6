// Package loader reads dotenv files, parses them with internal/envfile and
// writes the result into an environ.Env.
//
// Load and Overload write nothing until every file of the call has been read
// and parsed, so a malformed file never leaves a partially populated
// environment behind.
package loader

import (
	"errors"
	"io/fs"

	"github.com/gandalfthegui/dotenv/internal/envfile"
	"github.com/gandalfthegui/dotenv/internal/environ"
	"github.com/gandalfthegui/dotenv/internal/logger"
	"github.com/sirupsen/logrus"
)

// LocalEnv is the selector value that disables environment-specific files.
const LocalEnv = "local"

// Loader loads dotenv files into an environment. A Loader owns a Parser and
// must not be used from several goroutines at once.
type Loader struct {
	env    environ.Env
	parser *envfile.Parser
	log    logrus.FieldLogger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loader) { l.log = log }
}

// WithParser makes the Loader use p instead of its own Parser.
func WithParser(p *envfile.Parser) Option {
	return func(l *Loader) { l.parser = p }
}

// New returns a Loader writing into env.
func New(env environ.Env, opts ...Option) *Loader {
	l := &Loader{
		env:    env,
		parser: envfile.NewParser(),
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads paths in order, later files taking precedence, without
// overwriting variables already present in the environment.
func (l *Loader) Load(paths ...string) error {
	return l.load(environ.KeepExisting, paths)
}

// Overload is Load, but overwrites variables already present in the
// environment.
func (l *Loader) Overload(paths ...string) error {
	return l.load(environ.Overwrite, paths)
}

func (l *Loader) load(mode environ.Mode, paths []string) error {
	values, err := l.Read(paths...)
	if err != nil {
		return err
	}
	written, err := environ.Populate(l.env, values, mode)
	if err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"files":   len(paths),
		"parsed":  len(values),
		"written": len(written),
		"mode":    mode.String(),
	}).Debug("populated environment")
	return nil
}

// Read reads and parses paths and merges the results, later files taking
// precedence. The environment is not touched.
func (l *Loader) Read(paths ...string) (map[string]string, error) {
	values := make(map[string]string)
	for _, path := range paths {
		parsed, err := l.parseFile(path)
		if err != nil {
			return nil, err
		}
		merge(values, parsed)
	}
	return values, nil
}

// LoadEnv loads a hierarchy of files derived from path, each one optional,
// later files taking precedence:
//
//	path                committed defaults
//	path.local          uncommitted local overrides
//	path.<env>          committed environment-specific defaults
//	path.<env>.local    uncommitted environment-specific overrides
//
// <env> is read from envKey once the first two files have been applied, so
// either of them may set it; defaultEnv is used when it is unset. When <env>
// is "local" the environment-specific files are skipped.
//
// Variables present in the environment before the call are never
// overwritten. Files that cannot be read are skipped; a malformed file
// aborts the load.
func (l *Loader) LoadEnv(path, envKey, defaultEnv string) error {
	rec := environ.Record(l.env)

	base, err := l.readOptional(path, path+".local")
	if err != nil {
		return err
	}
	if _, err := environ.Populate(rec, base, environ.KeepExisting); err != nil {
		return err
	}

	env := defaultEnv
	if v, ok := l.env.Lookup(envKey); ok {
		env = v
	}
	log := l.log.WithFields(logrus.Fields{"env_key": envKey, "env": env})
	if env == LocalEnv {
		log.Debug("skipping environment-specific files")
		return nil
	}

	specific, err := l.readOptional(Files(path, env)[2:]...)
	if err != nil {
		return err
	}
	// Names set by the first two files may be overridden, names that were
	// already in the environment may not.
	for name := range specific {
		if _, ok := l.env.Lookup(name); ok && !rec.Wrote(name) {
			delete(specific, name)
		}
	}
	if _, err := environ.Populate(rec, specific, environ.Overwrite); err != nil {
		return err
	}

	log.WithField("written", len(rec.Written())).Debug("loaded environment hierarchy")
	return nil
}

// Files lists the candidate files LoadEnv considers for path and env, in
// load order.
func Files(path, env string) []string {
	return []string{
		path,
		path + ".local",
		path + "." + env,
		path + "." + env + ".local",
	}
}

// readOptional is Read, skipping files that cannot be read.
func (l *Loader) readOptional(paths ...string) (map[string]string, error) {
	values := make(map[string]string)
	for _, path := range paths {
		parsed, err := l.parseFile(path)
		var pe *envfile.PathError
		if errors.As(err, &pe) {
			entry := l.log.WithField("path", path)
			if errors.Is(err, fs.ErrNotExist) {
				entry.Debug("env file not found, skipping")
			} else {
				entry.WithError(pe.Err).Warn("env file unreadable, skipping")
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		merge(values, parsed)
	}
	return values, nil
}

func (l *Loader) parseFile(path string) (map[string]string, error) {
	data, err := envfile.Read(path)
	if err != nil {
		return nil, err
	}
	values, err := l.parser.Parse(data, path)
	if err != nil {
		return nil, err
	}
	l.log.WithFields(logrus.Fields{"path": path, "vars": len(values)}).Debug("parsed env file")
	return values, nil
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
