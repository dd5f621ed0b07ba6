// Package environ is the sink parsed dotenv values are written into.
//
// The process environment is shared, unsynchronised state. Populate performs
// a check-then-set per name, so callers that populate from several goroutines
// must serialise those calls themselves. Map stands in for the process
// environment wherever the real table must not be touched (tests, dry runs).
package environ

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Env is a writable table of environment variables.
type Env interface {
	Lookup(name string) (string, bool)
	Set(name, value string) error
}

// OS is the environment of the current process.
type OS struct{}

func (OS) Lookup(name string) (string, bool) { return os.LookupEnv(name) }

func (OS) Set(name, value string) error { return os.Setenv(name, value) }

// Map is an in-memory Env.
type Map struct {
	vars map[string]string
}

// NewMap returns a Map holding a copy of seed.
func NewMap(seed map[string]string) *Map {
	m := &Map{vars: make(map[string]string, len(seed))}
	for k, v := range seed {
		m.vars[k] = v
	}
	return m
}

// FromEnviron builds a Map from NAME=value pairs as returned by os.Environ.
// Entries without '=' are ignored.
func FromEnviron(environ []string) *Map {
	m := &Map{vars: make(map[string]string, len(environ))}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m.vars[k] = v
	}
	return m
}

func (m *Map) Lookup(name string) (string, bool) {
	v, ok := m.vars[name]
	return v, ok
}

func (m *Map) Set(name, value string) error {
	if name == "" || strings.ContainsAny(name, "=\x00") {
		return fmt.Errorf("invalid environment variable name %q", name)
	}
	m.vars[name] = value
	return nil
}

// Environ returns the contents as sorted NAME=value pairs.
func (m *Map) Environ() []string {
	out := make([]string, 0, len(m.vars))
	for _, k := range sortedKeys(m.vars) {
		out = append(out, k+"="+m.vars[k])
	}
	return out
}

// Recorder wraps an Env and remembers every name written through it.
type Recorder struct {
	Env
	written map[string]struct{}
}

// Record returns a Recorder writing to env.
func Record(env Env) *Recorder {
	return &Recorder{Env: env, written: make(map[string]struct{})}
}

func (r *Recorder) Set(name, value string) error {
	if err := r.Env.Set(name, value); err != nil {
		return err
	}
	r.written[name] = struct{}{}
	return nil
}

// Wrote reports whether name was written through r.
func (r *Recorder) Wrote(name string) bool {
	_, ok := r.written[name]
	return ok
}

// Written returns the sorted names written through r.
func (r *Recorder) Written() []string {
	out := make([]string, 0, len(r.written))
	for k := range r.written {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Mode selects how Populate treats names that already exist in the sink.
type Mode int

const (
	// KeepExisting leaves names already present in the sink untouched.
	KeepExisting Mode = iota
	// Overwrite always writes.
	Overwrite
)

func (m Mode) String() string {
	switch m {
	case KeepExisting:
		return "keep-existing"
	case Overwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Populate writes values into env and returns the sorted names it wrote.
// It stops at the first failed write.
func Populate(env Env, values map[string]string, mode Mode) ([]string, error) {
	var written []string
	for _, name := range sortedKeys(values) {
		if mode == KeepExisting {
			if _, ok := env.Lookup(name); ok {
				continue
			}
		}
		if err := env.Set(name, values[name]); err != nil {
			return written, fmt.Errorf("set %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
