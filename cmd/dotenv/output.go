package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/gandalfthegui/dotenv/internal/envfile"
	"gopkg.in/yaml.v3"
)

const (
	formatEnv  = "env"
	formatJSON = "json"
	formatYAML = "yaml"
)

// encode writes values to w in the given format, sorted by name.
func encode(w io.Writer, format string, values map[string]string) error {
	switch format {
	case formatEnv:
		for _, name := range sortedNames(values) {
			if _, err := fmt.Fprintf(w, "%s=%s\n", name, envfile.Quote(values[name])); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func sortedNames(values map[string]string) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
