// Package envfile parses dotenv-style files shared by the loader
// (internal/loader) and the CLI (cmd/dotenv).
//
// A file is a sequence of NAME=value statements, one per line:
//
//	# comment
//	export DB_USER=root
//	DB_PASS='p@ss word'
//	GREETING="hello\nworld"  # trailing comment
//
// Values may be built from concatenated single-quoted (literal),
// double-quoted (with \" \r \n \\ escapes) and bare segments. Bare segments
// must not contain whitespace. Parsing is a pure function of the bytes; the
// package never touches the process environment.
package envfile

import (
	"os"
	"strings"
)

// Read returns the contents of the file at path. Any failure, including a
// missing file or a directory, is reported as a *PathError.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}
	return data, nil
}

// Parse parses data with a fresh Parser. path is only used in errors.
func Parse(data []byte, path string) (map[string]string, error) {
	return NewParser().Parse(data, path)
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (map[string]string, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// ValidName reports whether s is a variable name the parser accepts.
func ValidName(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

// Quote renders value so that Parse reads it back unchanged. Plain values are
// left bare; anything else is single-quoted, with embedded single quotes
// spliced in as escaped bare segments ('it'\''s') and carriage returns as
// double-quoted "\r" segments, since a raw CR before a newline would be lost
// to newline normalisation.
func Quote(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\r\n\"'\\#") {
		return value
	}
	parts := strings.Split(value, "\r")
	for i, part := range parts {
		parts[i] = "'" + strings.ReplaceAll(part, "'", `'\''`) + "'"
	}
	return strings.Join(parts, `"\r"`)
}
